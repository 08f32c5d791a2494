/*
 * Copyright (c) 2026, Heartscope Labs.
 *
 * Heartscope Labs licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package parsers

import (
	"testing"

	"github.com/heartscope/dating-data-service/internal/ingestion/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetString(t *testing.T) {
	obj := map[string]interface{}{
		"_id":  "abc",
		"num":  float64(42),
		"zero": "",
		"nil":  nil,
	}

	assert.Equal(t, "abc", GetString(obj, "_id"))
	assert.Equal(t, "abc", GetString(obj, "missing", "_id"), "falls through to later keys")
	assert.Equal(t, "abc", GetString(obj, "zero", "_id"), "empty values are skipped")
	assert.Equal(t, "42", GetString(obj, "num"))
	assert.Equal(t, "", GetString(obj, "nil", "missing"))
}

func TestStringOf(t *testing.T) {
	assert.Equal(t, "", StringOf(nil))
	assert.Equal(t, "text", StringOf("text"))
	assert.Equal(t, "7", StringOf(float64(7)))
	assert.Equal(t, "7.5", StringOf(7.5))
	assert.Equal(t, "true", StringOf(true))
	assert.Equal(t, "1689200473000", StringOf(float64(1689200473000)), "large ints do not go scientific")
}

func TestTruthy(t *testing.T) {
	assert.True(t, Truthy(true))
	assert.True(t, Truthy("true"))
	assert.True(t, Truthy("1"))
	assert.True(t, Truthy(float64(1)))
	assert.False(t, Truthy(false))
	assert.False(t, Truthy("yes"))
	assert.False(t, Truthy(float64(0)))
	assert.False(t, Truthy(nil))
}

func TestRouteUnknown(t *testing.T) {
	obj := map[string]interface{}{
		"known_a": 1,
		"z_extra": "z",
		"a_extra": "a",
	}

	attrs := RouteUnknown(obj, []string{"known_a"})
	require.NotNil(t, attrs)
	assert.Equal(t, []string{"a_extra", "z_extra"}, attrs.Keys(), "routed in sorted order")

	assert.Nil(t, RouteUnknown(obj, []string{"known_a", "z_extra", "a_extra"}),
		"nil when nothing is unknown")
}

func TestDateRangeOf(t *testing.T) {
	msgs := []model.NormalizedMessage{
		{SentAt: "2023-07-12T22:21:13.000Z"},
		{SentAt: "not a date"},
		{SentAt: "2023-07-01T08:00:00.000Z"},
		{SentAt: "2023-08-01T09:00:00.000Z"},
	}

	dr := DateRangeOf(msgs)
	require.NotNil(t, dr)
	assert.Equal(t, "2023-07-01T08:00:00.000Z", dr.Earliest)
	assert.Equal(t, "2023-08-01T09:00:00.000Z", dr.Latest)

	assert.Nil(t, DateRangeOf(nil))
	assert.Nil(t, DateRangeOf([]model.NormalizedMessage{{SentAt: "junk"}}))
}

func TestBuildMetadata(t *testing.T) {
	data := &model.DatasetData{
		Participants: []model.Participant{{ID: "u"}},
		Messages:     []model.NormalizedMessage{{ID: "1", SentAt: "2023-07-12T22:21:13.000Z"}},
	}
	meta := BuildMetadata(model.PlatformTinder, data, []string{"data.json"})

	assert.Equal(t, model.PlatformTinder, meta.Platform)
	assert.Equal(t, 1, meta.ParticipantCount)
	assert.Equal(t, 0, meta.MatchCount)
	assert.Equal(t, 1, meta.MessageCount)
	assert.NotEmpty(t, meta.ParsedAt)
	require.NotNil(t, meta.DateRange)

	nilMeta := BuildMetadata(model.PlatformHinge, nil, nil)
	assert.Nil(t, nilMeta.DateRange)
}
