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

package service

import (
	"testing"

	"github.com/heartscope/dating-data-service/internal/schema/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(fields ...string) map[string]interface{} {
	m := map[string]interface{}{
		"_id": "1", "match_id": "m1", "sent_date": "2023-07-12T22:21:13Z",
		"message": "hey", "from": "u", "to": "p",
	}
	for _, f := range fields {
		m[f] = "extra"
	}
	return m
}

func TestCaptureSnapshot_ObservedAndRequired(t *testing.T) {
	raw := map[string]interface{}{
		"messages": []interface{}{message()},
	}

	snapshot := CaptureSnapshot(raw, "tinder", "v1")
	require.Contains(t, snapshot.Entities, model.EntityMessages)

	schema := snapshot.Entities[model.EntityMessages]
	assert.Equal(t, 1, schema.SampleCount)
	assert.ElementsMatch(t,
		[]string{"_id", "match_id", "sent_date", "message", "from", "to"},
		schema.ObservedFields)
	assert.Empty(t, schema.MissingFields)
	assert.Empty(t, snapshot.UnknownFields[model.EntityMessages])
	assert.Equal(t, "tinder", snapshot.Platform)
	assert.Equal(t, "v1", snapshot.Version)
}

func TestCaptureSnapshot_NestedMessageGroups(t *testing.T) {
	raw := map[string]interface{}{
		"messages": []interface{}{
			map[string]interface{}{
				"_id":      "grp-1",
				"match_id": "m1",
				"messages": []interface{}{message(), message()},
			},
		},
	}

	snapshot := CaptureSnapshot(raw, "tinder", "")
	schema := snapshot.Entities[model.EntityMessages]
	assert.Equal(t, 2, schema.SampleCount, "inner records are sampled, not the wrapper")
	assert.Empty(t, schema.MissingFields)
	assert.Empty(t, snapshot.UnknownFields[model.EntityMessages])
}

func TestCaptureSnapshot_WrapperOnlyMatchLink(t *testing.T) {
	inner := message()
	delete(inner, "match_id")
	raw := map[string]interface{}{
		"messages": []interface{}{
			map[string]interface{}{
				"_id":      "grp-1",
				"match_id": "m1",
				"messages": []interface{}{inner},
			},
		},
	}

	snapshot := CaptureSnapshot(raw, "tinder", "")
	schema := snapshot.Entities[model.EntityMessages]
	assert.Empty(t, schema.MissingFields,
		"match link carried on the group wrapper satisfies the requirement")
	assert.Contains(t, schema.ObservedFields, "match_id")
}

func TestCaptureSnapshot_MixedFlatAndGroupedMessages(t *testing.T) {
	raw := map[string]interface{}{
		"messages": []interface{}{
			message(),
			map[string]interface{}{
				"match_id": "m2",
				"messages": []interface{}{message()},
			},
		},
	}

	snapshot := CaptureSnapshot(raw, "tinder", "")
	schema := snapshot.Entities[model.EntityMessages]
	assert.Equal(t, 2, schema.SampleCount)
	assert.Empty(t, schema.MissingFields)
}

func TestCaptureSnapshot_SampleCap(t *testing.T) {
	var records []interface{}
	for i := 0; i < 25; i++ {
		records = append(records, message())
	}
	raw := map[string]interface{}{"messages": records}

	snapshot := CaptureSnapshot(raw, "tinder", "")
	assert.Equal(t, sampleLimit, snapshot.Entities[model.EntityMessages].SampleCount)
}

func TestCaptureSnapshot_UnknownFieldsRecorded(t *testing.T) {
	raw := map[string]interface{}{
		"messages": []interface{}{message("gif_url", "sticker_url")},
	}

	snapshot := CaptureSnapshot(raw, "tinder", "")
	assert.ElementsMatch(t, []string{"gif_url", "sticker_url"},
		snapshot.UnknownFields[model.EntityMessages])
}

func TestCaptureSnapshot_MissingRequiredFields(t *testing.T) {
	raw := map[string]interface{}{
		"messages": []interface{}{
			map[string]interface{}{"_id": "1", "message": "hey"},
		},
	}

	snapshot := CaptureSnapshot(raw, "tinder", "")
	schema := snapshot.Entities[model.EntityMessages]
	assert.ElementsMatch(t, []string{"match_id", "sent_date", "from", "to"}, schema.MissingFields)
}

func TestCaptureSnapshot_EmptyPayload(t *testing.T) {
	snapshot := CaptureSnapshot(nil, "tinder", "")
	assert.Empty(t, snapshot.Entities)
	assert.Empty(t, snapshot.UnknownFields)
}

func TestCaptureSnapshot_SkipsNonObjectRecords(t *testing.T) {
	raw := map[string]interface{}{
		"messages": []interface{}{"not an object", message()},
	}
	snapshot := CaptureSnapshot(raw, "tinder", "")
	assert.Equal(t, 1, snapshot.Entities[model.EntityMessages].SampleCount)
}

func TestFindCollection_CaseInsensitive(t *testing.T) {
	raw := map[string]interface{}{"Messages": []interface{}{}}

	_, ok := FindCollection(raw, "messages")
	assert.True(t, ok)
	_, ok = FindCollection(raw, "matches")
	assert.False(t, ok)
}
