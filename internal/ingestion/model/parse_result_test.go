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

package model

import (
	"testing"

	"github.com/heartscope/dating-data-service/internal/system/errors"
	"github.com/stretchr/testify/assert"
)

func TestAddIssue_RoutesBySeverity(t *testing.T) {
	var r ParseResult
	r.AddIssue(errors.INVALID_TIMESTAMP.AsError("bad timestamp"))
	r.AddIssue(errors.EMPTY_MESSAGE_BODY.AsWarning("empty body"))
	r.AddIssue(errors.INVALID_JSON.AsCritical("broken payload"))

	assert.Len(t, r.Errors, 2, "critical and error issues share the errors list")
	assert.Len(t, r.Warnings, 1)
}

func TestHasCritical(t *testing.T) {
	var r ParseResult
	assert.False(t, r.HasCritical())

	r.AddIssue(errors.INVALID_TIMESTAMP.AsError("bad timestamp"))
	assert.False(t, r.HasCritical(), "plain errors are not critical")

	r.AddIssue(errors.EMPTY_MESSAGE_BODY.AsWarning("empty body"))
	assert.False(t, r.HasCritical(), "warnings never count")

	r.AddIssue(errors.INVALID_HEADER.AsCritical("unrecognizable header"))
	assert.True(t, r.HasCritical())
}
