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

package hinge

import (
	"testing"

	"github.com/heartscope/dating-data-service/internal/ingestion/model"
	"github.com/heartscope/dating-data-service/internal/system/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findIssue(issues []errors.ParseIssue, code string) (errors.ParseIssue, bool) {
	for _, issue := range issues {
		if issue.Code == code {
			return issue, true
		}
	}
	return errors.ParseIssue{}, false
}

// ---------------------------------------------------------------------------
// CSV matches file
// ---------------------------------------------------------------------------

func TestParse_MatchesCSV(t *testing.T) {
	content := "Match ID,Matched At,Unmatched,City\n" +
		"m1,2023-07-01 10:00:00,,Berlin\n" +
		"m2,2023-07-02 11:00:00,true,Hamburg\n"

	result := NewParser("v1").Parse(content, "matches.csv")
	require.True(t, result.Success)
	require.NotNil(t, result.Data)

	require.Len(t, result.Data.Matches, 2)
	first := result.Data.Matches[0]
	assert.Equal(t, "m1", first.ID)
	assert.Equal(t, "2023-07-01T10:00:00.000Z", first.CreatedAt)
	assert.Equal(t, model.StatusActive, first.Status)
	assert.Equal(t, [2]string{PlaceholderUserID, "hinge:partner:m1"}, first.Participants)

	assert.Equal(t, model.StatusUnmatched, result.Data.Matches[1].Status)

	// Uninterpreted columns survive in attributes.
	require.NotNil(t, first.Attributes)
	city, ok := first.Attributes.Get("City")
	require.True(t, ok)
	assert.Equal(t, "Berlin", city)

	// Placeholder user plus one partner per match.
	require.Len(t, result.Data.Participants, 3)
	assert.Equal(t, PlaceholderUserID, result.Data.Participants[0].ID)
	assert.True(t, result.Data.Participants[0].IsUser)
}

func TestParse_MatchesCSV_BadHeader(t *testing.T) {
	content := "Name,City\nAlice,Berlin\n"

	result := NewParser("").Parse(content, "matches.csv")
	require.False(t, result.Success)
	issue, found := findIssue(result.Errors, errors.INVALID_HEADER.Code)
	require.True(t, found)
	assert.True(t, issue.IsCritical())
	assert.Equal(t, "matches.csv", issue.Source)
}

func TestParse_MatchesCSV_RowWithoutIDSkipped(t *testing.T) {
	content := "Match ID,Matched At\n" +
		",2023-07-01 10:00:00\n" +
		"m2,2023-07-02 11:00:00\n"

	result := NewParser("").Parse(content, "matches.csv")
	require.True(t, result.Success)
	require.Len(t, result.Data.Matches, 1)
	assert.Equal(t, "m2", result.Data.Matches[0].ID)

	_, found := findIssue(result.Warnings, errors.MALFORMED_ROW.Code)
	assert.True(t, found)
}

// ---------------------------------------------------------------------------
// CSV messages file
// ---------------------------------------------------------------------------

func TestParse_MessagesCSV(t *testing.T) {
	content := "Sent Date,Body,Match ID\n" +
		"2023-07-12 22:21:13,\"hey, you\",m1\n" +
		"2023-07-12 22:25:00,second,m1\n"

	result := NewParser("").Parse(content, "messages.csv")
	require.True(t, result.Success)

	require.Len(t, result.Data.Messages, 2)
	first := result.Data.Messages[0]
	assert.Equal(t, "hinge:messages.csv:msg:1", first.ID, "ids synthesized from position")
	assert.Equal(t, "2023-07-12T22:21:13.000Z", first.SentAt)
	assert.Equal(t, "hey, you", first.Body)
	assert.Equal(t, "m1", first.MatchID)
	assert.Equal(t, PlaceholderUserID, first.SenderID)
	assert.Equal(t, model.DirectionUser, first.Direction)
}

func TestParse_MessagesCSV_BadHeader(t *testing.T) {
	content := "Foo,Bar\n1,2\n"

	result := NewParser("").Parse(content, "messages.csv")
	require.False(t, result.Success)
	_, found := findIssue(result.Errors, errors.INVALID_HEADER.Code)
	assert.True(t, found)
}

func TestParse_MessagesCSV_TextColumnAloneSuffices(t *testing.T) {
	content := "Body\nhello\n"

	result := NewParser("").Parse(content, "messages.csv")
	require.True(t, result.Success)
	require.Len(t, result.Data.Messages, 1)
	assert.Equal(t, "hello", result.Data.Messages[0].Body)
	assert.Equal(t, "", result.Data.Messages[0].SentAt)
}

// ---------------------------------------------------------------------------
// JSON variant
// ---------------------------------------------------------------------------

const jsonExport = `[
	{
		"match": [{"type": "match", "timestamp": "2023-07-01T10:00:00Z"}],
		"like": [{"timestamp": "2023-06-30T09:00:00Z"}],
		"chats": [
			{"body": "hi there", "timestamp": "2023-07-01T11:00:00Z", "type": "text"},
			{"body": "how are you", "timestamp": "2023-07-01T12:00:00Z", "type": "text"}
		]
	},
	{
		"block": [{"block_type": "remove"}],
		"chats": [
			{"body": "bye", "timestamp": "2023-08-01T08:00:00Z"}
		]
	}
]`

func TestParse_JSONExport(t *testing.T) {
	result := NewParser("v1").Parse(jsonExport, "matches.json")
	require.True(t, result.Success)

	require.Len(t, result.Data.Matches, 2)
	first := result.Data.Matches[0]
	assert.Equal(t, "hinge:match:1", first.ID)
	assert.Equal(t, "2023-07-01T10:00:00.000Z", first.CreatedAt)
	assert.Equal(t, "like", first.Origin)
	assert.Equal(t, model.StatusActive, first.Status)
	assert.Equal(t, [2]string{PlaceholderUserID, "hinge:partner:1"}, first.Participants)

	second := result.Data.Matches[1]
	assert.Equal(t, "hinge:match:2", second.ID)
	assert.Equal(t, model.StatusUnmatched, second.Status, "block events mark the match unmatched")
	assert.Equal(t, "2023-08-01T08:00:00.000Z", second.CreatedAt, "falls back to earliest chat")
	assert.Equal(t, "", second.Origin)

	require.Len(t, result.Data.Messages, 3)
	msg := result.Data.Messages[0]
	assert.Equal(t, "hinge:msg:1:1", msg.ID)
	assert.Equal(t, "hinge:match:1", msg.MatchID)
	assert.Equal(t, "hi there", msg.Body)
	assert.Equal(t, PlaceholderUserID, msg.SenderID)
	assert.Equal(t, model.DirectionUser, msg.Direction)
	assert.Equal(t, "2023-07-01T11:00:00.000Z", msg.SentAt)
}

func TestParse_JSONExport_ObjectWrapper(t *testing.T) {
	content := `{"matches": ` + jsonExport + `}`
	result := NewParser("").Parse(content, "export.json")
	require.True(t, result.Success)
	assert.Len(t, result.Data.Matches, 2)
}

func TestParse_JSONExport_InvalidShapes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    string
	}{
		{"scalar", `42`, errors.INVALID_STRUCTURE.Code},
		{"object without matches", `{"something": []}`, errors.INVALID_STRUCTURE.Code},
		{"broken json", `[{]`, errors.INVALID_JSON.Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewParser("").Parse(tt.content, "export.json")
			require.False(t, result.Success)
			_, found := findIssue(result.Errors, tt.code)
			assert.True(t, found)
		})
	}
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

func TestParse_Dispatch(t *testing.T) {
	result := NewParser("").Parse("x,y\n1,2\n", "mystery.csv")
	require.False(t, result.Success)
	issue, found := findIssue(result.Errors, errors.UNKNOWN_FILE_TYPE.Code)
	require.True(t, found)
	assert.True(t, issue.IsCritical())

	result = NewParser("").Parse("   ", "matches.csv")
	require.False(t, result.Success)
	_, found = findIssue(result.Errors, errors.EMPTY_FILE.Code)
	assert.True(t, found)
}

func TestValidate(t *testing.T) {
	p := NewParser("")
	assert.False(t, p.Validate("").Valid)
	assert.True(t, p.Validate("a,b\n1,2").Valid)
}
