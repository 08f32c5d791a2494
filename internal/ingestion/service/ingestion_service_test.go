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
	"os"
	"testing"

	"github.com/heartscope/dating-data-service/internal/ingestion/model"
	"github.com/heartscope/dating-data-service/internal/system/config"
	"github.com/heartscope/dating-data-service/internal/system/errors"
	"github.com/heartscope/dating-data-service/internal/system/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.OverrideRuntime(config.Config{
		Log: config.LogConfig{LogLevel: "ERROR"},
		Ingestion: config.IngestionConfig{
			SchemaVersion: "test",
		},
	})
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func jsonFile(name, content string) model.ExtractedFile {
	return model.ExtractedFile{Filename: name, Content: content, Extension: "json", Size: int64(len(content))}
}

func csvFile(name, content string) model.ExtractedFile {
	return model.ExtractedFile{Filename: name, Content: content, Extension: "csv", Size: int64(len(content))}
}

func findIssue(issues []errors.ParseIssue, code string) (errors.ParseIssue, bool) {
	for _, issue := range issues {
		if issue.Code == code {
			return issue, true
		}
	}
	return errors.ParseIssue{}, false
}

const tinderContent = `{
	"user": {"_id": "u", "name": "Sam"},
	"messages": [
		{"_id": "1", "match_id": "m1", "sent_date": 1689200473000, "message": "hey", "from": "u", "to": "p"}
	],
	"matches": [
		{"_id": "m1", "person": {"_id": "p", "name": "Alice"}, "created_date": 1689100000000}
	]
}`

func TestParseExtractedFiles_Tinder(t *testing.T) {
	svc := NewIngestionService()
	result := svc.ParseExtractedFiles([]model.ExtractedFile{jsonFile("data.json", tinderContent)}, model.PlatformTinder)
	require.True(t, result.Success)

	assert.Equal(t, 2, result.Metadata.ParticipantCount)
	assert.Equal(t, 1, result.Metadata.MatchCount)
	assert.Equal(t, 1, result.Metadata.MessageCount)
	assert.Equal(t, "2023-07-12T22:21:13.000Z", result.Data.Messages[0].SentAt)

	require.NotNil(t, result.Metadata.DateRange)
	assert.Equal(t, "2023-07-12T22:21:13.000Z", result.Metadata.DateRange.Earliest)
}

func TestParseExtractedFiles_UnknownPlatform(t *testing.T) {
	svc := NewIngestionService()
	result := svc.ParseExtractedFiles(nil, model.Platform("okcupid"))
	require.False(t, result.Success)

	issue, found := findIssue(result.Errors, errors.UNKNOWN_PLATFORM.Code)
	require.True(t, found)
	assert.True(t, issue.IsCritical())
}

func TestParseExtractedFiles_TinderFileCardinality(t *testing.T) {
	svc := NewIngestionService()

	result := svc.ParseExtractedFiles([]model.ExtractedFile{csvFile("notes.csv", "a,b\n1,2")}, model.PlatformTinder)
	require.False(t, result.Success)
	_, found := findIssue(result.Errors, errors.MISSING_DATA_FILE.Code)
	assert.True(t, found)

	result = svc.ParseExtractedFiles([]model.ExtractedFile{
		jsonFile("one.json", tinderContent),
		jsonFile("two.json", tinderContent),
	}, model.PlatformTinder)
	require.False(t, result.Success)
	_, found = findIssue(result.Errors, errors.INVALID_STRUCTURE.Code)
	assert.True(t, found)
}

func TestParseExtractedFiles_HingeMultiFileMerge(t *testing.T) {
	matchesCSV := "Match ID,Matched At\nm1,2023-07-01 10:00:00\nm2,2023-07-02 11:00:00\n"
	messagesCSV := "Sent Date,Body,Match ID\n2023-07-12 22:21:13,hello,m1\n"

	svc := NewIngestionService()
	result := svc.ParseExtractedFiles([]model.ExtractedFile{
		csvFile("matches.csv", matchesCSV),
		csvFile("messages.csv", messagesCSV),
	}, model.PlatformHinge)
	require.True(t, result.Success)

	assert.Equal(t, 2, result.Metadata.MatchCount)
	assert.Equal(t, 1, result.Metadata.MessageCount)

	// The placeholder user appears once despite both files emitting it.
	userCount := 0
	for _, p := range result.Data.Participants {
		if p.IsUser {
			userCount++
		}
	}
	assert.Equal(t, 1, userCount)

	// The merged snapshot carries entities from both files.
	require.NotNil(t, result.Data.Snapshot)
	assert.Contains(t, result.Data.Snapshot.Entities, "matches")
	assert.Contains(t, result.Data.Snapshot.Entities, "messages")
}

func TestParseExtractedFiles_HingePartialFailure(t *testing.T) {
	matchesCSV := "Match ID,Matched At\nm1,2023-07-01 10:00:00\n"
	badCSV := "Foo,Bar\n1,2\n"

	svc := NewIngestionService()
	result := svc.ParseExtractedFiles([]model.ExtractedFile{
		csvFile("matches.csv", matchesCSV),
		csvFile("messages.csv", badCSV),
	}, model.PlatformHinge)

	// The good file still contributes; the bad header is reported.
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Metadata.MatchCount)
	_, found := findIssue(result.Errors, errors.INVALID_HEADER.Code)
	assert.True(t, found)
}

func TestParseExtractedFiles_HingeAllFail(t *testing.T) {
	svc := NewIngestionService()
	result := svc.ParseExtractedFiles([]model.ExtractedFile{
		csvFile("mystery1.csv", "a,b\n1,2\n"),
		csvFile("matches.csv", "Foo,Bar\n1,2\n"),
	}, model.PlatformHinge)

	require.False(t, result.Success)
	// The union of sub-errors survives the merge, capped by the
	// all-files-failed summary.
	_, found := findIssue(result.Errors, errors.UNKNOWN_FILE_TYPE.Code)
	assert.True(t, found)
	_, found = findIssue(result.Errors, errors.INVALID_HEADER.Code)
	assert.True(t, found)
	issue, found := findIssue(result.Errors, errors.PARSE_FAILURE.Code)
	require.True(t, found)
	assert.True(t, issue.IsCritical())
}

func TestParseExtractedFiles_HingeNoUsableFiles(t *testing.T) {
	svc := NewIngestionService()
	result := svc.ParseExtractedFiles([]model.ExtractedFile{
		{Filename: "readme.txt", Content: "hi", Extension: "txt"},
	}, model.PlatformHinge)

	require.False(t, result.Success)
	_, found := findIssue(result.Errors, errors.MISSING_DATA_FILE.Code)
	assert.True(t, found)
}

func TestParseExtractedFiles_DeduplicatesAcrossFiles(t *testing.T) {
	// The same partner id from two files collapses to one participant.
	matchesA := "Match ID,Matched At\nm1,2023-07-01 10:00:00\n"
	matchesB := "Match ID,Matched At\nm1,2023-07-01 10:00:00\n"

	svc := NewIngestionService()
	result := svc.ParseExtractedFiles([]model.ExtractedFile{
		csvFile("matches_a.csv", matchesA),
		csvFile("matches_b.csv", matchesB),
	}, model.PlatformHinge)
	require.True(t, result.Success)

	ids := map[string]int{}
	for _, p := range result.Data.Participants {
		ids[p.ID]++
	}
	assert.Equal(t, 1, ids["hinge:partner:m1"])
	assert.Equal(t, 1, ids[`hinge:user`])
}

func TestPostProcess_LowMessageWarning(t *testing.T) {
	svc := &IngestionService{lowMessageThreshold: 10, schemaVersion: "test"}
	result := svc.ParseExtractedFiles([]model.ExtractedFile{jsonFile("data.json", tinderContent)}, model.PlatformTinder)
	require.True(t, result.Success)

	issue, found := findIssue(result.Warnings, errors.LOW_MESSAGE_COUNT.Code)
	require.True(t, found)
	assert.Equal(t, errors.SeverityWarning, issue.Severity)
}

func TestPostProcess_ValidationIssuesAttached(t *testing.T) {
	// Dangling sender: message from an id never registered as a person.
	content := `{
		"messages": [
			{"_id": "1", "match_id": "m1", "sent_date": 1689200473000, "message": "hey", "from": "ghost", "to": "self"}
		],
		"matches": [
			{"_id": "m1", "person": {"_id": "p", "name": "Alice"}, "created_date": 1689100000000}
		]
	}`
	svc := NewIngestionService()
	result := svc.ParseExtractedFiles([]model.ExtractedFile{jsonFile("data.json", content)}, model.PlatformTinder)
	require.True(t, result.Success)

	issue, found := findIssue(result.Errors, errors.MISSING_PARTICIPANT.Code)
	require.True(t, found)
	assert.Contains(t, issue.Description, "ghost")
	assert.False(t, issue.IsCritical())
}
