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
	schemamodel "github.com/heartscope/dating-data-service/internal/schema/model"
	"github.com/heartscope/dating-data-service/internal/system/errors"
)

// DatasetData is the consolidated entity set produced by one parse
// invocation. The batch is handed atomically to persistence.
type DatasetData struct {
	Participants []Participant               `json:"participants"`
	Matches      []Match                     `json:"matches"`
	Messages     []NormalizedMessage         `json:"messages"`
	RawRecords   []RawRecord                 `json:"raw_records"`
	Snapshot     *schemamodel.SchemaSnapshot `json:"schema_snapshot,omitempty"`
}

// DateRange is the (min, max) of valid message timestamps in a dataset.
type DateRange struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

// ParseMetadata aggregates counts and provenance for a parse invocation.
type ParseMetadata struct {
	Platform         Platform   `json:"platform"`
	ParsedAt         string     `json:"parsed_at"`
	SourceFiles      []string   `json:"source_files,omitempty"`
	ParticipantCount int        `json:"participant_count"`
	MatchCount       int        `json:"match_count"`
	MessageCount     int        `json:"message_count"`
	DateRange        *DateRange `json:"date_range,omitempty"`
}

// ParseResult is the single output of every parser entry point. Critical
// failures carry Success=false and no Data; non-fatal errors coexist
// with Data so the caller decides whether to block the import.
type ParseResult struct {
	Success  bool                `json:"success"`
	Data     *DatasetData        `json:"data,omitempty"`
	Errors   []errors.ParseIssue `json:"errors,omitempty"`
	Warnings []errors.ParseIssue `json:"warnings,omitempty"`
	Metadata ParseMetadata       `json:"metadata"`
}

// FailedResult builds a ParseResult for a critical failure.
func FailedResult(platform Platform, issues ...errors.ParseIssue) ParseResult {
	return ParseResult{
		Success: false,
		Errors:  issues,
		Metadata: ParseMetadata{
			Platform: platform,
		},
	}
}

// AddIssue routes an issue to the errors or warnings list by severity.
func (r *ParseResult) AddIssue(issue errors.ParseIssue) {
	if issue.Severity == errors.SeverityWarning {
		r.Warnings = append(r.Warnings, issue)
		return
	}
	r.Errors = append(r.Errors, issue)
}

// AddIssues routes a batch of issues by severity.
func (r *ParseResult) AddIssues(issues []errors.ParseIssue) {
	for _, issue := range issues {
		r.AddIssue(issue)
	}
}

// HasCritical reports whether any recorded error is critical.
func (r *ParseResult) HasCritical() bool {
	for _, issue := range r.Errors {
		if issue.IsCritical() {
			return true
		}
	}
	return false
}
