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
	"time"

	"github.com/heartscope/dating-data-service/internal/ingestion/model"
	"github.com/heartscope/dating-data-service/internal/parsers"
	schemamodel "github.com/heartscope/dating-data-service/internal/schema/model"
	"github.com/heartscope/dating-data-service/internal/system/errors"
)

// mergeResults folds per-file parse results into one. Matches, messages
// and raw records concatenate; participants deduplicate by (platform,
// id) presence, keeping the first occurrence — the full identity
// heuristic runs later in the shared post-process pass. If every
// sub-parse failed the merge fails with the union of sub-errors;
// partial success yields a result built from the succeeding subset
// only.
func mergeResults(platform model.Platform, results []model.ParseResult) model.ParseResult {
	merged := model.ParseResult{
		Success: false,
		Metadata: model.ParseMetadata{
			Platform: platform,
			ParsedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}

	anySuccess := false
	for _, r := range results {
		if r.Success {
			anySuccess = true
		}
		merged.Errors = append(merged.Errors, r.Errors...)
		merged.Warnings = append(merged.Warnings, r.Warnings...)
	}
	if !anySuccess {
		if len(results) > 0 {
			merged.Errors = append(merged.Errors, errors.PARSE_FAILURE.AsCritical(""))
		}
		return merged
	}

	data := &model.DatasetData{}
	seenParticipants := map[string]bool{}
	var snapshot *schemamodel.SchemaSnapshot
	var sourceFiles []string

	for _, r := range results {
		if !r.Success || r.Data == nil {
			continue
		}
		sourceFiles = append(sourceFiles, r.Metadata.SourceFiles...)
		data.Matches = append(data.Matches, r.Data.Matches...)
		data.Messages = append(data.Messages, r.Data.Messages...)
		data.RawRecords = append(data.RawRecords, r.Data.RawRecords...)

		for _, p := range r.Data.Participants {
			key := string(p.Platform) + ":" + p.ID
			if seenParticipants[key] {
				continue
			}
			seenParticipants[key] = true
			data.Participants = append(data.Participants, p)
		}

		if r.Data.Snapshot == nil {
			continue
		}
		if snapshot == nil {
			snapshot = cloneSnapshot(r.Data.Snapshot)
			continue
		}
		// Later files contribute entities the first snapshot lacked
		// (the matches file vs the messages file).
		for entity, schema := range r.Data.Snapshot.Entities {
			if _, present := snapshot.Entities[entity]; !present {
				snapshot.Entities[entity] = schema
			}
		}
		for entity, unknown := range r.Data.Snapshot.UnknownFields {
			if _, present := snapshot.UnknownFields[entity]; !present {
				snapshot.UnknownFields[entity] = unknown
			}
		}
	}
	data.Snapshot = snapshot

	merged.Success = true
	merged.Data = data
	merged.Metadata.SourceFiles = sourceFiles
	merged.Metadata.ParticipantCount = len(data.Participants)
	merged.Metadata.MatchCount = len(data.Matches)
	merged.Metadata.MessageCount = len(data.Messages)
	merged.Metadata.DateRange = parsers.DateRangeOf(data.Messages)
	return merged
}

// cloneSnapshot copies the snapshot's maps so the gap-filling above
// never mutates a sub-result's snapshot in place.
func cloneSnapshot(s *schemamodel.SchemaSnapshot) *schemamodel.SchemaSnapshot {
	copied := *s
	copied.Entities = make(map[string]schemamodel.EntitySchema, len(s.Entities))
	for entity, schema := range s.Entities {
		copied.Entities[entity] = schema
	}
	copied.UnknownFields = make(map[string][]string, len(s.UnknownFields))
	for entity, unknown := range s.UnknownFields {
		copied.UnknownFields[entity] = append([]string(nil), unknown...)
	}
	return &copied
}
