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
	"time"

	"github.com/heartscope/dating-data-service/internal/ingestion/model"
	"github.com/heartscope/dating-data-service/internal/timestamp"
)

// BuildMetadata aggregates entity counts and the (min, max) range of
// valid message timestamps for one parse invocation.
func BuildMetadata(platform model.Platform, data *model.DatasetData, sourceFiles []string) model.ParseMetadata {
	meta := model.ParseMetadata{
		Platform:    platform,
		ParsedAt:    time.Now().UTC().Format(time.RFC3339),
		SourceFiles: sourceFiles,
	}
	if data == nil {
		return meta
	}
	meta.ParticipantCount = len(data.Participants)
	meta.MatchCount = len(data.Matches)
	meta.MessageCount = len(data.Messages)
	meta.DateRange = DateRangeOf(data.Messages)
	return meta
}

// DateRangeOf computes the (earliest, latest) pair over messages whose
// sent timestamp parses. Canonical ISO strings order lexicographically.
func DateRangeOf(messages []model.NormalizedMessage) *model.DateRange {
	var dr *model.DateRange
	for _, msg := range messages {
		if _, ok := timestamp.Parse(msg.SentAt); !ok {
			continue
		}
		if dr == nil {
			dr = &model.DateRange{Earliest: msg.SentAt, Latest: msg.SentAt}
			continue
		}
		if msg.SentAt < dr.Earliest {
			dr.Earliest = msg.SentAt
		}
		if msg.SentAt > dr.Latest {
			dr.Latest = msg.SentAt
		}
	}
	return dr
}
