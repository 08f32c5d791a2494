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
	"fmt"
	"strings"

	ingestmodel "github.com/heartscope/dating-data-service/internal/ingestion/model"
	"github.com/heartscope/dating-data-service/internal/system/errors"
	"github.com/heartscope/dating-data-service/internal/timestamp"
)

// ValidateRawSchema is the cheap pre-parse structural gate. It rejects
// obviously malformed exports before any per-record work: a non-object
// payload, a payload with neither messages nor matches, a collection
// that is not an array, or a sampled record set missing a required
// field. Unknown fields are reported as warnings only; parsers route
// them into per-record attributes so nothing is dropped.
func ValidateRawSchema(raw map[string]interface{}, platform string) []errors.ParseIssue {
	if raw == nil {
		return []errors.ParseIssue{
			errors.INVALID_STRUCTURE.AsCritical("export payload is not a JSON object"),
		}
	}

	var issues []errors.ParseIssue
	present := 0
	for _, entity := range snapshotEntities {
		value, ok := FindCollection(raw, entity)
		if !ok {
			continue
		}
		present++
		if _, isArray := value.([]interface{}); !isArray {
			issues = append(issues, errors.INVALID_STRUCTURE.AsCritical(
				fmt.Sprintf("collection %q is present but is not an array", entity)))
		}
	}
	if present == 0 {
		issues = append(issues, errors.INVALID_STRUCTURE.AsCritical(
			"export payload contains neither a messages nor a matches collection"))
	}
	if len(issues) > 0 {
		return issues
	}

	snapshot := CaptureSnapshot(raw, platform, "")
	for entity, schema := range snapshot.Entities {
		if schema.SampleCount == 0 {
			continue
		}
		for _, field := range schema.MissingFields {
			issues = append(issues, errors.MISSING_REQUIRED_FIELD.AsCritical(
				fmt.Sprintf("entity %q is missing required field %q", entity, field)).WithField(field))
		}
	}
	for entity, unknown := range snapshot.UnknownFields {
		issues = append(issues, errors.UNKNOWN_FIELDS.AsWarning(
			fmt.Sprintf("entity %q has unknown fields: %s", entity, strings.Join(unknown, ", "))))
	}
	return issues
}

// ValidateParseResult is the independent post-parse structural pass. It
// catches softer data-quality problems once entities exist: empty
// collections, duplicate ids, unparseable timestamps, dangling
// participant references and empty message bodies.
func ValidateParseResult(result *ingestmodel.ParseResult) []errors.ParseIssue {
	if result == nil || result.Data == nil {
		return nil
	}
	data := result.Data

	var issues []errors.ParseIssue
	if len(data.Messages) == 0 {
		issues = append(issues, errors.NO_MESSAGES.AsWarning(""))
	}
	if len(data.Matches) == 0 {
		issues = append(issues, errors.NO_MATCHES.AsWarning(""))
	}

	participants := map[string]bool{}
	for _, p := range data.Participants {
		participants[p.ID] = true
	}

	messageIDs := map[string]bool{}
	for _, msg := range data.Messages {
		if messageIDs[msg.ID] {
			issues = append(issues, errors.DUPLICATE_ID.AsError(
				fmt.Sprintf("duplicate message id %q", msg.ID)).WithRecordID(msg.ID))
		}
		messageIDs[msg.ID] = true

		if _, ok := timestamp.Parse(msg.SentAt); !ok {
			issues = append(issues, errors.INVALID_TIMESTAMP.AsError(
				fmt.Sprintf("message %q has unparseable sent timestamp %q", msg.ID, msg.SentAt)).
				WithRecordID(msg.ID).WithField("sent_at"))
		}
		for _, reaction := range msg.Reactions {
			if reaction.SentAt == "" {
				continue
			}
			if _, ok := timestamp.Parse(reaction.SentAt); !ok {
				issues = append(issues, errors.INVALID_TIMESTAMP.AsError(
					fmt.Sprintf("reaction on message %q has unparseable timestamp %q", msg.ID, reaction.SentAt)).
					WithRecordID(msg.ID).WithField("reactions"))
			}
		}
		if !participants[msg.SenderID] {
			issues = append(issues, errors.MISSING_PARTICIPANT.AsError(
				fmt.Sprintf("message %q references unknown sender %q", msg.ID, msg.SenderID)).
				WithRecordID(msg.ID).WithField("sender_id"))
		}
		if msg.Body == "" {
			issues = append(issues, errors.EMPTY_MESSAGE_BODY.AsWarning(
				fmt.Sprintf("message %q has an empty body", msg.ID)).WithRecordID(msg.ID))
		}
	}

	matchIDs := map[string]bool{}
	for _, match := range data.Matches {
		if matchIDs[match.ID] {
			issues = append(issues, errors.DUPLICATE_ID.AsError(
				fmt.Sprintf("duplicate match id %q", match.ID)).WithRecordID(match.ID))
		}
		matchIDs[match.ID] = true

		if _, ok := timestamp.Parse(match.CreatedAt); !ok {
			issues = append(issues, errors.INVALID_TIMESTAMP.AsError(
				fmt.Sprintf("match %q has unparseable created timestamp %q", match.ID, match.CreatedAt)).
				WithRecordID(match.ID).WithField("created_at"))
		}
		if match.ClosedAt != "" {
			if _, ok := timestamp.Parse(match.ClosedAt); !ok {
				issues = append(issues, errors.INVALID_TIMESTAMP.AsError(
					fmt.Sprintf("match %q has unparseable closed timestamp %q", match.ID, match.ClosedAt)).
					WithRecordID(match.ID).WithField("closed_at"))
			}
		}
		for _, pid := range match.Participants {
			if !participants[pid] {
				issues = append(issues, errors.MISSING_PARTICIPANT.AsError(
					fmt.Sprintf("match %q references unknown participant %q", match.ID, pid)).
					WithRecordID(match.ID).WithField("participants"))
			}
		}
	}

	return issues
}
