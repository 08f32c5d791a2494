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

// Package hinge parses Hinge platform exports: the legacy CSV pair
// (matches and messages files) and the modern single-document JSON
// export.
package hinge

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/heartscope/dating-data-service/internal/ingestion/model"
	"github.com/heartscope/dating-data-service/internal/parsers"
	schemamodel "github.com/heartscope/dating-data-service/internal/schema/model"
	schemaservice "github.com/heartscope/dating-data-service/internal/schema/service"
	"github.com/heartscope/dating-data-service/internal/system/errors"
	"github.com/heartscope/dating-data-service/internal/timestamp"
)

const platformName = "hinge"

// PlaceholderUserID stands in for the exporting user: Hinge exports
// carry no explicit user identifier at all.
const PlaceholderUserID = "hinge:user"

type Parser struct {
	schemaVersion string
}

func NewParser(schemaVersion string) *Parser {
	return &Parser{schemaVersion: schemaVersion}
}

func (p *Parser) Platform() model.Platform {
	return model.PlatformHinge
}

// Validate is the cheap pre-parse check. CSV structure can only be
// judged against the header, which Parse does anyway, so only emptiness
// is checked here.
func (p *Parser) Validate(content string) parsers.ValidationOutcome {
	if strings.TrimSpace(content) == "" {
		return parsers.ValidationOutcome{Valid: false, Errors: []errors.ParseIssue{
			errors.EMPTY_FILE.AsCritical(""),
		}}
	}
	return parsers.ValidationOutcome{Valid: true}
}

// Parse dispatches on shape: JSON by extension or content sniffing,
// otherwise CSV with the file type decided by filename substring.
func (p *Parser) Parse(content, filename string) (result model.ParseResult) {
	defer func() {
		if r := recover(); r != nil {
			result = model.FailedResult(model.PlatformHinge,
				errors.INVALID_STRUCTURE.AsCritical(fmt.Sprintf("unexpected payload shape: %v", r)).
					WithSource(filename))
		}
	}()

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return model.FailedResult(model.PlatformHinge,
			errors.EMPTY_FILE.AsCritical("").WithSource(filename))
	}

	if looksLikeJSON(trimmed, filename) {
		return p.parseJSON(content, filename)
	}

	lower := strings.ToLower(filename)
	switch {
	case strings.Contains(lower, "match"):
		return p.parseMatchesCSV(content, filename)
	case strings.Contains(lower, "message"):
		return p.parseMessagesCSV(content, filename)
	default:
		return model.FailedResult(model.PlatformHinge,
			errors.UNKNOWN_FILE_TYPE.AsCritical(
				fmt.Sprintf("filename %q matches neither matches nor messages", filename)).
				WithSource(filename))
	}
}

func looksLikeJSON(trimmed, filename string) bool {
	if strings.HasSuffix(strings.ToLower(filename), ".json") {
		return true
	}
	return strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{")
}

type parseState struct {
	filename     string
	observedAt   string
	participants []model.Participant
	matches      []model.Match
	messages     []model.NormalizedMessage
	rawRecords   []model.RawRecord
	warnings     []errors.ParseIssue

	seenParticipants map[string]bool
}

func newParseState(filename string) *parseState {
	return &parseState{
		filename:         filename,
		observedAt:       time.Now().UTC().Format(time.RFC3339),
		seenParticipants: map[string]bool{},
	}
}

func (st *parseState) warn(issue errors.ParseIssue) {
	st.warnings = append(st.warnings, issue.WithSource(st.filename))
}

func (st *parseState) addParticipant(p model.Participant) {
	if st.seenParticipants[p.ID] {
		return
	}
	st.seenParticipants[p.ID] = true
	st.participants = append(st.participants, p)
}

// addUser registers the synthesized user participant.
func (st *parseState) addUser() {
	st.addParticipant(model.Participant{
		ID:       PlaceholderUserID,
		Platform: model.PlatformHinge,
		IsUser:   true,
	})
}

func (st *parseState) addRawRecord(entity model.EntityKind, data map[string]interface{}) string {
	record := model.RawRecord{
		RecordID:   uuid.NewString(),
		Platform:   model.PlatformHinge,
		Entity:     entity,
		Source:     st.filename,
		ObservedAt: st.observedAt,
		Data:       data,
	}
	st.rawRecords = append(st.rawRecords, record)
	return record.RecordID
}

func (st *parseState) result(snapshot schemamodel.SchemaSnapshot) model.ParseResult {
	data := &model.DatasetData{
		Participants: st.participants,
		Matches:      st.matches,
		Messages:     st.messages,
		RawRecords:   st.rawRecords,
		Snapshot:     &snapshot,
	}
	return model.ParseResult{
		Success:  true,
		Data:     data,
		Warnings: st.warnings,
		Metadata: parsers.BuildMetadata(model.PlatformHinge, data, []string{st.filename}),
	}
}

// parseMatchesCSV projects a matches CSV into Match entities. The
// header must carry columns resembling an id and a matched-date; that
// failing is a critical INVALID_HEADER before any row is touched.
func (p *Parser) parseMatchesCSV(content, filename string) model.ParseResult {
	rows := splitRows(content)
	if len(rows) == 0 {
		return model.FailedResult(model.PlatformHinge,
			errors.EMPTY_FILE.AsCritical("file contains no CSV rows").WithSource(filename))
	}

	header := rows[0]
	idCol := findColumn(header, func(h string) bool {
		return strings.Contains(h, "id")
	})
	dateCol := findColumn(header, func(h string) bool {
		return strings.Contains(h, "match") && (strings.Contains(h, "date") || strings.HasSuffix(h, "_at"))
	})
	if dateCol < 0 {
		dateCol = findColumn(header, func(h string) bool {
			return strings.Contains(h, "date")
		})
	}
	if idCol < 0 || dateCol < 0 {
		return model.FailedResult(model.PlatformHinge,
			errors.INVALID_HEADER.AsCritical(
				"matches file header needs an id-like and a matched-date-like column").
				WithSource(filename))
	}
	unmatchCol := findColumn(header, func(h string) bool {
		return strings.Contains(h, "unmatch")
	})

	st := newParseState(filename)
	st.addUser()

	var projected []interface{}
	for i, row := range rows[1:] {
		if len(row) > len(header) {
			st.warn(errors.MALFORMED_ROW.AsWarning(
				fmt.Sprintf("row %d has more cells than the header", i+2)))
			continue
		}
		id := cellAt(row, idCol)
		if id == "" {
			st.warn(errors.MALFORMED_ROW.AsWarning(
				fmt.Sprintf("row %d has no match id", i+2)))
			continue
		}

		rowObj := projectRow(header, row)
		projected = append(projected, rowObj)
		rawID := st.addRawRecord(model.EntityMatch, rowObj)

		createdAt := timestamp.Normalize(cellAt(row, dateCol))
		if createdAt == "" {
			createdAt = cellAt(row, dateCol)
		}

		status := model.StatusActive
		if unmatchCol >= 0 && cellAt(row, unmatchCol) != "" && cellAt(row, unmatchCol) != "false" {
			status = model.StatusUnmatched
		}

		partnerID := "hinge:partner:" + id
		st.addParticipant(model.Participant{
			ID:       partnerID,
			Platform: model.PlatformHinge,
		})

		st.matches = append(st.matches, model.Match{
			ID:           id,
			Platform:     model.PlatformHinge,
			CreatedAt:    createdAt,
			Status:       status,
			Participants: [2]string{PlaceholderUserID, partnerID},
			Attributes:   rowAttributes(header, row, idCol, dateCol, unmatchCol),
			RawID:        rawID,
		})
	}

	snapshot := schemaservice.CaptureSnapshot(
		map[string]interface{}{schemamodel.EntityMatches: projected}, platformName, p.schemaVersion)
	return st.result(snapshot)
}

// parseMessagesCSV projects a messages CSV into NormalizedMessage
// entities. The header must carry either a timestamp-like or a
// message-text-like column.
func (p *Parser) parseMessagesCSV(content, filename string) model.ParseResult {
	rows := splitRows(content)
	if len(rows) == 0 {
		return model.FailedResult(model.PlatformHinge,
			errors.EMPTY_FILE.AsCritical("file contains no CSV rows").WithSource(filename))
	}

	header := rows[0]
	tsCol := findColumn(header, func(h string) bool {
		return strings.Contains(h, "date") || strings.Contains(h, "time")
	})
	textCol := findColumn(header, func(h string) bool {
		return strings.Contains(h, "message") || strings.Contains(h, "body") || strings.Contains(h, "text")
	})
	if tsCol < 0 && textCol < 0 {
		return model.FailedResult(model.PlatformHinge,
			errors.INVALID_HEADER.AsCritical(
				"messages file header needs a timestamp-like or message-text-like column").
				WithSource(filename))
	}
	idCol := findColumn(header, func(h string) bool {
		return h == "id" || h == "message_id"
	})
	matchCol := findColumn(header, func(h string) bool {
		return strings.Contains(h, "match")
	})

	st := newParseState(filename)
	st.addUser()

	var projected []interface{}
	for i, row := range rows[1:] {
		if len(row) > len(header) {
			st.warn(errors.MALFORMED_ROW.AsWarning(
				fmt.Sprintf("row %d has more cells than the header", i+2)))
			continue
		}

		rowObj := projectRow(header, row)
		projected = append(projected, rowObj)
		rawID := st.addRawRecord(model.EntityMessage, rowObj)

		id := cellAt(row, idCol)
		if id == "" {
			id = fmt.Sprintf("hinge:%s:msg:%d", filename, i+1)
		}

		sentAt := timestamp.Normalize(cellAt(row, tsCol))
		if sentAt == "" {
			sentAt = cellAt(row, tsCol)
		}

		// The export never labels the counterpart as sender, so every
		// message is attributed to the user.
		st.messages = append(st.messages, model.NormalizedMessage{
			ID:         id,
			MatchID:    cellAt(row, matchCol),
			SenderID:   PlaceholderUserID,
			SentAt:     sentAt,
			Body:       cellAt(row, textCol),
			Direction:  model.DirectionUser,
			Attributes: rowAttributes(header, row, idCol, tsCol, textCol, matchCol),
			RawID:      rawID,
		})
	}

	snapshot := schemaservice.CaptureSnapshot(
		map[string]interface{}{schemamodel.EntityMessages: projected}, platformName, p.schemaVersion)
	return st.result(snapshot)
}

// projectRow pairs header cells with row cells; missing trailing cells
// project to empty strings.
func projectRow(header, row []string) map[string]interface{} {
	obj := make(map[string]interface{}, len(header))
	for i, name := range header {
		obj[strings.TrimSpace(name)] = cellAt(row, i)
	}
	return obj
}

// rowAttributes routes every column outside the interpreted set into
// attributes, in header order.
func rowAttributes(header, row []string, interpreted ...int) *model.Attributes {
	interpretedSet := map[int]bool{}
	for _, idx := range interpreted {
		if idx >= 0 {
			interpretedSet[idx] = true
		}
	}

	attrs := model.NewAttributes()
	for i, name := range header {
		if interpretedSet[i] {
			continue
		}
		attrs.Set(strings.TrimSpace(name), cellAt(row, i))
	}
	if attrs.Len() == 0 {
		return nil
	}
	return attrs
}
