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

// Package tinder parses the single-document JSON export of the Tinder
// platform into the unified entity set.
package tinder

import (
	"encoding/json"
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
	pkgerrors "github.com/pkg/errors"
)

// sentinelSelf marks the exporting user in message to/from fields.
const sentinelSelf = "self"

const platformName = "tinder"

// Match origin values in precedence order: super-like beats boost beats
// the default like.
const (
	originSuperLike = "super-like"
	originBoost     = "boost"
	originLike      = "like"
)

type Parser struct {
	schemaVersion string
}

func NewParser(schemaVersion string) *Parser {
	return &Parser{schemaVersion: schemaVersion}
}

func (p *Parser) Platform() model.Platform {
	return model.PlatformTinder
}

// Validate is the cheap pre-parse check: non-empty content that is
// syntactically valid JSON.
func (p *Parser) Validate(content string) parsers.ValidationOutcome {
	if strings.TrimSpace(content) == "" {
		return parsers.ValidationOutcome{Valid: false, Errors: []errors.ParseIssue{
			errors.EMPTY_FILE.AsCritical(""),
		}}
	}
	if !json.Valid([]byte(content)) {
		return parsers.ValidationOutcome{Valid: false, Errors: []errors.ParseIssue{
			errors.INVALID_JSON.AsCritical(""),
		}}
	}
	return parsers.ValidationOutcome{Valid: true}
}

// Parse transforms one export document. It never panics; every failure
// path is a ParseResult with Success=false.
func (p *Parser) Parse(content, filename string) (result model.ParseResult) {
	defer func() {
		if r := recover(); r != nil {
			result = model.FailedResult(model.PlatformTinder,
				errors.INVALID_STRUCTURE.AsCritical(fmt.Sprintf("unexpected payload shape: %v", r)).
					WithSource(filename))
		}
	}()

	if strings.TrimSpace(content) == "" {
		return model.FailedResult(model.PlatformTinder,
			errors.EMPTY_FILE.AsCritical("").WithSource(filename))
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return model.FailedResult(model.PlatformTinder, decodeIssue(err).WithSource(filename))
	}

	gateIssues := schemaservice.ValidateRawSchema(raw, platformName)
	var warnings []errors.ParseIssue
	var criticals []errors.ParseIssue
	for _, issue := range gateIssues {
		if issue.IsCritical() {
			criticals = append(criticals, issue.WithSource(filename))
		} else {
			warnings = append(warnings, issue.WithSource(filename))
		}
	}
	if len(criticals) > 0 {
		failed := model.FailedResult(model.PlatformTinder, criticals...)
		failed.Warnings = warnings
		return failed
	}

	snapshot := schemaservice.CaptureSnapshot(raw, platformName, p.schemaVersion)

	st := newParseState(filename)
	st.warnings = warnings
	st.parseUser(raw)
	st.parseMessages(raw)
	st.parseMatches(raw)

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
		Errors:   st.errors,
		Warnings: st.warnings,
		Metadata: parsers.BuildMetadata(model.PlatformTinder, data, []string{filename}),
	}
}

// decodeIssue classifies a JSON unmarshalling failure.
func decodeIssue(err error) errors.ParseIssue {
	var syntaxErr *json.SyntaxError
	if pkgerrors.As(err, &syntaxErr) {
		return errors.INVALID_JSON.AsCritical(
			fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset))
	}
	var typeErr *json.UnmarshalTypeError
	if pkgerrors.As(err, &typeErr) {
		return errors.INVALID_STRUCTURE.AsCritical(
			"export payload is not a JSON object")
	}
	return errors.INVALID_JSON.AsCritical(err.Error())
}

// messageGroup accumulates per-match facts needed to synthesize a match
// when the export carries no explicit match list.
type messageGroup struct {
	counterpart string
	earliest    string
}

type parseState struct {
	filename     string
	observedAt   string
	userID       string
	participants []model.Participant
	matches      []model.Match
	messages     []model.NormalizedMessage
	rawRecords   []model.RawRecord
	warnings     []errors.ParseIssue
	errors       []errors.ParseIssue

	seenParticipants map[string]bool
	groups           map[string]*messageGroup
	groupOrder       []string
}

func newParseState(filename string) *parseState {
	return &parseState{
		filename:         filename,
		observedAt:       time.Now().UTC().Format(time.RFC3339),
		seenParticipants: map[string]bool{},
		groups:           map[string]*messageGroup{},
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

// addRawRecord appends an audit record and returns its id.
func (st *parseState) addRawRecord(entity model.EntityKind, data map[string]interface{}) string {
	record := model.RawRecord{
		RecordID:   uuid.NewString(),
		Platform:   model.PlatformTinder,
		Entity:     entity,
		Source:     st.filename,
		ObservedAt: st.observedAt,
		Data:       data,
	}
	st.rawRecords = append(st.rawRecords, record)
	return record.RecordID
}

func (st *parseState) parseMessages(raw map[string]interface{}) {
	value, ok := schemaservice.FindCollection(raw, schemamodel.EntityMessages)
	if !ok {
		return
	}
	list, ok := value.([]interface{})
	if !ok {
		return
	}

	for i, element := range list {
		obj, ok := element.(map[string]interface{})
		if !ok {
			st.warn(errors.MALFORMED_ROW.AsWarning(
				fmt.Sprintf("message entry %d is not an object", i)))
			continue
		}

		// Nested shape: one entry per match carrying its own message
		// array, which must be flattened.
		if nested, isNested := obj["messages"].([]interface{}); isNested {
			matchID := parsers.GetString(obj, "match_id", "_id", "id")
			for j, sub := range nested {
				subObj, ok := sub.(map[string]interface{})
				if !ok {
					st.warn(errors.MALFORMED_ROW.AsWarning(
						fmt.Sprintf("message entry %d/%d is not an object", i, j)))
					continue
				}
				st.parseMessage(subObj, matchID)
			}
			continue
		}

		st.parseMessage(obj, parsers.GetString(obj, "match_id"))
	}
}

func (st *parseState) parseMessage(obj map[string]interface{}, matchID string) {
	rawID := st.addRawRecord(model.EntityMessage, obj)

	id := parsers.GetString(obj, "_id", "id")
	if matchID == "" {
		matchID = parsers.GetString(obj, "match_id")
	}

	sentAt := timestamp.Normalize(obj["sent_date"])
	if sentAt == "" {
		// Keep the original value so the post-parse validator can flag
		// it instead of silently dropping it.
		sentAt = parsers.StringOf(obj["sent_date"])
	}

	from := parsers.GetString(obj, "from")
	to := parsers.GetString(obj, "to")

	senderID := from
	direction := model.DirectionMatch
	if from == sentinelSelf || from == st.userID {
		senderID = st.userID
		direction = model.DirectionUser
	}

	msg := model.NormalizedMessage{
		ID:         id,
		MatchID:    matchID,
		SenderID:   senderID,
		SentAt:     sentAt,
		Body:       parsers.GetString(obj, "message", "body"),
		Direction:  direction,
		Reactions:  st.parseReactions(obj["reactions"]),
		Attributes: parsers.RouteUnknown(obj, schemamodel.KnownFields(platformName, schemamodel.EntityMessages)),
		RawID:      rawID,
	}
	st.messages = append(st.messages, msg)

	st.trackGroup(matchID, msg, from, to)
}

// trackGroup records the counterpart id and the earliest message
// timestamp per match, used when matches must be synthesized.
func (st *parseState) trackGroup(matchID string, msg model.NormalizedMessage, from, to string) {
	if matchID == "" {
		return
	}
	group, ok := st.groups[matchID]
	if !ok {
		group = &messageGroup{}
		st.groups[matchID] = group
		st.groupOrder = append(st.groupOrder, matchID)
	}
	if group.counterpart == "" {
		if from != sentinelSelf && from != st.userID && from != "" {
			group.counterpart = from
		} else if to != sentinelSelf && to != st.userID && to != "" {
			group.counterpart = to
		}
	}
	if _, ok := timestamp.Parse(msg.SentAt); ok {
		if group.earliest == "" || msg.SentAt < group.earliest {
			group.earliest = msg.SentAt
		}
	}
}

func (st *parseState) parseReactions(value interface{}) []model.Reaction {
	list, ok := value.([]interface{})
	if !ok {
		return nil
	}
	var reactions []model.Reaction
	for _, element := range list {
		obj, ok := element.(map[string]interface{})
		if !ok {
			continue
		}
		actor := parsers.GetString(obj, "actor", "from")
		if actor == sentinelSelf {
			actor = st.userID
		}
		reactions = append(reactions, model.Reaction{
			Emoji:   parsers.GetString(obj, "emoji", "reaction"),
			ActorID: actor,
			SentAt:  timestamp.Normalize(obj["sent_date"]),
		})
	}
	return reactions
}

func (st *parseState) parseMatches(raw map[string]interface{}) {
	value, ok := schemaservice.FindCollection(raw, schemamodel.EntityMatches)
	list, isList := value.([]interface{})
	if !ok || !isList || len(list) == 0 {
		st.synthesizeMatches()
		return
	}

	for i, element := range list {
		obj, ok := element.(map[string]interface{})
		if !ok {
			st.warn(errors.MALFORMED_ROW.AsWarning(
				fmt.Sprintf("match entry %d is not an object", i)))
			continue
		}
		st.parseMatch(obj, i)
	}
}

func (st *parseState) parseMatch(obj map[string]interface{}, index int) {
	rawID := st.addRawRecord(model.EntityMatch, obj)

	id := parsers.GetString(obj, "_id", "id")
	person, ok := obj["person"].(map[string]interface{})
	if !ok {
		st.warn(errors.MALFORMED_ROW.AsWarning(
			fmt.Sprintf("match entry %d has no person object", index)).WithRecordID(id))
		return
	}

	counterpart := st.parsePerson(person)
	st.addParticipant(counterpart)

	createdAt := timestamp.Normalize(obj["created_date"])
	if createdAt == "" {
		createdAt = parsers.StringOf(obj["created_date"])
	}

	status := model.StatusActive
	closedAt := ""
	if parsers.Truthy(obj["closed"]) {
		status = model.StatusClosed
		closedAt = timestamp.Normalize(obj["closed_date"])
	}

	origin := originLike
	if parsers.Truthy(obj["is_super_like"]) {
		origin = originSuperLike
	} else if parsers.Truthy(obj["is_boost_match"]) {
		origin = originBoost
	}

	st.matches = append(st.matches, model.Match{
		ID:           id,
		Platform:     model.PlatformTinder,
		CreatedAt:    createdAt,
		ClosedAt:     closedAt,
		Origin:       origin,
		Status:       status,
		Participants: [2]string{st.userID, counterpart.ID},
		Attributes:   parsers.RouteUnknown(obj, schemamodel.KnownFields(platformName, schemamodel.EntityMatches)),
		RawID:        rawID,
	})
}

// synthesizeMatches builds matches from message groups when the export
// carries no explicit match list. The counterpart is whichever side of
// the conversation is not the user, and createdAt is the earliest
// message timestamp in the group.
func (st *parseState) synthesizeMatches() {
	for _, matchID := range st.groupOrder {
		group := st.groups[matchID]

		counterpart := group.counterpart
		if counterpart == "" {
			counterpart = "match:" + matchID
		}
		st.addParticipant(model.Participant{
			ID:       counterpart,
			Platform: model.PlatformTinder,
		})

		st.matches = append(st.matches, model.Match{
			ID:           matchID,
			Platform:     model.PlatformTinder,
			CreatedAt:    group.earliest,
			Status:       model.StatusActive,
			Participants: [2]string{st.userID, counterpart},
		})
	}
}

