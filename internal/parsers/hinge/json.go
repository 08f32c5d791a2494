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
	"encoding/json"
	"fmt"

	"github.com/heartscope/dating-data-service/internal/ingestion/model"
	"github.com/heartscope/dating-data-service/internal/parsers"
	schemamodel "github.com/heartscope/dating-data-service/internal/schema/model"
	schemaservice "github.com/heartscope/dating-data-service/internal/schema/service"
	"github.com/heartscope/dating-data-service/internal/system/errors"
	"github.com/heartscope/dating-data-service/internal/timestamp"
)

// parseJSON handles the modern export: one record per match with an
// embedded chat array. The export has no ids anywhere, so match,
// partner and message ids are synthesized deterministically from record
// position.
func (p *Parser) parseJSON(content, filename string) model.ParseResult {
	var top interface{}
	if err := json.Unmarshal([]byte(content), &top); err != nil {
		return model.FailedResult(model.PlatformHinge,
			errors.INVALID_JSON.AsCritical(err.Error()).WithSource(filename))
	}

	var records []interface{}
	switch t := top.(type) {
	case []interface{}:
		records = t
	case map[string]interface{}:
		value, ok := schemaservice.FindCollection(t, schemamodel.EntityMatches)
		list, isList := value.([]interface{})
		if !ok || !isList {
			return model.FailedResult(model.PlatformHinge,
				errors.INVALID_STRUCTURE.AsCritical(
					"JSON export carries neither a top-level array nor a matches collection").
					WithSource(filename))
		}
		records = list
	default:
		return model.FailedResult(model.PlatformHinge,
			errors.INVALID_STRUCTURE.AsCritical("JSON export is not an array or object").
				WithSource(filename))
	}

	st := newParseState(filename)
	st.addUser()

	for i, element := range records {
		obj, ok := element.(map[string]interface{})
		if !ok {
			st.warn(errors.MALFORMED_ROW.AsWarning(
				fmt.Sprintf("match record %d is not an object", i)))
			continue
		}
		st.parseJSONRecord(obj, i)
	}

	snapshot := schemaservice.CaptureSnapshot(
		map[string]interface{}{schemamodel.EntityMatches: records}, platformName, p.schemaVersion)
	return st.result(snapshot)
}

func (st *parseState) parseJSONRecord(obj map[string]interface{}, index int) {
	matchID := fmt.Sprintf("hinge:match:%d", index+1)
	partnerID := fmt.Sprintf("hinge:partner:%d", index+1)
	rawID := st.addRawRecord(model.EntityMatch, obj)

	chats, _ := obj["chats"].([]interface{})

	createdAt := matchTimestamp(obj)
	if createdAt == "" {
		createdAt = earliestChat(chats)
	}

	origin := ""
	if likes, ok := obj["like"].([]interface{}); ok && len(likes) > 0 {
		origin = "like"
	}

	status := model.StatusActive
	if blocks, ok := obj["block"].([]interface{}); ok && len(blocks) > 0 {
		status = model.StatusUnmatched
	}

	st.addParticipant(model.Participant{
		ID:       partnerID,
		Platform: model.PlatformHinge,
	})

	st.matches = append(st.matches, model.Match{
		ID:           matchID,
		Platform:     model.PlatformHinge,
		CreatedAt:    createdAt,
		Origin:       origin,
		Status:       status,
		Participants: [2]string{PlaceholderUserID, partnerID},
		Attributes:   parsers.RouteUnknown(obj, schemamodel.KnownFields(platformName, schemamodel.EntityMatches)),
		RawID:        rawID,
	})

	for j, element := range chats {
		chat, ok := element.(map[string]interface{})
		if !ok {
			st.warn(errors.MALFORMED_ROW.AsWarning(
				fmt.Sprintf("chat entry %d/%d is not an object", index, j)))
			continue
		}
		chatRawID := st.addRawRecord(model.EntityMessage, chat)

		sentAt := timestamp.Normalize(chat["timestamp"])
		if sentAt == "" {
			sentAt = parsers.StringOf(chat["timestamp"])
		}

		// The export shape never labels the counterpart as sender;
		// every chat line is attributed to the user.
		st.messages = append(st.messages, model.NormalizedMessage{
			ID:         fmt.Sprintf("hinge:msg:%d:%d", index+1, j+1),
			MatchID:    matchID,
			SenderID:   PlaceholderUserID,
			SentAt:     sentAt,
			Body:       parsers.GetString(chat, "body", "message"),
			Direction:  model.DirectionUser,
			Attributes: parsers.RouteUnknown(chat, schemamodel.KnownFields(platformName, schemamodel.EntityMessages)),
			RawID:      chatRawID,
		})
	}
}

// matchTimestamp pulls the timestamp off the first entry of the match
// event array when present.
func matchTimestamp(obj map[string]interface{}) string {
	events, ok := obj["match"].([]interface{})
	if !ok || len(events) == 0 {
		return ""
	}
	event, ok := events[0].(map[string]interface{})
	if !ok {
		return ""
	}
	return timestamp.Normalize(event["timestamp"])
}

func earliestChat(chats []interface{}) string {
	earliest := ""
	for _, element := range chats {
		chat, ok := element.(map[string]interface{})
		if !ok {
			continue
		}
		ts := timestamp.Normalize(chat["timestamp"])
		if ts == "" {
			continue
		}
		if earliest == "" || ts < earliest {
			earliest = ts
		}
	}
	return earliest
}
