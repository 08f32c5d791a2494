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

// Entity collection names recognized inside raw payloads.
const (
	EntityMatches  = "matches"
	EntityMessages = "messages"
)

// requiredFields lists, per platform and entity, the raw fields every
// sampled record must carry. Absence of any of these is a critical
// MISSING_REQUIRED_FIELD failure.
var requiredFields = map[string]map[string][]string{
	"tinder": {
		EntityMessages: {"_id", "match_id", "sent_date", "message", "from", "to"},
		EntityMatches:  {"_id", "person", "created_date"},
	},
	"hinge": {
		// Hinge CSV headers are validated by resemblance in the parser;
		// the JSON variant only guarantees an embedded chat array.
		EntityMatches:  {},
		EntityMessages: {},
	},
}

// knownFields lists every raw field the parsers interpret. Observed
// fields outside this list are reported as UNKNOWN_FIELDS and routed
// into per-record attributes so no information is dropped.
var knownFields = map[string]map[string][]string{
	"tinder": {
		EntityMessages: {
			"_id", "match_id", "sent_date", "message", "from", "to",
			"reactions", "type", "fixed_height",
		},
		EntityMatches: {
			"_id", "person", "created_date", "closed", "closed_date",
			"is_super_like", "is_boost_match", "dead", "following", "messages",
		},
	},
	"hinge": {
		EntityMatches:  {"match", "chats", "like", "block", "we_met"},
		EntityMessages: {"body", "timestamp", "type"},
	},
}

// RequiredFields returns the required raw fields for a platform entity.
func RequiredFields(platform, entity string) []string {
	if byEntity, ok := requiredFields[platform]; ok {
		return byEntity[entity]
	}
	return nil
}

// KnownFields returns every raw field the parser interprets for a
// platform entity.
func KnownFields(platform, entity string) []string {
	if byEntity, ok := knownFields[platform]; ok {
		return byEntity[entity]
	}
	return nil
}
