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

import "fmt"

// Platform identifies a supported dating platform export format.
type Platform string

const (
	PlatformTinder Platform = "tinder"
	PlatformHinge  Platform = "hinge"
)

// ParsePlatform validates a platform identifier string.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformTinder:
		return PlatformTinder, nil
	case PlatformHinge:
		return PlatformHinge, nil
	default:
		return "", fmt.Errorf("unknown platform %q", s)
	}
}

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	StatusActive    MatchStatus = "active"
	StatusClosed    MatchStatus = "closed"
	StatusUnmatched MatchStatus = "unmatched"
	StatusExpired   MatchStatus = "expired"
)

// Direction says which side of a conversation sent a message.
type Direction string

const (
	DirectionUser  Direction = "user"
	DirectionMatch Direction = "match"
)

// EntityKind tags a raw record with the entity it was observed as.
type EntityKind string

const (
	EntityMatch   EntityKind = "match"
	EntityMessage EntityKind = "message"
	EntityProfile EntityKind = "profile"
)

// Prompt is one profile prompt with the participant's response.
type Prompt struct {
	Title    string `json:"title" bson:"title"`
	Response string `json:"response" bson:"response"`
}

// Participant is any individual represented in a dataset, including the
// exporting user. Exactly one participant per dataset has IsUser set.
// Ids are unique within a platform before deduplication; afterwards
// duplicate records are merged under a canonical survivor.
type Participant struct {
	ID          string      `json:"id" bson:"id"`
	Platform    Platform    `json:"platform" bson:"platform"`
	Name        string      `json:"name,omitempty" bson:"name,omitempty"`
	Age         int         `json:"age,omitempty" bson:"age,omitempty"`
	GenderLabel string      `json:"gender_label,omitempty" bson:"gender_label,omitempty"`
	Location    string      `json:"location,omitempty" bson:"location,omitempty"`
	Traits      []string    `json:"traits,omitempty" bson:"traits,omitempty"`
	Prompts     []Prompt    `json:"prompts,omitempty" bson:"prompts,omitempty"`
	IsUser      bool        `json:"is_user" bson:"is_user"`
	Attributes  *Attributes `json:"attributes,omitempty" bson:"-"`
	RawID       string      `json:"raw_id,omitempty" bson:"raw_id,omitempty"`
}

// Match is a connection between the user and one other participant.
type Match struct {
	ID           string      `json:"id" bson:"id"`
	Platform     Platform    `json:"platform" bson:"platform"`
	CreatedAt    string      `json:"created_at" bson:"created_at"`
	ClosedAt     string      `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
	Origin       string      `json:"origin,omitempty" bson:"origin,omitempty"`
	Status       MatchStatus `json:"status" bson:"status"`
	Participants [2]string   `json:"participants" bson:"participants"`
	Attributes   *Attributes `json:"attributes,omitempty" bson:"-"`
	RawID        string      `json:"raw_id,omitempty" bson:"raw_id,omitempty"`
}

// Reaction is one emoji reaction attached to a message.
type Reaction struct {
	Emoji   string `json:"emoji" bson:"emoji"`
	ActorID string `json:"actor_id" bson:"actor_id"`
	SentAt  string `json:"sent_at" bson:"sent_at"`
}

// NormalizedMessage is one message in its platform-independent form.
// Ids are unique dataset-wide and SenderID resolves to a Participant.
type NormalizedMessage struct {
	ID            string      `json:"id" bson:"id"`
	MatchID       string      `json:"match_id" bson:"match_id"`
	SenderID      string      `json:"sender_id" bson:"sender_id"`
	SentAt        string      `json:"sent_at" bson:"sent_at"`
	Body          string      `json:"body" bson:"body"`
	Direction     Direction   `json:"direction" bson:"direction"`
	Reactions     []Reaction  `json:"reactions,omitempty" bson:"reactions,omitempty"`
	Delivery      string      `json:"delivery,omitempty" bson:"delivery,omitempty"`
	PromptContext string      `json:"prompt_context,omitempty" bson:"prompt_context,omitempty"`
	Attributes    *Attributes `json:"attributes,omitempty" bson:"-"`
	RawID         string      `json:"raw_id,omitempty" bson:"raw_id,omitempty"`
}

// RawRecord preserves one source record verbatim for audit. Records are
// append-only and never mutated after creation.
type RawRecord struct {
	RecordID   string                 `json:"record_id" bson:"record_id"`
	Platform   Platform               `json:"platform" bson:"platform"`
	Entity     EntityKind             `json:"entity" bson:"entity"`
	Source     string                 `json:"source" bson:"source"`
	ObservedAt string                 `json:"observed_at" bson:"observed_at"`
	Data       map[string]interface{} `json:"data" bson:"data"`
}

// ExtractedFile is one file handed over by the archive-extraction
// collaborator. Content is already decoded to text.
type ExtractedFile struct {
	Filename  string `json:"filename"`
	Content   string `json:"content"`
	Extension string `json:"extension"`
	Size      int64  `json:"size"`
}
