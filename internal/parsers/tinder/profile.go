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

package tinder

import (
	"time"

	"github.com/heartscope/dating-data-service/internal/ingestion/model"
	"github.com/heartscope/dating-data-service/internal/parsers"
	schemaservice "github.com/heartscope/dating-data-service/internal/schema/service"
	"github.com/heartscope/dating-data-service/internal/timestamp"
)

// fallbackUserID identifies the exporting user when the export carries
// no user object at all.
const fallbackUserID = "user"

// knownUserFields are the user-profile fields the parser interprets;
// everything else routes into attributes.
var knownUserFields = []string{
	"_id", "id", "name", "full_name", "birth_date", "gender", "city",
	"interests", "jobs", "schools", "bio", "create_date",
}

var knownPersonFields = []string{
	"_id", "id", "name", "birth_date", "gender", "bio", "city",
}

func (st *parseState) parseUser(raw map[string]interface{}) {
	value, ok := schemaservice.FindCollection(raw, "user")
	obj, isObj := value.(map[string]interface{})
	if !ok || !isObj {
		st.userID = fallbackUserID
		st.addParticipant(model.Participant{
			ID:       fallbackUserID,
			Platform: model.PlatformTinder,
			IsUser:   true,
		})
		return
	}

	rawID := st.addRawRecord(model.EntityProfile, obj)

	id := parsers.GetString(obj, "_id", "id")
	if id == "" {
		id = fallbackUserID
	}
	st.userID = id

	user := model.Participant{
		ID:          id,
		Platform:    model.PlatformTinder,
		Name:        parsers.GetString(obj, "name", "full_name"),
		Age:         deriveAge(parsers.GetString(obj, "birth_date"), time.Now()),
		GenderLabel: mapGender(obj["gender"]),
		Location:    locationOf(obj["city"]),
		Traits:      stringsOf(obj["interests"]),
		IsUser:      true,
		Attributes:  parsers.RouteUnknown(obj, knownUserFields),
		RawID:       rawID,
	}
	st.addParticipant(user)
}

// parsePerson builds the counterpart participant embedded in a match.
func (st *parseState) parsePerson(obj map[string]interface{}) model.Participant {
	return model.Participant{
		ID:          parsers.GetString(obj, "_id", "id"),
		Platform:    model.PlatformTinder,
		Name:        parsers.GetString(obj, "name"),
		Age:         deriveAge(parsers.GetString(obj, "birth_date"), time.Now()),
		GenderLabel: mapGender(obj["gender"]),
		Location:    locationOf(obj["city"]),
		Attributes:  parsers.RouteUnknown(obj, knownPersonFields),
	}
}

// deriveAge computes whole years from a birth date; results outside
// (0, 120) are treated as invalid and reported as zero.
func deriveAge(birthDate string, now time.Time) int {
	born, ok := timestamp.Parse(birthDate)
	if !ok {
		return 0
	}
	age := now.Year() - born.Year()
	if now.YearDay() < born.YearDay() {
		age--
	}
	if age <= 0 || age >= 120 {
		return 0
	}
	return age
}

// mapGender maps the export's numeric gender code to a label. The code
// is three-valued; anything else is Other. String values pass through.
func mapGender(value interface{}) string {
	switch v := value.(type) {
	case float64:
		switch int(v) {
		case 0:
			return "Male"
		case 1:
			return "Female"
		case 2:
			return "Non-binary"
		default:
			return "Other"
		}
	case string:
		return v
	default:
		return ""
	}
}

// locationOf accepts both a plain string and the nested {name: ...}
// city object seen in newer exports.
func locationOf(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case map[string]interface{}:
		return parsers.GetString(v, "name")
	default:
		return ""
	}
}

func stringsOf(value interface{}) []string {
	list, ok := value.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, element := range list {
		switch v := element.(type) {
		case string:
			out = append(out, v)
		case map[string]interface{}:
			if name := parsers.GetString(v, "name"); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}
