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
	"fmt"
	"sort"
	"strconv"

	"github.com/heartscope/dating-data-service/internal/ingestion/model"
)

// GetString returns the first non-empty string-convertible value among
// the given keys of a raw record.
func GetString(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			if s := StringOf(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// StringOf renders a raw scalar as a string; nil yields the empty string.
func StringOf(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}

// Truthy interprets the loose boolean encodings seen in exports.
func Truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1"
	case float64:
		return t != 0
	default:
		return false
	}
}

// RouteUnknown preserves every field outside the known list in an
// attributes map. Keys are routed in sorted order so re-parsing
// identical bytes yields identical attributes.
func RouteUnknown(obj map[string]interface{}, known []string) *model.Attributes {
	knownSet := map[string]bool{}
	for _, k := range known {
		knownSet[k] = true
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		if !knownSet[k] {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)

	attrs := model.NewAttributes()
	for _, k := range keys {
		attrs.Set(k, obj[k])
	}
	return attrs
}
