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

// Package timestamp converts the heterogeneous timestamp shapes found in
// platform exports into canonical ISO-8601 strings.
package timestamp

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// Numeric values above this threshold are epoch milliseconds; at or
// below, epoch seconds. 10^10 seconds is far in the future while 10^10
// milliseconds is early 2001, so the two ranges do not overlap for any
// realistic export.
const millisThreshold = 10_000_000_000

const (
	isoMillisUTC    = "2006-01-02T15:04:05.000Z"
	isoMillisOffset = "2006-01-02T15:04:05.000-07:00"
)

// strictLayouts are tried first for string inputs.
var strictLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
}

// permissiveLayouts mirror the lenient date-construction fallback of the
// platform exports themselves.
var permissiveLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	time.RFC1123Z,
	time.RFC1123,
	time.ANSIC,
	"Jan 2, 2006 3:04:05 PM",
	"Jan 2, 2006",
}

// Normalize converts a timestamp of any supported shape to canonical
// ISO-8601 UTC. Unparseable input yields the empty string; Normalize
// never panics.
func Normalize(value interface{}) string {
	return NormalizeIn(value, "UTC")
}

// NormalizeIn is Normalize with an explicit output timezone. "UTC" (or
// empty) formats directly; any other IANA zone converts before
// formatting. An unknown zone falls back to UTC.
func NormalizeIn(value interface{}, timezone string) string {
	t, ok := instantOf(value)
	if !ok {
		return ""
	}
	return format(t, timezone)
}

// Parse resolves a value to its time instant without formatting. The
// boolean is false for unparseable input.
func Parse(value interface{}) (time.Time, bool) {
	return instantOf(value)
}

func instantOf(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case string:
		return parseString(v)
	case float64:
		return fromEpoch(v)
	case float32:
		return fromEpoch(float64(v))
	case int:
		return fromEpoch(float64(v))
	case int64:
		return fromEpoch(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromEpoch(f)
	default:
		return time.Time{}, false
	}
}

func fromEpoch(v float64) (time.Time, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
		return time.Time{}, false
	}
	if math.Abs(v) > millisThreshold {
		return time.UnixMilli(int64(v)), true
	}
	sec := math.Trunc(v)
	nsec := int64(math.Round((v - sec) * 1e9))
	return time.Unix(int64(sec), nsec), true
}

func parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range strictLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range permissiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func format(t time.Time, timezone string) string {
	if timezone == "" || strings.EqualFold(timezone, "UTC") {
		return t.UTC().Format(isoMillisUTC)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return t.UTC().Format(isoMillisUTC)
	}
	return t.In(loc).Format(isoMillisOffset)
}
