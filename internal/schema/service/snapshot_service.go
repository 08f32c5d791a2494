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
	"sort"
	"strings"
	"time"

	"github.com/heartscope/dating-data-service/internal/schema/model"
)

// sampleLimit caps how many records per collection are inspected when
// capturing a snapshot. Field shapes are homogeneous enough within one
// export that a small sample is representative.
const sampleLimit = 10

// snapshotEntities are the collections recognized inside raw payloads.
var snapshotEntities = []string{model.EntityMatches, model.EntityMessages}

// FindCollection resolves a top-level collection by case-insensitive
// name. Platform exports are inconsistent about key casing.
func FindCollection(raw map[string]interface{}, name string) (interface{}, bool) {
	if v, ok := raw[name]; ok {
		return v, true
	}
	for k, v := range raw {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

// CaptureSnapshot builds an immutable schema snapshot of a raw payload.
// An empty or non-object payload yields an empty snapshot, never an
// error.
func CaptureSnapshot(raw map[string]interface{}, platform, version string) model.SchemaSnapshot {
	snapshot := model.SchemaSnapshot{
		Platform:      platform,
		Version:       version,
		CapturedAt:    time.Now().UTC().Format(time.RFC3339),
		Entities:      map[string]model.EntitySchema{},
		UnknownFields: map[string][]string{},
	}
	if len(raw) == 0 {
		return snapshot
	}

	for _, entity := range snapshotEntities {
		value, ok := FindCollection(raw, entity)
		if !ok {
			continue
		}
		records, ok := value.([]interface{})
		if !ok {
			continue
		}
		if entity == model.EntityMessages {
			records = flattenMessageGroups(records)
		}

		observed, sampled := sampleFields(records)
		required := model.RequiredFields(platform, entity)
		known := model.KnownFields(platform, entity)

		snapshot.Entities[entity] = model.EntitySchema{
			ObservedFields: observed,
			SampleCount:    sampled,
			RequiredFields: required,
			MissingFields:  diffFields(required, observed),
		}
		if unknown := diffFields(observed, known); len(unknown) > 0 {
			snapshot.UnknownFields[entity] = unknown
		}
	}
	return snapshot
}

// flattenMessageGroups expands per-match group wrappers into the message
// records they carry. Exports ship messages either as a flat array or
// grouped per match under a nested messages array; field sampling
// applies to the message records themselves in both shapes. Fields
// carried only on the wrapper (the match link, typically) are folded
// into each inner record so the required-field diff sees them; inner
// fields win on collision. Originals are never mutated.
func flattenMessageGroups(records []interface{}) []interface{} {
	var out []interface{}
	for _, record := range records {
		obj, ok := record.(map[string]interface{})
		if !ok {
			out = append(out, record)
			continue
		}
		inner, ok := obj[model.EntityMessages].([]interface{})
		if !ok {
			out = append(out, record)
			continue
		}
		for _, msg := range inner {
			msgObj, ok := msg.(map[string]interface{})
			if !ok {
				out = append(out, msg)
				continue
			}
			merged := make(map[string]interface{}, len(msgObj)+len(obj)-1)
			for k, v := range obj {
				if k == model.EntityMessages {
					continue
				}
				merged[k] = v
			}
			for k, v := range msgObj {
				merged[k] = v
			}
			out = append(out, merged)
		}
	}
	return out
}

// sampleFields unions the keys of up to sampleLimit records and reports
// how many records were sampled. Non-object records are skipped.
func sampleFields(records []interface{}) ([]string, int) {
	seen := map[string]bool{}
	sampled := 0
	for _, record := range records {
		if sampled >= sampleLimit {
			break
		}
		obj, ok := record.(map[string]interface{})
		if !ok {
			continue
		}
		sampled++
		for k := range obj {
			seen[k] = true
		}
	}

	fields := make([]string, 0, len(seen))
	for k := range seen {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields, sampled
}

// diffFields returns the elements of a that are absent from b, in a's
// order.
func diffFields(a, b []string) []string {
	inB := map[string]bool{}
	for _, f := range b {
		inB[f] = true
	}
	var out []string
	for _, f := range a {
		if !inB[f] {
			out = append(out, f)
		}
	}
	return out
}
