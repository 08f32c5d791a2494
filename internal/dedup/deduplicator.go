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

// Package dedup merges participant records denoting the same real
// person across heterogeneous raw records.
package dedup

import (
	"strings"

	"github.com/heartscope/dating-data-service/internal/ingestion/model"
)

// Deduplicate merges duplicate participants. Survivors keep first
// occurrence order; input order decides which record of a duplicate
// pair is canonical.
//
// Identity rule: two records denote the same person iff they share
// platform and id, or they come from different platforms and their
// normalized names match exactly. Same-platform records with the same
// name but different ids are never merged: distinct people can share a
// display name on one platform.
//
// The comparison is pairwise O(n²); participant counts stay in the tens
// to low hundreds even when message counts are large.
func Deduplicate(participants []model.Participant) []model.Participant {
	var survivors []model.Participant
	for _, candidate := range participants {
		merged := false
		for i := range survivors {
			if sameIdentity(survivors[i], candidate) {
				survivors[i] = merge(survivors[i], candidate)
				merged = true
				break
			}
		}
		if !merged {
			survivors = append(survivors, cloneParticipant(candidate))
		}
	}
	return survivors
}

func sameIdentity(a, b model.Participant) bool {
	if a.Platform == b.Platform {
		return a.ID == b.ID
	}
	na, nb := normalizeName(a.Name), normalizeName(b.Name)
	return na != "" && na == nb
}

// normalizeName lowercases and collapses internal whitespace.
func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// merge folds duplicate into survivor. The canonical id and platform
// come from the first-seen record; scalar fields keep the first
// non-empty value; list fields concatenate; set-like fields union;
// IsUser is OR'd across duplicates to protect against one mis-tagged
// record; the raw audit pointer keeps only the first occurrence.
func merge(survivor, duplicate model.Participant) model.Participant {
	if survivor.Name == "" {
		survivor.Name = duplicate.Name
	}
	if survivor.Age == 0 {
		survivor.Age = duplicate.Age
	}
	if survivor.GenderLabel == "" {
		survivor.GenderLabel = duplicate.GenderLabel
	}
	if survivor.Location == "" {
		survivor.Location = duplicate.Location
	}
	survivor.Traits = unionStrings(survivor.Traits, duplicate.Traits)
	survivor.Prompts = append(survivor.Prompts, duplicate.Prompts...)
	survivor.IsUser = survivor.IsUser || duplicate.IsUser
	if survivor.RawID == "" {
		survivor.RawID = duplicate.RawID
	}

	if duplicate.Attributes.Len() > 0 {
		if survivor.Attributes == nil {
			survivor.Attributes = model.NewAttributes()
		}
		for _, key := range duplicate.Attributes.Keys() {
			value, _ := duplicate.Attributes.Get(key)
			survivor.Attributes.SetIfAbsent(key, value)
		}
	}
	return survivor
}

func unionStrings(a, b []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// cloneParticipant copies slice fields so merging never aliases the
// caller's input.
func cloneParticipant(p model.Participant) model.Participant {
	if p.Traits != nil {
		p.Traits = append([]string(nil), p.Traits...)
	}
	if p.Prompts != nil {
		p.Prompts = append([]model.Prompt(nil), p.Prompts...)
	}
	return p
}
