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

// EntitySchema records what was observed for one entity collection in a
// raw payload, diffed against the platform's required-field list.
type EntitySchema struct {
	ObservedFields []string `json:"observed_fields" bson:"observed_fields"`
	SampleCount    int      `json:"sample_count" bson:"sample_count"`
	RequiredFields []string `json:"required_fields" bson:"required_fields"`
	MissingFields  []string `json:"missing_fields,omitempty" bson:"missing_fields,omitempty"`
}

// SchemaSnapshot captures the field shape of one raw payload. Built once
// per payload and never mutated afterwards; snapshots from successive
// imports are compared to detect platform schema drift.
type SchemaSnapshot struct {
	Platform      string                  `json:"platform" bson:"platform"`
	Version       string                  `json:"version" bson:"version"`
	CapturedAt    string                  `json:"captured_at" bson:"captured_at"`
	Entities      map[string]EntitySchema `json:"entities" bson:"entities"`
	UnknownFields map[string][]string     `json:"unknown_fields,omitempty" bson:"unknown_fields,omitempty"`
}
