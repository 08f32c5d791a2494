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

// Package parsers defines the contract every platform parser satisfies.
package parsers

import (
	"github.com/heartscope/dating-data-service/internal/ingestion/model"
	"github.com/heartscope/dating-data-service/internal/system/errors"
)

// ValidationOutcome is the result of the cheap pre-parse check.
type ValidationOutcome struct {
	Valid  bool                `json:"valid"`
	Errors []errors.ParseIssue `json:"errors,omitempty"`
}

// Parser transforms one platform export file into the unified entity
// set. Parse never panics and never returns an out-of-band error; every
// failure path is a ParseResult with Success=false.
type Parser interface {
	Platform() model.Platform
	Parse(content, filename string) model.ParseResult
	Validate(content string) ValidationOutcome
}
