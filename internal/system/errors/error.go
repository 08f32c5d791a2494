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

package errors

import "fmt"

// Severity classifies a parse issue. The set is closed:
//   - critical: the file (or batch) cannot be processed at all.
//   - error: a default shipped but something is semantically broken;
//     the caller decides whether to block the import.
//   - warning: informational only.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityError    Severity = "error"
	SeverityWarning  Severity = "warning"
)

// ParseIssue is the typed diagnostic unit emitted by parsers and
// validators. Codes are part of the stable public contract; downstream
// consumers map them to user-facing guidance text.
type ParseIssue struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Description string   `json:"description,omitempty"`
	Severity    Severity `json:"severity"`
	Field       string   `json:"field,omitempty"`
	RecordID    string   `json:"record_id,omitempty"`
	Source      string   `json:"source,omitempty"`
}

func (i ParseIssue) Error() string {
	if i.Description != "" {
		return fmt.Sprintf("[%s] %s: %s", i.Code, i.Message, i.Description)
	}
	return fmt.Sprintf("[%s] %s", i.Code, i.Message)
}

// IsCritical reports whether the issue aborts processing.
func (i ParseIssue) IsCritical() bool {
	return i.Severity == SeverityCritical
}

// WithField returns a copy of the issue annotated with the offending field name.
func (i ParseIssue) WithField(field string) ParseIssue {
	i.Field = field
	return i
}

// WithRecordID returns a copy of the issue annotated with the offending record id.
func (i ParseIssue) WithRecordID(id string) ParseIssue {
	i.RecordID = id
	return i
}

// WithSource returns a copy of the issue annotated with the source filename.
func (i ParseIssue) WithSource(source string) ParseIssue {
	i.Source = source
	return i
}

// ServerError wraps an infrastructure failure (database, archive) with a
// stable code and its underlying cause.
type ServerError struct {
	Code        string
	Message     string
	Description string
	Err         error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

func NewServerError(code, message, description string, cause error) *ServerError {
	return &ServerError{
		Code:        code,
		Message:     message,
		Description: description,
		Err:         cause,
	}
}
