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

// IssueTemplate pairs a stable issue code with its canonical message.
// Severity is chosen at the emission site since some codes surface at
// different tiers depending on context.
type IssueTemplate struct {
	Code    string
	Message string
}

// AsCritical instantiates the template as a critical issue.
func (t IssueTemplate) AsCritical(description string) ParseIssue {
	return ParseIssue{
		Code:        t.Code,
		Message:     t.Message,
		Description: description,
		Severity:    SeverityCritical,
	}
}

// AsError instantiates the template as a non-fatal error.
func (t IssueTemplate) AsError(description string) ParseIssue {
	return ParseIssue{
		Code:        t.Code,
		Message:     t.Message,
		Description: description,
		Severity:    SeverityError,
	}
}

// AsWarning instantiates the template as a warning.
func (t IssueTemplate) AsWarning(description string) ParseIssue {
	return ParseIssue{
		Code:        t.Code,
		Message:     t.Message,
		Description: description,
		Severity:    SeverityWarning,
	}
}

var (
	// File-level issues

	EMPTY_FILE = IssueTemplate{
		Code:    "EMPTY_FILE",
		Message: "File content is empty.",
	}

	INVALID_JSON = IssueTemplate{
		Code:    "INVALID_JSON",
		Message: "File content is not valid JSON.",
	}

	INVALID_STRUCTURE = IssueTemplate{
		Code:    "INVALID_STRUCTURE",
		Message: "Export payload does not have the expected structure.",
	}

	INVALID_HEADER = IssueTemplate{
		Code:    "INVALID_HEADER",
		Message: "CSV header is missing a required column.",
	}

	UNKNOWN_FILE_TYPE = IssueTemplate{
		Code:    "UNKNOWN_FILE_TYPE",
		Message: "Could not determine the file type from its name.",
	}

	MISSING_DATA_FILE = IssueTemplate{
		Code:    "MISSING_DATA_FILE",
		Message: "No usable data file was found in the export.",
	}

	UNKNOWN_PLATFORM = IssueTemplate{
		Code:    "UNKNOWN_PLATFORM",
		Message: "Unrecognized platform identifier.",
	}

	PARSE_FAILURE = IssueTemplate{
		Code:    "PARSE_FAILURE",
		Message: "Parsing failed for every input file.",
	}

	// Schema issues

	MISSING_REQUIRED_FIELD = IssueTemplate{
		Code:    "MISSING_REQUIRED_FIELD",
		Message: "A required field is absent from the export.",
	}

	UNKNOWN_FIELDS = IssueTemplate{
		Code:    "UNKNOWN_FIELDS",
		Message: "Fields outside the known schema were observed and preserved.",
	}

	// Record-level issues

	MALFORMED_ROW = IssueTemplate{
		Code:    "MALFORMED_ROW",
		Message: "A record could not be processed and was skipped.",
	}

	DUPLICATE_ID = IssueTemplate{
		Code:    "DUPLICATE_ID",
		Message: "Duplicate entity identifier detected.",
	}

	INVALID_TIMESTAMP = IssueTemplate{
		Code:    "INVALID_TIMESTAMP",
		Message: "Timestamp could not be normalized.",
	}

	MISSING_PARTICIPANT = IssueTemplate{
		Code:    "MISSING_PARTICIPANT",
		Message: "Referenced participant is not present in the dataset.",
	}

	EMPTY_MESSAGE_BODY = IssueTemplate{
		Code:    "EMPTY_MESSAGE_BODY",
		Message: "Message has an empty body.",
	}

	NO_MESSAGES = IssueTemplate{
		Code:    "NO_MESSAGES",
		Message: "The dataset contains no messages.",
	}

	NO_MATCHES = IssueTemplate{
		Code:    "NO_MATCHES",
		Message: "The dataset contains no matches.",
	}

	LOW_MESSAGE_COUNT = IssueTemplate{
		Code:    "LOW_MESSAGE_COUNT",
		Message: "The dataset contains fewer messages than expected.",
	}

	// Persistence error codes (ServerError)

	SAVE_BATCH = IssueTemplate{
		Code:    "HS-15001",
		Message: "Error while persisting ingestion batch.",
	}

	ARCHIVE_RAW_RECORDS = IssueTemplate{
		Code:    "HS-15002",
		Message: "Error while archiving raw records.",
	}

	DB_CLIENT_INIT = IssueTemplate{
		Code:    "HS-15003",
		Message: "Unable to initialize database client.",
	}

	MARSHAL_JSON = IssueTemplate{
		Code:    "HS-15004",
		Message: "Error while marshalling JSON.",
	}
)
