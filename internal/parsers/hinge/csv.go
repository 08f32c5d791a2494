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

package hinge

import "strings"

// splitRows tokenizes CSV text into rows. The tokenizer is deliberately
// hand-rolled rather than encoding/csv: platform exports contain ragged
// rows and stray quoting that the standard reader rejects outright,
// while partial recovery of a damaged file beats refusing it. It
// handles quoted fields with escaped "" pairs, embedded newlines inside
// quotes, CRLF and LF endings, and skips blank rows.
func splitRows(content string) [][]string {
	var rows [][]string
	var row []string
	var field strings.Builder
	inQuotes := false

	pushField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	pushRow := func() {
		pushField()
		blank := true
		for _, f := range row {
			if strings.TrimSpace(f) != "" {
				blank = false
				break
			}
		}
		if !blank {
			rows = append(rows, row)
		}
		row = nil
	}

	runes := []rune(content)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if inQuotes {
			if c == '"' {
				if i+1 < len(runes) && runes[i+1] == '"' {
					field.WriteRune('"')
					i++
				} else {
					inQuotes = false
				}
				continue
			}
			field.WriteRune(c)
			continue
		}
		switch c {
		case '"':
			inQuotes = true
		case ',':
			pushField()
		case '\r':
			// CRLF handled by the following '\n'; a bare CR is ignored.
		case '\n':
			pushRow()
		default:
			field.WriteRune(c)
		}
	}
	if field.Len() > 0 || len(row) > 0 {
		pushRow()
	}
	return rows
}

// normalizeHeader canonicalizes a header cell for resemblance matching:
// lowercase, trimmed, runs of non-alphanumerics collapsed to a single
// underscore.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	var b strings.Builder
	lastUnderscore := false
	for _, c := range h {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore && b.Len() > 0 {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// findColumn returns the index of the first header cell whose
// normalized form satisfies the predicate, or -1.
func findColumn(header []string, predicate func(string) bool) int {
	for i, cell := range header {
		if predicate(normalizeHeader(cell)) {
			return i
		}
	}
	return -1
}

// cellAt tolerates rows shorter than the header.
func cellAt(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
