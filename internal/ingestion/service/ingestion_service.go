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

// Package service orchestrates ingestion: parser selection, multi-file
// merging, timestamp normalization and participant deduplication.
package service

import (
	"fmt"
	"strings"
	"sync"

	"github.com/heartscope/dating-data-service/internal/dedup"
	"github.com/heartscope/dating-data-service/internal/ingestion/model"
	"github.com/heartscope/dating-data-service/internal/parsers"
	"github.com/heartscope/dating-data-service/internal/parsers/hinge"
	"github.com/heartscope/dating-data-service/internal/parsers/tinder"
	schemaservice "github.com/heartscope/dating-data-service/internal/schema/service"
	"github.com/heartscope/dating-data-service/internal/system/config"
	"github.com/heartscope/dating-data-service/internal/system/errors"
	"github.com/heartscope/dating-data-service/internal/system/log"
	"github.com/heartscope/dating-data-service/internal/timestamp"
)

type IngestionService struct {
	lowMessageThreshold int
	schemaVersion       string
}

// NewIngestionService builds the orchestrator from the runtime
// configuration.
func NewIngestionService() *IngestionService {
	cfg := config.GetRuntime().Config.Ingestion
	return &IngestionService{
		lowMessageThreshold: cfg.LowMessageCountThreshold,
		schemaVersion:       cfg.SchemaVersion,
	}
}

// ParseExtractedFiles ingests the extracted files of one export for the
// given platform and returns one consolidated result. The call is pure
// computation over the input buffers; parsing identical bytes twice
// yields identical entities except for wall-clock stamps.
func (s *IngestionService) ParseExtractedFiles(files []model.ExtractedFile, platform model.Platform) model.ParseResult {
	logger := log.GetLogger()

	var result model.ParseResult
	switch platform {
	case model.PlatformTinder:
		result = s.parseTinder(files)
	case model.PlatformHinge:
		result = s.parseHinge(files)
	default:
		return model.FailedResult(platform,
			errors.UNKNOWN_PLATFORM.AsCritical(fmt.Sprintf("platform %q is not supported", platform)))
	}

	if !result.Success {
		logger.Warn("Ingestion failed",
			log.String("platform", string(platform)),
			log.Int("errors", len(result.Errors)))
		return result
	}

	s.postProcess(&result)
	logger.Info("Ingestion completed",
		log.String("platform", string(platform)),
		log.Int("participants", result.Metadata.ParticipantCount),
		log.Int("matches", result.Metadata.MatchCount),
		log.Int("messages", result.Metadata.MessageCount))
	return result
}

// parseTinder requires exactly one JSON document.
func (s *IngestionService) parseTinder(files []model.ExtractedFile) model.ParseResult {
	var jsonFiles []model.ExtractedFile
	for _, f := range files {
		if isExtension(f, "json") {
			jsonFiles = append(jsonFiles, f)
		}
	}
	if len(jsonFiles) == 0 {
		return model.FailedResult(model.PlatformTinder,
			errors.MISSING_DATA_FILE.AsCritical("the export must contain one JSON data file"))
	}
	if len(jsonFiles) > 1 {
		return model.FailedResult(model.PlatformTinder,
			errors.INVALID_STRUCTURE.AsCritical(
				fmt.Sprintf("expected exactly one JSON data file, found %d", len(jsonFiles))))
	}
	file := jsonFiles[0]
	return tinder.NewParser(s.schemaVersion).Parse(file.Content, file.Filename)
}

// parseHinge accepts any number of CSV/JSON files, parses them as
// independent concurrent tasks with no shared state, and merges
// sequentially after the join.
func (s *IngestionService) parseHinge(files []model.ExtractedFile) model.ParseResult {
	var selected []model.ExtractedFile
	for _, f := range files {
		if isExtension(f, "csv") || isExtension(f, "json") {
			selected = append(selected, f)
		}
	}
	if len(selected) == 0 {
		return model.FailedResult(model.PlatformHinge,
			errors.MISSING_DATA_FILE.AsCritical("the export must contain at least one CSV or JSON data file"))
	}

	parser := hinge.NewParser(s.schemaVersion)
	results := make([]model.ParseResult, len(selected))
	var wg sync.WaitGroup
	for i, file := range selected {
		wg.Add(1)
		go func(i int, file model.ExtractedFile) {
			defer wg.Done()
			results[i] = parser.Parse(file.Content, file.Filename)
		}(i, file)
	}
	wg.Wait()

	return mergeResults(model.PlatformHinge, results)
}

// postProcess runs the shared normalization passes: every timestamp
// through the normalizer, participants through the deduplicator, then
// metadata recomputation and the post-parse validation sweep.
func (s *IngestionService) postProcess(result *model.ParseResult) {
	data := result.Data
	if data == nil {
		return
	}

	normalizeTimestamps(data)
	data.Participants = dedup.Deduplicate(data.Participants)

	result.Metadata.ParticipantCount = len(data.Participants)
	result.Metadata.MatchCount = len(data.Matches)
	result.Metadata.MessageCount = len(data.Messages)
	result.Metadata.DateRange = parsers.DateRangeOf(data.Messages)

	result.AddIssues(schemaservice.ValidateParseResult(result))

	if s.lowMessageThreshold > 0 && len(data.Messages) < s.lowMessageThreshold {
		result.Warnings = append(result.Warnings, errors.LOW_MESSAGE_COUNT.AsWarning(
			fmt.Sprintf("dataset has %d messages, expected at least %d",
				len(data.Messages), s.lowMessageThreshold)))
	}
}

// normalizeTimestamps rewrites every parseable timestamp field to
// canonical ISO-8601 UTC. Unparseable values are left untouched so the
// validator can report them.
func normalizeTimestamps(data *model.DatasetData) {
	for i := range data.Messages {
		msg := &data.Messages[i]
		if ts := timestamp.Normalize(msg.SentAt); ts != "" {
			msg.SentAt = ts
		}
		for j := range msg.Reactions {
			if ts := timestamp.Normalize(msg.Reactions[j].SentAt); ts != "" {
				msg.Reactions[j].SentAt = ts
			}
		}
	}
	for i := range data.Matches {
		match := &data.Matches[i]
		if ts := timestamp.Normalize(match.CreatedAt); ts != "" {
			match.CreatedAt = ts
		}
		if match.ClosedAt != "" {
			if ts := timestamp.Normalize(match.ClosedAt); ts != "" {
				match.ClosedAt = ts
			}
		}
	}
}

func isExtension(f model.ExtractedFile, ext string) bool {
	if strings.EqualFold(strings.TrimPrefix(f.Extension, "."), ext) {
		return true
	}
	return strings.HasSuffix(strings.ToLower(f.Filename), "."+ext)
}
