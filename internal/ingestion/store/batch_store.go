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

// Package store persists ingested datasets: normalized entities go to
// PostgreSQL as one transactional batch, raw records go to the MongoDB
// archive.
package store

import (
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/heartscope/dating-data-service/internal/ingestion/model"
	"github.com/heartscope/dating-data-service/internal/system/database/provider"
	"github.com/heartscope/dating-data-service/internal/system/errors"
	"github.com/heartscope/dating-data-service/internal/system/log"
	"github.com/lib/pq"
)

const (
	queryInsertBatch = `INSERT INTO ingestion_batch
		(batch_id, platform, source_files, participant_count, match_count, message_count, parsed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	queryInsertParticipant = `INSERT INTO participants
		(batch_id, participant_id, platform, name, age, gender_label, location, traits, prompts, is_user, attributes, raw_record_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	queryInsertMatch = `INSERT INTO matches
		(batch_id, match_id, platform, created_at, closed_at, origin, status, participant_a, participant_b, attributes, raw_record_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	queryInsertMessage = `INSERT INTO messages
		(batch_id, message_id, match_id, sender_id, sent_at, body, direction, reactions, delivery, prompt_context, attributes, raw_record_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	queryInsertSnapshot = `INSERT INTO schema_snapshots
		(batch_id, platform, version, captured_at, snapshot)
		VALUES ($1, $2, $3, $4, $5)`

	queryLatestSnapshot = `SELECT snapshot FROM schema_snapshots
		WHERE platform = $1 ORDER BY captured_at DESC LIMIT 1`
)

// BatchStore writes one parsed dataset to PostgreSQL atomically.
type BatchStore struct {
	DBProvider provider.DBProviderInterface
}

// NewBatchStore creates a new BatchStore instance.
func NewBatchStore() *BatchStore {

	return &BatchStore{
		DBProvider: provider.NewDBProvider(),
	}
}

// SaveBatch persists the normalized entities of a successful parse
// result in one transaction and returns the generated batch id. A
// failure anywhere rolls the whole batch back.
func (s *BatchStore) SaveBatch(result model.ParseResult) (string, error) {
	logger := log.GetLogger()

	if result.Data == nil {
		return "", errors.NewServerError(errors.SAVE_BATCH.Code, errors.SAVE_BATCH.Message,
			"parse result carries no data", nil)
	}

	dbClient, err := s.DBProvider.GetDBClient()
	if err != nil {
		return "", errors.NewServerError(errors.DB_CLIENT_INIT.Code, errors.DB_CLIENT_INIT.Message,
			"failed to get database client", err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx()
	if err != nil {
		return "", errors.NewServerError(errors.SAVE_BATCH.Code, errors.SAVE_BATCH.Message,
			"failed to begin transaction", err)
	}

	batchID := uuid.New().String()
	if err := s.insertBatch(tx, batchID, result); err != nil {
		_ = tx.Rollback()
		return "", err
	}
	if err := s.insertParticipants(tx, batchID, result.Data.Participants); err != nil {
		_ = tx.Rollback()
		return "", err
	}
	if err := s.insertMatches(tx, batchID, result.Data.Matches); err != nil {
		_ = tx.Rollback()
		return "", err
	}
	if err := s.insertMessages(tx, batchID, result.Data.Messages); err != nil {
		_ = tx.Rollback()
		return "", err
	}
	if err := s.insertSnapshot(tx, batchID, result); err != nil {
		_ = tx.Rollback()
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", errors.NewServerError(errors.SAVE_BATCH.Code, errors.SAVE_BATCH.Message,
			"failed to commit transaction", err)
	}

	logger.Info("Persisted ingestion batch",
		log.String("batchId", batchID),
		log.String("platform", string(result.Metadata.Platform)),
		log.Int("participants", len(result.Data.Participants)),
		log.Int("matches", len(result.Data.Matches)),
		log.Int("messages", len(result.Data.Messages)))
	return batchID, nil
}

func (s *BatchStore) insertBatch(tx *sql.Tx, batchID string, result model.ParseResult) error {

	_, err := tx.Exec(queryInsertBatch, batchID, string(result.Metadata.Platform),
		pq.Array(result.Metadata.SourceFiles), result.Metadata.ParticipantCount,
		result.Metadata.MatchCount, result.Metadata.MessageCount, result.Metadata.ParsedAt)
	if err != nil {
		return errors.NewServerError(errors.SAVE_BATCH.Code, errors.SAVE_BATCH.Message,
			"failed to insert batch row", err)
	}
	return nil
}

func (s *BatchStore) insertParticipants(tx *sql.Tx, batchID string, participants []model.Participant) error {

	for _, p := range participants {
		prompts, err := marshalNullable(p.Prompts, len(p.Prompts) > 0)
		if err != nil {
			return err
		}
		attrs, err := attributesJSON(p.Attributes)
		if err != nil {
			return err
		}
		_, err = tx.Exec(queryInsertParticipant, batchID, p.ID, string(p.Platform),
			nullString(p.Name), nullInt(p.Age), nullString(p.GenderLabel), nullString(p.Location),
			pq.Array(p.Traits), prompts, p.IsUser, attrs, nullString(p.RawID))
		if err != nil {
			return errors.NewServerError(errors.SAVE_BATCH.Code, errors.SAVE_BATCH.Message,
				"failed to insert participant "+p.ID, err)
		}
	}
	return nil
}

func (s *BatchStore) insertMatches(tx *sql.Tx, batchID string, matches []model.Match) error {

	for _, m := range matches {
		attrs, err := attributesJSON(m.Attributes)
		if err != nil {
			return err
		}
		_, err = tx.Exec(queryInsertMatch, batchID, m.ID, string(m.Platform),
			nullString(m.CreatedAt), nullString(m.ClosedAt), nullString(m.Origin), string(m.Status),
			m.Participants[0], m.Participants[1], attrs, nullString(m.RawID))
		if err != nil {
			return errors.NewServerError(errors.SAVE_BATCH.Code, errors.SAVE_BATCH.Message,
				"failed to insert match "+m.ID, err)
		}
	}
	return nil
}

func (s *BatchStore) insertMessages(tx *sql.Tx, batchID string, messages []model.NormalizedMessage) error {

	for _, m := range messages {
		reactions, err := marshalNullable(m.Reactions, len(m.Reactions) > 0)
		if err != nil {
			return err
		}
		attrs, err := attributesJSON(m.Attributes)
		if err != nil {
			return err
		}
		_, err = tx.Exec(queryInsertMessage, batchID, m.ID, m.MatchID, m.SenderID,
			nullString(m.SentAt), m.Body, string(m.Direction), reactions,
			nullString(m.Delivery), nullString(m.PromptContext), attrs, nullString(m.RawID))
		if err != nil {
			return errors.NewServerError(errors.SAVE_BATCH.Code, errors.SAVE_BATCH.Message,
				"failed to insert message "+m.ID, err)
		}
	}
	return nil
}

func (s *BatchStore) insertSnapshot(tx *sql.Tx, batchID string, result model.ParseResult) error {

	snapshot := result.Data.Snapshot
	if snapshot == nil {
		return nil
	}
	body, err := json.Marshal(snapshot)
	if err != nil {
		return errors.NewServerError(errors.MARSHAL_JSON.Code, errors.MARSHAL_JSON.Message,
			"failed to marshal schema snapshot", err)
	}
	_, err = tx.Exec(queryInsertSnapshot, batchID, string(snapshot.Platform),
		snapshot.Version, snapshot.CapturedAt, string(body))
	if err != nil {
		return errors.NewServerError(errors.SAVE_BATCH.Code, errors.SAVE_BATCH.Message,
			"failed to insert schema snapshot", err)
	}
	return nil
}

// LatestSnapshotJSON returns the most recently captured schema snapshot
// for a platform as raw JSON, or empty when none was recorded yet.
func (s *BatchStore) LatestSnapshotJSON(platform model.Platform) (string, error) {

	dbClient, err := s.DBProvider.GetDBClient()
	if err != nil {
		return "", errors.NewServerError(errors.DB_CLIENT_INIT.Code, errors.DB_CLIENT_INIT.Message,
			"failed to get database client", err)
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(queryLatestSnapshot, string(platform))
	if err != nil {
		return "", errors.NewServerError(errors.SAVE_BATCH.Code, errors.SAVE_BATCH.Message,
			"failed to query schema snapshot", err)
	}
	if len(results) == 0 {
		return "", nil
	}
	switch v := results[0]["snapshot"].(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", nil
	}
}

// attributesJSON renders the ordered attribute map as a nullable jsonb
// parameter, preserving key order in the stored document.
func attributesJSON(attrs *model.Attributes) (sql.NullString, error) {

	if attrs.Len() == 0 {
		return sql.NullString{}, nil
	}
	body, err := json.Marshal(attrs)
	if err != nil {
		return sql.NullString{}, errors.NewServerError(errors.MARSHAL_JSON.Code, errors.MARSHAL_JSON.Message,
			"failed to marshal attributes", err)
	}
	return sql.NullString{String: string(body), Valid: true}, nil
}

func marshalNullable(v interface{}, present bool) (sql.NullString, error) {

	if !present {
		return sql.NullString{}, nil
	}
	body, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, errors.NewServerError(errors.MARSHAL_JSON.Code, errors.MARSHAL_JSON.Message,
			"failed to marshal value", err)
	}
	return sql.NullString{String: string(body), Valid: true}, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(n int) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}
