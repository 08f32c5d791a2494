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

package store

import (
	"context"
	"time"

	"github.com/heartscope/dating-data-service/internal/ingestion/model"
	"github.com/heartscope/dating-data-service/internal/system/config"
	"github.com/heartscope/dating-data-service/internal/system/errors"
	"github.com/heartscope/dating-data-service/internal/system/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const archiveOpTimeout = 10 * time.Second

// RawArchive appends verbatim source records to the MongoDB archive.
// Records are immutable once written.
type RawArchive struct {
	client     *mongo.Client
	database   string
	collection string
}

// archivedRecord is the document shape stored in the archive. The batch
// id ties every record back to the PostgreSQL batch it was ingested in.
type archivedRecord struct {
	BatchID    string                 `bson:"batch_id"`
	RecordID   string                 `bson:"record_id"`
	Platform   string                 `bson:"platform"`
	Entity     string                 `bson:"entity"`
	Source     string                 `bson:"source"`
	ObservedAt string                 `bson:"observed_at"`
	Data       map[string]interface{} `bson:"data"`
}

// NewRawArchive connects to the configured MongoDB instance.
func NewRawArchive(ctx context.Context) (*RawArchive, error) {

	conf := config.GetRuntime().Config.RawArchive

	connectCtx, cancel := context.WithTimeout(ctx, archiveOpTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(conf.URI))
	if err != nil {
		return nil, errors.NewServerError(errors.ARCHIVE_RAW_RECORDS.Code,
			errors.ARCHIVE_RAW_RECORDS.Message, "failed to connect to archive", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, errors.NewServerError(errors.ARCHIVE_RAW_RECORDS.Code,
			errors.ARCHIVE_RAW_RECORDS.Message, "failed to ping archive", err)
	}

	return &RawArchive{
		client:     client,
		database:   conf.Database,
		collection: conf.Collection,
	}, nil
}

// ArchiveRecords appends the raw records of one batch. The write is
// unordered; a partial failure reports an error but never mutates
// documents already written.
func (a *RawArchive) ArchiveRecords(ctx context.Context, batchID string, records []model.RawRecord) error {

	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(records))
	for _, r := range records {
		docs = append(docs, archivedRecord{
			BatchID:    batchID,
			RecordID:   r.RecordID,
			Platform:   string(r.Platform),
			Entity:     string(r.Entity),
			Source:     r.Source,
			ObservedAt: r.ObservedAt,
			Data:       r.Data,
		})
	}

	opCtx, cancel := context.WithTimeout(ctx, archiveOpTimeout)
	defer cancel()

	coll := a.client.Database(a.database).Collection(a.collection)
	_, err := coll.InsertMany(opCtx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		return errors.NewServerError(errors.ARCHIVE_RAW_RECORDS.Code,
			errors.ARCHIVE_RAW_RECORDS.Message, "failed to insert raw records", err)
	}

	log.GetLogger().Info("Archived raw records",
		log.String("batchId", batchID),
		log.Int("records", len(records)))
	return nil
}

// CountBatchRecords returns how many raw records the archive holds for a
// batch.
func (a *RawArchive) CountBatchRecords(ctx context.Context, batchID string) (int64, error) {

	opCtx, cancel := context.WithTimeout(ctx, archiveOpTimeout)
	defer cancel()

	coll := a.client.Database(a.database).Collection(a.collection)
	count, err := coll.CountDocuments(opCtx, bson.M{"batch_id": batchID})
	if err != nil {
		return 0, errors.NewServerError(errors.ARCHIVE_RAW_RECORDS.Code,
			errors.ARCHIVE_RAW_RECORDS.Message, "failed to count raw records", err)
	}
	return count, nil
}

// Close disconnects from the archive.
func (a *RawArchive) Close(ctx context.Context) error {

	opCtx, cancel := context.WithTimeout(ctx, archiveOpTimeout)
	defer cancel()
	return a.client.Disconnect(opCtx)
}
