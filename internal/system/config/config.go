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

package config

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
}

// DataSourceConfig holds the PostgreSQL connection settings for the
// normalized-entity store.
type DataSourceConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// RawArchiveConfig holds the MongoDB connection settings for the
// append-only raw record archive.
type RawArchiveConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// IngestionConfig holds tunables for the ingestion pipeline.
type IngestionConfig struct {
	// LowMessageCountThreshold triggers a LOW_MESSAGE_COUNT warning when a
	// parsed dataset holds fewer messages. Zero disables the warning.
	LowMessageCountThreshold int `yaml:"low_message_count_threshold"`
	// SchemaVersion is recorded in every captured schema snapshot.
	SchemaVersion string `yaml:"schema_version"`
}

type Config struct {
	Log        LogConfig        `yaml:"log"`
	DataSource DataSourceConfig `yaml:"datasource"`
	RawArchive RawArchiveConfig `yaml:"raw_archive"`
	Ingestion  IngestionConfig  `yaml:"ingestion"`
}
