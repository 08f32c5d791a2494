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

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/heartscope/dating-data-service/internal/ingestion/model"
	"github.com/heartscope/dating-data-service/internal/ingestion/service"
	"github.com/heartscope/dating-data-service/internal/ingestion/store"
	"github.com/heartscope/dating-data-service/internal/system/config"
	"github.com/heartscope/dating-data-service/internal/system/log"
	"github.com/joho/godotenv"
)

const configFilePath = "repository/conf/deployment.yaml"

func main() {

	platformFlag := flag.String("platform", "", "platform of the export (tinder or hinge)")
	dirFlag := flag.String("dir", "", "directory holding the extracted export files")
	homeFlag := flag.String("home", ".", "service home directory")
	outFlag := flag.String("out", "", "optional path to write the parse result JSON to")
	dryRun := flag.Bool("dry-run", false, "parse and validate only, skip persistence")
	strict := flag.Bool("strict", false, "refuse to persist when any critical issue was recorded, even if a subset of files parsed")
	flag.Parse()

	if *platformFlag == "" || *dirFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: ingest -platform <tinder|hinge> -dir <export-dir> [-home <dir>] [-out <file>] [-dry-run]")
		os.Exit(2)
	}

	// Load environment variables from any .env files in the working
	// directory before the configuration is expanded.
	if envFiles, err := filepath.Glob("*.env"); err == nil && len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load .env files: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := config.LoadConfig(*homeFlag, configFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := config.InitializeRuntime(*homeFlag, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize runtime: %v\n", err)
		os.Exit(1)
	}
	if err := log.Init(cfg.Log.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.GetLogger()

	platform, err := model.ParsePlatform(strings.ToLower(*platformFlag))
	if err != nil {
		logger.Fatal("Unsupported platform", log.String("platform", *platformFlag))
	}

	files, err := collectFiles(*dirFlag)
	if err != nil {
		logger.Fatal("Failed to read export directory", log.Error(err))
	}
	logger.Info("Loaded export files",
		log.String("platform", string(platform)),
		log.Int("files", len(files)),
		log.Bool("dryRun", *dryRun))

	result := service.NewIngestionService().ParseExtractedFiles(files, platform)
	reportIssues(logger, result)

	if *outFlag != "" {
		if err := writeResult(*outFlag, result); err != nil {
			logger.Fatal("Failed to write result file", log.Error(err))
		}
	}

	if !result.Success {
		logger.Error("Ingestion failed, nothing persisted")
		os.Exit(1)
	}
	// A partially successful multi-file parse keeps critical sub-errors
	// alongside Success=true; strict mode refuses such batches.
	if *strict && result.HasCritical() {
		logger.Error("Critical issues recorded in strict mode, nothing persisted")
		os.Exit(1)
	}

	if *dryRun {
		logger.Info("Dry run, skipping persistence")
		return
	}

	persist(logger, result)
}

// collectFiles walks the export directory and loads every regular file.
func collectFiles(dir string) ([]model.ExtractedFile, error) {

	var files []model.ExtractedFile
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files = append(files, model.ExtractedFile{
			Filename:  d.Name(),
			Content:   string(content),
			Extension: strings.TrimPrefix(filepath.Ext(path), "."),
			Size:      int64(len(content)),
		})
		return nil
	})
	return files, err
}

func reportIssues(logger *log.Logger, result model.ParseResult) {

	for _, issue := range result.Errors {
		logger.Error("Parse error",
			log.String("code", issue.Code),
			log.String("severity", string(issue.Severity)),
			log.String("detail", issue.Error()))
	}
	for _, issue := range result.Warnings {
		logger.Warn("Parse warning",
			log.String("code", issue.Code),
			log.String("detail", issue.Error()))
	}
}

func writeResult(path string, result model.ParseResult) error {

	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}

// persist writes the normalized batch to PostgreSQL and the raw records
// to the MongoDB archive. The archive write is best-effort after the
// batch commit; its failure is reported but does not roll the batch
// back.
func persist(logger *log.Logger, result model.ParseResult) {

	batchID, err := store.NewBatchStore().SaveBatch(result)
	if err != nil {
		logger.Fatal("Failed to persist batch", log.Error(err))
	}

	ctx := context.Background()
	archive, err := store.NewRawArchive(ctx)
	if err != nil {
		logger.Error("Failed to connect to raw archive", log.Error(err))
		return
	}
	defer func() {
		if err := archive.Close(ctx); err != nil {
			logger.Warn("Failed to close raw archive", log.Error(err))
		}
	}()

	if err := archive.ArchiveRecords(ctx, batchID, result.Data.RawRecords); err != nil {
		logger.Error("Failed to archive raw records", log.Error(err))
		return
	}

	archived, err := archive.CountBatchRecords(ctx, batchID)
	if err != nil {
		logger.Warn("Failed to count archived records", log.Error(err))
	}

	logger.Info("Ingestion persisted",
		log.String("batchId", batchID),
		log.Int("archivedRecords", int(archived)))
}
