// Package main is the entry point of the portal scraper.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"scheme-qa-go/internal/config"
	"scheme-qa-go/internal/document"
	"scheme-qa-go/internal/scraper"
	"scheme-qa-go/pkg/kafka"
	"scheme-qa-go/pkg/log"
	"scheme-qa-go/pkg/storage"
	"scheme-qa-go/pkg/tasks"
)

func main() {
	configPath := flag.String("config", "./configs/config.yaml", "path to config file")
	startURL := flag.String("url", "", "listing page URL (overrides config)")
	maxPages := flag.Int("max-pages", 0, "page ceiling (overrides config)")
	outPath := flag.String("out", "", "output CSV path (overrides config)")
	flag.Parse()

	config.Init(*configPath)
	cfg := config.Conf

	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()

	if *startURL != "" {
		cfg.Scraper.StartURL = *startURL
	}
	if *maxPages > 0 {
		cfg.Scraper.MaxPages = *maxPages
	}
	if *outPath != "" {
		cfg.Scraper.OutputPath = *outPath
	}

	ctx := context.Background()
	records, err := scraper.New(cfg.Scraper).Run(ctx)
	if err != nil {
		log.Fatalf("crawl failed: %v", err)
	}
	if len(records) == 0 {
		log.Fatalf("crawl yielded no records, leaving existing table untouched")
	}

	if err := document.WriteTable(cfg.Scraper.OutputPath, records); err != nil {
		log.Fatalf("failed to write table: %v", err)
	}
	log.Infof("wrote %d records to %s", len(records), cfg.Scraper.OutputPath)

	objectName := ""
	if cfg.Scraper.UploadSnapshot {
		objectName = uploadSnapshot(ctx, cfg, cfg.Scraper.OutputPath)
	}

	if cfg.Scraper.NotifyIngest {
		kafka.InitProducer(cfg.Kafka)
		task := tasks.IngestTask{ObjectName: objectName, TablePath: cfg.Scraper.OutputPath}
		if err := kafka.ProduceIngestTask(task); err != nil {
			log.Errorf("failed to publish ingest task: %v", err)
		} else {
			log.Info("ingest task published")
		}
	}
}

// uploadSnapshot stores a timestamped copy of the table in the object store
// and returns the object name, or "" on failure.
func uploadSnapshot(ctx context.Context, cfg config.Config, path string) string {
	storage.InitMinIO(cfg.MinIO)

	f, err := os.Open(path)
	if err != nil {
		log.Errorf("failed to open table for upload: %v", err)
		return ""
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		log.Errorf("failed to stat table for upload: %v", err)
		return ""
	}

	objectName := snapshotObjectName(path, time.Now())
	if err := storage.UploadObject(ctx, cfg.MinIO.BucketName, objectName, f, info.Size()); err != nil {
		log.Errorf("failed to upload table snapshot: %v", err)
		return ""
	}
	log.Infof("uploaded table snapshot as %s", objectName)
	return objectName
}

// snapshotObjectName derives a timestamped object name from the table path.
func snapshotObjectName(path string, now time.Time) string {
	return now.UTC().Format("20060102T150405Z") + "_" + filepath.Base(path)
}
