package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"vet-dictation-go/internal/config"
	"vet-dictation-go/internal/export"
	"vet-dictation-go/internal/extract"
	"vet-dictation-go/internal/gemini"
	"vet-dictation-go/internal/ingest"
	"vet-dictation-go/internal/logger"
	"vet-dictation-go/internal/pipeline"
	"vet-dictation-go/internal/store"
	"vet-dictation-go/internal/summary"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "vet-dictation-batch").Info("starting batch run")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("credentials check failed")
	}

	created, err := ingest.EnsureDir(cfg.AudioDir)
	if err != nil {
		log.WithError(err).Fatal("audio directory unavailable")
	}
	if created {
		log.WithField("dir", cfg.AudioDir).Info("created audio directory; place dictation files there and rerun")
		return
	}

	files, err := ingest.ListAudioFiles(cfg.AudioDir)
	if err != nil {
		log.WithError(err).Fatal("listing audio files failed")
	}
	if len(files) == 0 {
		log.WithField("dir", cfg.AudioDir).Warn("no audio files found; nothing to do")
		return
	}
	log.WithField("files", len(files)).Info("audio files found")

	ctx := context.Background()

	st, closeStore := openStore(ctx, cfg, log)
	defer closeStore()

	remote := gemini.NewClient(cfg.GoogleAPIKey, cfg.Model,
		gemini.WithPolling(cfg.PollInterval, cfg.PollMaxWait))
	pipe := pipeline.New(extract.NewClient(remote), st, cfg.MaxAttempts, cfg.RetryDelay)

	records, results := pipe.ProcessAll(ctx, files)
	sum := summary.Summarize(results)

	if len(records) == 0 {
		log.Warn("no data was successfully extracted from any audio file")
		return
	}

	if err := export.WriteFile(cfg.OutputFile, records); err != nil {
		log.WithError(err).WithField("path", cfg.OutputFile).Fatal("saving spreadsheet failed")
	}
	log.WithField("path", cfg.OutputFile).WithField("rows", len(records)).Info("spreadsheet saved")

	log.WithField("total", sum.Total).
		WithField("persisted", sum.Persisted).
		WithField("persist_failed", sum.PersistFailed).
		WithField("failed", sum.Failed).
		Info("run complete")

	fmt.Println("\n--- IMPORTANT: PLEASE VERIFY ALL DATA ---")
	fmt.Println("AI is a tool to assist, not replace, professional diligence.")
	fmt.Println("Always double-check the extracted dosages and patient information against the source audio.")
}

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (store.RecordStore, func()) {
	if cfg.SupabaseDSN != "" {
		pg, err := store.NewPostgres(ctx, cfg.SupabaseDSN)
		if err != nil {
			log.WithError(err).Fatal("database connection failed")
		}
		log.Info("using direct postgres sink")
		return pg, pg.Close
	}
	return store.NewREST(cfg.SupabaseURL, cfg.SupabaseKey), func() {}
}
