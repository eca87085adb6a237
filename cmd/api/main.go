package main

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"vet-dictation-go/internal/config"
	"vet-dictation-go/internal/export"
	"vet-dictation-go/internal/extract"
	"vet-dictation-go/internal/gemini"
	"vet-dictation-go/internal/ingest"
	"vet-dictation-go/internal/logger"
	"vet-dictation-go/internal/pipeline"
	"vet-dictation-go/internal/store"
	"vet-dictation-go/internal/summary"
	"vet-dictation-go/internal/types"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "vet-dictation-go").Info("starting service")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("credentials check failed")
	}

	st, closeStore := openStore(context.Background(), cfg, log)
	defer closeStore()

	remote := gemini.NewClient(cfg.GoogleAPIKey, cfg.Model,
		gemini.WithPolling(cfg.PollInterval, cfg.PollMaxWait))
	pipe := pipeline.New(extract.NewClient(remote), st, cfg.MaxAttempts, cfg.RetryDelay)

	mux := http.NewServeMux()

	// health
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		fmt.Fprint(w, "ok")
	})

	// process endpoint: multipart audio uploads in, per-file results out.
	// ?format=xlsx returns the run's records as a spreadsheet download.
	mux.HandleFunc("/process", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "process")
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseMultipartForm(256 << 20); err != nil {
			reqLog.WithError(err).Warn("bad multipart body")
			http.Error(w, "invalid multipart body", http.StatusBadRequest)
			return
		}
		uploads := r.MultipartForm.File["files"]
		if len(uploads) == 0 {
			reqLog.Warn("no files in request")
			http.Error(w, "no files uploaded; use multipart field 'files'", http.StatusBadRequest)
			return
		}
		reqLog.WithField("files", len(uploads)).Info("process request received")

		start := time.Now()
		var records []types.Record
		results := make([]pipeline.FileResult, 0, len(uploads))
		for _, fh := range uploads {
			if !ingest.IsAudioFile(fh.Filename) {
				reqLog.WithField("file", fh.Filename).Warn("unsupported audio format")
				results = append(results, pipeline.FileResult{
					Filename: fh.Filename,
					Status:   types.StatusFailed,
					Error:    "unsupported audio format",
				})
				continue
			}
			res := processUpload(r.Context(), pipe, fh, reqLog)
			if res.Record != nil {
				records = append(records, *res.Record)
			}
			results = append(results, res)
		}

		sum := summary.Summarize(results)
		reqLog.WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("persisted", sum.Persisted).
			WithField("failed", sum.Failed).
			Info("run finished")

		if r.URL.Query().Get("format") == "xlsx" {
			data, err := export.Bytes(records)
			if err != nil {
				reqLog.WithError(err).Error("export failed")
				http.Error(w, "export failed", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", xlsxContentType)
			w.Header().Set("Content-Disposition", `attachment; filename="veterinary_records.xlsx"`)
			if _, err := w.Write(data); err != nil {
				reqLog.WithError(err).Error("failed to write spreadsheet response")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{
			"summary": sum,
			"results": results,
		}); err != nil {
			reqLog.WithError(err).Error("failed to write response")
		}
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 30 * time.Minute, // files are processed synchronously inside the request
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", cfg.Addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

// processUpload copies one upload to a scoped temp file, runs the
// pipeline on it, and releases the copy on every exit path.
func processUpload(ctx context.Context, pipe *pipeline.Pipeline, fh *multipart.FileHeader, log *logrus.Entry) pipeline.FileResult {
	f, err := fh.Open()
	if err != nil {
		return pipeline.FileResult{Filename: fh.Filename, Status: types.StatusFailed, Error: err.Error()}
	}
	defer f.Close()

	tmp, err := ingest.SaveTemp(fh.Filename, f)
	if err != nil {
		log.WithError(err).WithField("file", fh.Filename).Error("temp copy failed")
		return pipeline.FileResult{Filename: fh.Filename, Status: types.StatusFailed, Error: err.Error()}
	}
	defer os.Remove(tmp)

	res := pipe.ProcessFile(ctx, tmp)
	res.Filename = fh.Filename
	return res
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
