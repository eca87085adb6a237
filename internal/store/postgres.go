package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"vet-dictation-go/internal/types"
)

// Postgres writes records over a direct database connection. Used when a
// DSN is configured instead of the REST URL/key pair.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (s *Postgres) InsertRecord(ctx context.Context, rec types.Record) error {
	const q = `INSERT INTO ` + Table + `
		(patient_id, patient_name, patient_dose, notes_for_doctor, record_date)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := s.pool.Exec(ctx, q,
		rec.PatientID,
		rec.PatientName,
		rec.PatientDose,
		rec.NotesForDoctor,
		rec.RecordDate.String(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrPersist, err)
	}
	return nil
}

func (s *Postgres) Close() {
	s.pool.Close()
}
