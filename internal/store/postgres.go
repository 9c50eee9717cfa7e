package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"quizsolver/internal/question"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	// Use advisory lock to prevent concurrent migrations when the solver
	// service and worker start together.
	// Note: In production, use dedicated migration tools (e.g., golang-migrate/migrate)
	// that run as a separate deployment step before app services start.
	const lockID = 427130915 // arbitrary number for this application's migration lock

	var acquired bool
	err := s.db.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, lockID).Scan(&acquired)
	if err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}

	if !acquired {
		// Another service is running migrations; wait briefly and skip
		time.Sleep(2 * time.Second)
		return nil
	}

	defer func() {
		_, _ = s.db.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockID)
	}()

	_, err = s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS solve_records (
		id UUID PRIMARY KEY,
		question TEXT,
		shape TEXT,
		answer TEXT,
		confidence DOUBLE PRECISION,
		models TEXT[],
		failed_models TEXT[],
		solved BOOLEAN,
		latency_ms BIGINT,
		created_at TIMESTAMPTZ DEFAULT now()
	);`)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS solve_records_created_idx
		ON solve_records (created_at DESC)
	`)
	return err
}

func (s *PostgresStore) SaveRecord(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO solve_records
			(id, question, shape, answer, confidence, models, failed_models, solved, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.Question, string(rec.Shape), rec.Answer, rec.Confidence,
		pq.Array(rec.Models), pq.Array(rec.FailedModels), rec.Solved, rec.LatencyMS, rec.CreatedAt,
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert solve record: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) GetRecord(ctx context.Context, id uuid.UUID) (Record, error) {
	var (
		rec   Record
		shape string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, question, shape, answer, confidence, models, failed_models, solved, latency_ms, created_at
		FROM solve_records WHERE id = $1`, id,
	).Scan(
		&rec.ID, &rec.Question, &shape, &rec.Answer, &rec.Confidence,
		pq.Array(&rec.Models), pq.Array(&rec.FailedModels), &rec.Solved, &rec.LatencyMS, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, err
	}
	rec.Shape = question.Shape(shape)
	return rec, nil
}

func (s *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE solved),
			COUNT(*) FILTER (WHERE NOT solved),
			COALESCE(AVG(confidence) FILTER (WHERE solved), 0)
		FROM solve_records`,
	).Scan(&st.Solved, &st.Failed, &st.AvgConfidence)
	if err != nil {
		return Stats{}, err
	}
	return st, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
