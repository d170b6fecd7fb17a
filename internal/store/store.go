// Package store persists completed translations and job history in SQLite.
//
// Store satisfies cache.Cache, so it can back the translation client's
// memoization across process restarts.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/valpere/doctran/internal"
	"github.com/valpere/doctran/internal/cache"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS translation_cache (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		target_language TEXT NOT NULL,
		instructions TEXT NOT NULL,
		model TEXT NOT NULL,
		translated_text TEXT NOT NULL,
		usage_count INTEGER DEFAULT 1,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- jobs keeps one summary row per text or document job
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		filename TEXT,
		format TEXT,
		target_language TEXT NOT NULL,
		model TEXT NOT NULL,
		status TEXT NOT NULL,
		total_chunks INTEGER DEFAULT 0,
		failed_chunks TEXT,
		dropped_segments INTEGER DEFAULT 0,
		result_text TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_cache_last_used ON translation_cache(last_used);
	CREATE INDEX IF NOT EXISTS idx_jobs_created ON jobs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Get returns a cached translation and bumps its usage counter.
func (s *Store) Get(ctx context.Context, key cache.Key) (string, bool, error) {
	id := key.Hash()

	var translated string
	err := s.db.QueryRowContext(ctx,
		`SELECT translated_text FROM translation_cache WHERE id = ?`, id).Scan(&translated)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE translation_cache SET usage_count = usage_count + 1, last_used = ? WHERE id = ?`,
		time.Now(), id)

	return translated, true, err
}

// Put stores a translation, replacing any previous entry for the same key.
func (s *Store) Put(ctx context.Context, key cache.Key, translated string) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO translation_cache (id, source_text, target_language, instructions, model, translated_text, usage_count, last_used, created_at) VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		key.Hash(), key.Text, key.TargetLanguage, key.Instructions, key.Model, translated, now, now)
	return err
}

// Entries returns all cached translations ordered by most recently used.
func (s *Store) Entries(ctx context.Context) ([]cache.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_text, target_language, instructions, model, translated_text, usage_count, last_used FROM translation_cache ORDER BY last_used DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []cache.Entry
	for rows.Next() {
		var e cache.Entry
		if err := rows.Scan(&e.ID, &e.Key.Text, &e.Key.TargetLanguage, &e.Key.Instructions, &e.Key.Model, &e.Translated, &e.UsageCount, &e.LastUsed); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Stats returns summary statistics for the translation cache.
func (s *Store) Stats(ctx context.Context) (*cache.Stats, error) {
	stats := &cache.Stats{}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(usage_count), 0) FROM translation_cache`).Scan(
		&stats.Entries,
		&stats.TotalUsage,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Delete permanently removes a cached translation by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM translation_cache WHERE id = ?`, id)
	return err
}

// Clear removes all cached translations.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM translation_cache`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SaveJob records (or updates) a job summary.
func (s *Store) SaveJob(ctx context.Context, job internal.JobRecord) error {
	if job.Timestamp.IsZero() {
		job.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO jobs (id, kind, filename, format, target_language, model, status, total_chunks, failed_chunks, dropped_segments, result_text, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Kind, job.Filename, job.Format, job.TargetLanguage, job.Model, job.Status,
		job.TotalChunks, joinPositions(job.FailedChunks), job.DroppedSegments, job.ResultText, job.Timestamp)
	return err
}

// ListJobs returns the most recent jobs first. limit ≤ 0 returns all.
func (s *Store) ListJobs(ctx context.Context, limit int) ([]internal.JobRecord, error) {
	query := `SELECT id, kind, COALESCE(filename, ''), COALESCE(format, ''), target_language, model, status, total_chunks, COALESCE(failed_chunks, ''), dropped_segments, COALESCE(result_text, ''), created_at FROM jobs ORDER BY created_at DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []internal.JobRecord
	for rows.Next() {
		var (
			j      internal.JobRecord
			failed string
		)
		if err := rows.Scan(&j.ID, &j.Kind, &j.Filename, &j.Format, &j.TargetLanguage, &j.Model, &j.Status, &j.TotalChunks, &failed, &j.DroppedSegments, &j.ResultText, &j.Timestamp); err != nil {
			return nil, err
		}
		j.FailedChunks = splitPositions(failed)
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func joinPositions(p []int) string {
	parts := make([]string, len(p))
	for i, n := range p {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func splitPositions(s string) []int {
	if s == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		if n, err := strconv.Atoi(part); err == nil {
			out = append(out, n)
		}
	}
	return out
}
