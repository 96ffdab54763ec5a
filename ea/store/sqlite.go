package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps checkpoints in a SQLite database file.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", s.path, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping sqlite %s: %w", s.path, err)
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("create tables: %w", err)
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveCheckpoint(ctx context.Context, run string, generation int, payload []byte) (Record, error) {
	if err := validateKey(run, generation); err != nil {
		return Record{}, err
	}
	db, err := s.getDB()
	if err != nil {
		return Record{}, err
	}

	record := Record{
		ID:         uuid.NewString(),
		Run:        run,
		Generation: generation,
		Size:       int64(len(payload)),
		CreatedAt:  time.Now().UTC(),
	}
	if payload == nil {
		payload = []byte{}
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO checkpoints (id, run, generation, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run, generation) DO UPDATE SET
			id = excluded.id,
			payload = excluded.payload,
			created_at = excluded.created_at
	`, record.ID, run, generation, payload, record.CreatedAt.UnixNano())
	if err != nil {
		return Record{}, fmt.Errorf("save checkpoint %s/%d: %w", run, generation, err)
	}
	return record, nil
}

func (s *SQLiteStore) LoadCheckpoint(ctx context.Context, run string, generation int) ([]byte, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx,
		`SELECT payload FROM checkpoints WHERE run = ? AND generation = ?`,
		run, generation,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load checkpoint %s/%d: %w", run, generation, err)
	}
	return payload, true, nil
}

func (s *SQLiteStore) LatestCheckpoint(ctx context.Context, run string) (Record, []byte, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Record{}, nil, false, err
	}

	var (
		record    = Record{Run: run}
		payload   []byte
		createdAt int64
	)
	err = db.QueryRowContext(ctx, `
		SELECT id, generation, payload, created_at FROM checkpoints
		WHERE run = ?
		ORDER BY generation DESC
		LIMIT 1
	`, run).Scan(&record.ID, &record.Generation, &payload, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, nil, false, nil
		}
		return Record{}, nil, false, fmt.Errorf("latest checkpoint %s: %w", run, err)
	}
	record.Size = int64(len(payload))
	record.CreatedAt = time.Unix(0, createdAt).UTC()
	return record, payload, true, nil
}

func (s *SQLiteStore) ListCheckpoints(ctx context.Context, run string) ([]Record, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, generation, length(payload), created_at FROM checkpoints
		WHERE run = ?
		ORDER BY generation ASC
	`, run)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints %s: %w", run, err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		record := Record{Run: run}
		var createdAt int64
		if err := rows.Scan(&record.ID, &record.Generation, &record.Size, &createdAt); err != nil {
			return nil, fmt.Errorf("scan checkpoint %s: %w", run, err)
		}
		record.CreatedAt = time.Unix(0, createdAt).UTC()
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list checkpoints %s: %w", run, err)
	}
	return records, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS checkpoints (
			id TEXT NOT NULL UNIQUE,
			run TEXT NOT NULL,
			generation INTEGER NOT NULL,
			payload BLOB NOT NULL,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (run, generation)
		);
	`)
	return err
}
