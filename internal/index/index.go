// Package index maintains the SQLite embedding index at
// baseDir/index.db. This side only writes; retrieval belongs to the
// search subsystem reading the same file.
package index

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Entry is one indexed file embedding.
type Entry struct {
	Path        string
	Name        string
	ContentType string
	Summary     string
	Vector      []float32
	RunID       string
	Modified    time.Time
}

// Store wraps the embedding database.
type Store struct {
	db *sql.DB
}

// Open initializes the index database at baseDir/index.db.
// The baseDir parameter allows tests to use t.TempDir().
func Open(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	_ = os.Chmod(baseDir, 0700)

	dbPath := filepath.Join(baseDir, "index.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Put inserts or replaces the embedding entry for a file path.
func (s *Store) Put(e Entry) error {
	if len(e.Vector) == 0 {
		return fmt.Errorf("empty embedding vector for %s", e.Path)
	}

	var modified any
	if !e.Modified.IsZero() {
		modified = e.Modified.Unix()
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO file_embeddings
		(file_path, file_name, content_type, content_summary,
		 embedding, embedding_dim, run_id, file_modified, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Path, e.Name, e.ContentType, e.Summary,
		encodeVector(e.Vector), len(e.Vector), e.RunID, modified, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", e.Path, err)
	}
	return nil
}

// Count returns the number of indexed files.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM file_embeddings").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

// encodeVector packs float32 values little-endian, the layout the search
// subsystem decodes.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := getUserVersion(db)
	if err != nil {
		return err
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS file_embeddings (
		  file_path       TEXT PRIMARY KEY,
		  file_name       TEXT NOT NULL,
		  content_type    TEXT,
		  content_summary TEXT,
		  embedding       BLOB NOT NULL,
		  embedding_dim   INTEGER NOT NULL,
		  run_id          TEXT,
		  file_modified   INTEGER,
		  indexed_at      INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_embeddings_content_type
		ON file_embeddings(content_type);

		CREATE INDEX IF NOT EXISTS idx_embeddings_run_id
		ON file_embeddings(run_id)
		WHERE run_id IS NOT NULL;
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := setUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

func getUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

func setUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
