package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"repolens/internal/errors"
	"repolens/internal/insights"
	"repolens/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS analysis_cache (
	key        TEXT PRIMARY KEY,
	value_json TEXT NOT NULL,
	expires_at TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

// SQLiteStore persists analysis results in a SQLite database so results
// survive process restarts. All failures carry the CACHE_FAILED code.
type SQLiteStore struct {
	conn   *sql.DB
	ttl    time.Duration
	logger *logging.Logger
}

// OpenSQLite opens or creates the cache database at dbPath.
func OpenSQLite(dbPath string, ttl time.Duration, logger *logging.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.New(errors.CacheFailed, "cannot create cache directory", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.New(errors.CacheFailed, "cannot open cache database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, errors.Newf(errors.CacheFailed, err, "cannot set pragma %q", pragma)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, errors.New(errors.CacheFailed, "cannot initialize cache schema", err)
	}

	return &SQLiteStore{conn: conn, ttl: ttl, logger: logger}, nil
}

// Put stores an analysis under key, replacing any previous entry.
func (s *SQLiteStore) Put(ctx context.Context, key string, analysis *insights.RepositoryAnalysis) error {
	data, err := json.Marshal(analysis)
	if err != nil {
		return errors.New(errors.CacheFailed, "cannot encode analysis", err)
	}

	now := time.Now()
	_, err = s.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO analysis_cache (key, value_json, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`, key, string(data), now.Add(s.ttl).Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return errors.Newf(errors.CacheFailed, err, "cannot store analysis for %s", key)
	}
	return nil
}

// Get returns the cached analysis for key, or found=false when absent or
// expired. Expired rows are deleted on access.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*insights.RepositoryAnalysis, bool, error) {
	var valueJSON, expiresAt string
	err := s.conn.QueryRowContext(ctx, `
		SELECT value_json, expires_at FROM analysis_cache WHERE key = ?
	`, key).Scan(&valueJSON, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Newf(errors.CacheFailed, err, "cache lookup failed for %s", key)
	}

	expires, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return nil, false, errors.New(errors.CacheFailed, "invalid expires_at value", err)
	}
	if time.Now().After(expires) {
		if _, err := s.conn.ExecContext(ctx, "DELETE FROM analysis_cache WHERE key = ?", key); err != nil {
			s.logger.Warn("failed to evict expired entry", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return nil, false, nil
	}

	var analysis insights.RepositoryAnalysis
	if err := json.Unmarshal([]byte(valueJSON), &analysis); err != nil {
		return nil, false, errors.New(errors.CacheFailed, "cannot decode cached analysis", err)
	}
	return &analysis, true, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}
