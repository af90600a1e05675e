package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const stateFileName = "state.sqlite"

// Store is the local state directory (normally the config dir). It holds the
// SQLite database that keeps session cookies between runs.
type Store struct {
	Dir string
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o700)
}

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), stateFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// A running TUI and CLI invocations share the file; WAL + busy_timeout keep them from
	// tripping over "database is locked".
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS cookies (
			origin TEXT NOT NULL,
			name TEXT NOT NULL,
			path TEXT NOT NULL,
			domain TEXT NOT NULL,
			value TEXT NOT NULL,
			expires_unix INTEGER NOT NULL,
			secure INTEGER NOT NULL,
			http_only INTEGER NOT NULL,
			same_site INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL,
			PRIMARY KEY (origin, name, path)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cookies_origin ON cookies(origin);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	_, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO meta(k, v) VALUES('schema_version', '1')`)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// normalizeOrigin reduces a URL string to scheme://host so cookies are keyed per backend.
func normalizeOrigin(origin string) string {
	origin = strings.TrimSpace(origin)
	if i := strings.Index(origin, "://"); i >= 0 {
		rest := origin[i+3:]
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			rest = rest[:j]
		}
		return strings.ToLower(origin[:i+3] + rest)
	}
	return strings.ToLower(strings.TrimRight(origin, "/"))
}
