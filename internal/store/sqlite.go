package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS downloads (
	post_id TEXT NOT NULL,
	original_url TEXT NOT NULL,
	saved_path TEXT NOT NULL,
	kind TEXT NOT NULL,
	success INTEGER NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	naming_template TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);`

type SQLiteStore struct {
	sqlStore
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		p = "data/xhsdn.db"
	}
	if dir := filepath.Dir(p); dir != "" && dir != "." {
		_ = os.MkdirAll(dir, 0755)
	}
	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, stmt := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		sqliteSchema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &SQLiteStore{sqlStore{db: db, kind: backendSQLite}}, nil
}

func (s *SQLiteStore) SaveDownload(_ context.Context, rec Record) error {
	return s.saveDownload(rec)
}
