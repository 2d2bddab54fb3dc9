package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS downloads (
	post_id TEXT NOT NULL,
	original_url TEXT NOT NULL,
	saved_path TEXT NOT NULL,
	kind TEXT NOT NULL,
	success INTEGER NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	naming_template TEXT NOT NULL DEFAULT '',
	created_at BIGINT NOT NULL
);`

type PostgresStore struct {
	sqlStore
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("POSTGRES_DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	setDBPoolDefaults(db, 8)

	if _, err := db.Exec(postgresSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres init schema: %w", err)
	}
	return &PostgresStore{sqlStore{db: db, kind: backendPostgres}}, nil
}

func (s *PostgresStore) SaveDownload(_ context.Context, rec Record) error {
	return s.saveDownload(rec)
}
