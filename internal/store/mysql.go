package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const mysqlSchema = `CREATE TABLE IF NOT EXISTS downloads (
	post_id VARCHAR(191) NOT NULL,
	original_url TEXT NOT NULL,
	saved_path TEXT NOT NULL,
	kind VARCHAR(32) NOT NULL,
	success TINYINT NOT NULL,
	error TEXT NOT NULL,
	naming_template VARCHAR(191) NOT NULL DEFAULT '',
	created_at BIGINT NOT NULL,
	KEY idx_downloads_post (post_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

type MySQLStore struct {
	sqlStore
}

func NewMySQLStore(dsn string) (*MySQLStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("MYSQL_DSN is empty")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	setDBPoolDefaults(db, 8)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if _, err := db.Exec(mysqlSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql init schema: %w", err)
	}
	return &MySQLStore{sqlStore{db: db, kind: backendMySQL}}, nil
}

func (s *MySQLStore) SaveDownload(_ context.Context, rec Record) error {
	return s.saveDownload(rec)
}
