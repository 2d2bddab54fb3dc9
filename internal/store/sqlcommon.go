package store

import (
	"database/sql"
	"fmt"
	"strings"
)

type backendKind string

const (
	backendFile     backendKind = "file"
	backendSQLite   backendKind = "sqlite"
	backendMySQL    backendKind = "mysql"
	backendPostgres backendKind = "postgres"
	backendMongoDB  backendKind = "mongodb"
	backendXLSX     backendKind = "xlsx"
)

func kindFor(backend string) backendKind {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "sqlite":
		return backendSQLite
	case "mysql":
		return backendMySQL
	case "postgres", "postgresql":
		return backendPostgres
	case "mongodb", "mongo":
		return backendMongoDB
	case "xlsx":
		return backendXLSX
	default:
		return backendFile
	}
}

func placeholder(k backendKind, idx int) string {
	if k == backendPostgres {
		return fmt.Sprintf("$%d", idx)
	}
	return "?"
}

func insertDownloadSQL(k backendKind) string {
	cols := []string{"post_id", "original_url", "saved_path", "kind", "success", "error", "naming_template", "created_at"}
	marks := make([]string, len(cols))
	for i := range cols {
		marks[i] = placeholder(k, i+1)
	}
	return fmt.Sprintf("INSERT INTO downloads(%s) VALUES(%s);",
		strings.Join(cols, ", "), strings.Join(marks, ", "))
}

func setDBPoolDefaults(db *sql.DB, maxOpen int) {
	if db == nil {
		return
	}
	if maxOpen <= 0 {
		maxOpen = 4
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(0)
}

type sqlStore struct {
	db   *sql.DB
	kind backendKind
}

func (s *sqlStore) saveDownload(rec Record) error {
	success := 0
	if rec.Success {
		success = 1
	}
	_, err := s.db.Exec(insertDownloadSQL(s.kind),
		rec.PostID, rec.OriginalURL, rec.SavedPath, rec.Kind,
		success, rec.Error, rec.NamingTemplate, rec.CreatedAt.Unix())
	return err
}

func (s *sqlStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
