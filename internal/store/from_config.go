package store

import (
	"path/filepath"

	"xhs-downloader-go/internal/config"
)

// NewFromConfig builds the manifest store the config asks for. The file
// backend is the default and never fails.
func NewFromConfig(cfg config.Config) (Store, error) {
	dir := filepath.Join(cfg.DataDir, "manifest")
	switch kindFor(cfg.StoreBackend) {
	case backendSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	case backendMySQL:
		return NewMySQLStore(cfg.MySQLDSN)
	case backendPostgres:
		return NewPostgresStore(cfg.PostgresDSN)
	case backendMongoDB:
		return NewMongoStore(cfg.MongoURI, cfg.MongoDB)
	case backendXLSX:
		return NewXLSXStore(dir), nil
	default:
		return NewFileStore(dir), nil
	}
}
