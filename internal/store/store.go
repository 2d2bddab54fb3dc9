// Package store persists a manifest record for every downloaded artifact.
package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Record is one manifest row: what was downloaded, where it landed, and
// whether it worked.
type Record struct {
	PostID         string    `json:"post_id"`
	OriginalURL    string    `json:"original_url"`
	SavedPath      string    `json:"saved_path"`
	Kind           string    `json:"kind"`
	Success        bool      `json:"success"`
	Error          string    `json:"error,omitempty"`
	NamingTemplate string    `json:"naming_template,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type Store interface {
	SaveDownload(ctx context.Context, rec Record) error
	Close() error
}

// FileStore appends records as JSON lines, one file per day.
type FileStore struct {
	Dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) SaveDownload(_ context.Context, rec Record) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(s.Dir, "downloads_"+time.Now().Format("2006-01-02")+".jsonl")

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewEncoder(file).Encode(rec)
}

func (s *FileStore) Close() error { return nil }
