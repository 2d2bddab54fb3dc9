package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer s.Close()

	rec := Record{
		PostID:      "abc123",
		OriginalURL: "https://sns-img-qc.xhscdn.com/token",
		SavedPath:   "/tmp/abc123_1.jpg",
		Kind:        "image",
		Success:     true,
		CreatedAt:   time.Now(),
	}
	if err := s.SaveDownload(context.Background(), rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	var count int
	var postID string
	row := s.db.QueryRow(`SELECT COUNT(*), MAX(post_id) FROM downloads;`)
	if err := row.Scan(&count, &postID); err != nil {
		t.Fatalf("query: %v", err)
	}
	if count != 1 || postID != "abc123" {
		t.Errorf("count=%d post_id=%q", count, postID)
	}
}
