package config

import "testing"

func TestNormalizeDefaults(t *testing.T) {
	cfg := Config{
		StoreBackend:      " SQLite ",
		CacheBackend:      "Redis",
		SaveDir:           "  /tmp/out  ",
		MaxConcurrencyNum: 0,
	}
	Normalize(&cfg)

	if cfg.StoreBackend != "sqlite" {
		t.Fatalf("StoreBackend = %q, want sqlite", cfg.StoreBackend)
	}
	if cfg.CacheBackend != "redis" {
		t.Fatalf("CacheBackend = %q, want redis", cfg.CacheBackend)
	}
	if cfg.SaveDir != "/tmp/out" {
		t.Fatalf("SaveDir = %q, want /tmp/out", cfg.SaveDir)
	}
	if cfg.MaxConcurrencyNum != 1 {
		t.Fatalf("MaxConcurrencyNum = %d, want 1", cfg.MaxConcurrencyNum)
	}
	if cfg.UserAgent == "" {
		t.Fatalf("expected user agent default")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := LoadConfig(dir); err != nil {
		t.Fatalf("LoadConfig err: %v", err)
	}
	if !AppConfig.CreateLivePhotos {
		t.Fatalf("CREATE_LIVE_PHOTOS should default to true")
	}
	if AppConfig.MaxConcurrencyNum != 4 {
		t.Fatalf("MAX_CONCURRENCY_NUM = %d, want 4", AppConfig.MaxConcurrencyNum)
	}
	if AppConfig.HttpReadTimeoutSec != 60 {
		t.Fatalf("HTTP_READ_TIMEOUT_SEC = %d, want 60", AppConfig.HttpReadTimeoutSec)
	}
	if AppConfig.StoreBackend != "file" {
		t.Fatalf("STORE_BACKEND = %q, want file", AppConfig.StoreBackend)
	}
}
