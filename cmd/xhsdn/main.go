package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"xhs-downloader-go/internal/cache"
	"xhs-downloader-go/internal/config"
	"xhs-downloader-go/internal/downloader"
	"xhs-downloader-go/internal/logger"
	"xhs-downloader-go/internal/pipeline"
	"xhs-downloader-go/internal/store"
	"xhs-downloader-go/internal/xhs"
)

func main() {
	configPath := flag.String("config", ".", "path to config file")
	flag.Parse()

	if err := config.LoadConfig(*configPath); err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.InitFromConfig()

	input := strings.Join(flag.Args(), " ")
	if strings.TrimSpace(input) == "" {
		fmt.Println("usage: xhsdn [-config dir] <share text or post urls>")
		os.Exit(2)
	}

	cfg := config.AppConfig

	c := cache.NewFromConfig(cfg)
	if c != nil {
		defer c.Close()
	}
	st, err := store.NewFromConfig(cfg)
	if err != nil {
		logger.Error("store init failed", "err", err)
		os.Exit(1)
	}
	defer st.Close()

	client := xhs.NewClient(cfg, c)
	dl := downloader.NewDownloader(cfg)

	cb := pipeline.Callbacks{
		OnDownloadProgress: func(status string) {
			logger.Info(status)
		},
		OnFileDownloaded: func(path string) {
			logger.Info("saved", "path", path)
		},
		OnDownloadError: func(message, originalURL string) {
			logger.Error("item failed", "err", message, "url", originalURL)
		},
	}

	p := pipeline.New(cfg, client, dl, st, cb)
	out := p.DownloadContent(context.Background(), input)

	saved := 0
	for _, post := range out.Posts {
		saved += len(post.SavedPaths)
	}
	if len(out.Errors) > 0 {
		logger.Error("finished with errors",
			"posts", len(out.Posts), "saved", saved,
			"failed", len(out.Errors), "failure_kinds", out.FailureKinds)
		os.Exit(1)
	}
	logger.Info("finished successfully", "posts", len(out.Posts), "saved", saved)
}
