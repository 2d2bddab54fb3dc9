package downloader

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"xhs-downloader-go/internal/config"
	"xhs-downloader-go/internal/logger"
)

const (
	referer = "https://www.xiaohongshu.com/"

	copyBufferSize   = 64 * 1024
	progressInterval = 256 * 1024
)

// ProgressFunc receives cumulative downloaded bytes and the total from
// Content-Length, or -1 when the server did not send one.
type ProgressFunc func(downloaded, total int64)

// Downloader streams CDN assets to disk. Every request carries the
// xiaohongshu referer; the CDN rejects requests without it.
type Downloader struct {
	Client    *http.Client
	FinalDir  string
	TempDir   string
	UserAgent string
	Progress  ProgressFunc
}

func NewDownloader(cfg config.Config) *Downloader {
	connect := time.Duration(cfg.HttpConnectTimeoutSec) * time.Second
	if connect <= 0 {
		connect = 30 * time.Second
	}
	read := time.Duration(cfg.HttpReadTimeoutSec) * time.Second
	if read <= 0 {
		read = 60 * time.Second
	}
	return &Downloader{
		Client: &http.Client{
			Transport: &http.Transport{
				DialContext:           (&net.Dialer{Timeout: connect}).DialContext,
				ResponseHeaderTimeout: read,
				MaxIdleConns:          10,
				IdleConnTimeout:       5 * time.Minute,
			},
		},
		FinalDir:  ResolveSaveDir(cfg),
		TempDir:   filepath.Join(cfg.DataDir, "tmp"),
		UserAgent: cfg.UserAgent,
	}
}

// ResolveSaveDir picks the media directory: the configured one, then
// ~/Pictures/xhs if writable, then the app data directory.
func ResolveSaveDir(cfg config.Config) string {
	if cfg.SaveDir != "" {
		return cfg.SaveDir
	}
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, "Pictures", "xhs")
		if dirWritable(dir) {
			return dir
		}
	}
	return filepath.Join(cfg.DataDir, "xhs")
}

func dirWritable(dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false
	}
	probe := filepath.Join(dir, ".probe")
	f, err := os.Create(probe)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(probe)
	return true
}

// Download fetches url into the final media directory and returns the full
// path of the written file. The filename's extension is replaced by one
// derived from the response.
func (d *Downloader) Download(ctx context.Context, url, filename string) (string, error) {
	return d.fetch(ctx, url, filename, d.FinalDir)
}

// DownloadToTemp fetches url into the staging directory. Pair halves land
// here first so a failed assembly never leaves a half-pair in the output.
func (d *Downloader) DownloadToTemp(ctx context.Context, url, filename string) (string, error) {
	return d.fetch(ctx, url, filename, d.TempDir)
}

func (d *Downloader) fetch(ctx context.Context, url, filename, dir string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("url is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", d.UserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Referer", referer)

	resp, err := d.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	ext := resolveExtension(resp.Header.Get("Content-Type"), url)
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	path := filepath.Join(dir, base+"."+ext)

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if err := d.copyWithProgress(out, resp.Body, resp.ContentLength); err != nil {
		out.Close()
		os.Remove(path)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	logger.Debug("download complete", "url", url, "path", path)
	return path, nil
}

func (d *Downloader) copyWithProgress(dst io.Writer, src io.Reader, total int64) error {
	buf := make([]byte, copyBufferSize)
	var written int64
	var lastReport int64
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
			written += int64(n)
			if d.Progress != nil && written-lastReport >= progressInterval {
				lastReport = written
				d.Progress(written, total)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	if d.Progress != nil {
		d.Progress(written, total)
	}
	return nil
}
