package downloader

import (
	"strings"

	"xhs-downloader-go/internal/xhs"
)

// resolveExtension decides the file extension from the response Content-Type
// first, then from URL substring markers and the CDN host family.
func resolveExtension(contentType, url string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "image/jpeg"):
		return "jpg"
	case strings.Contains(ct, "image/png"):
		return "png"
	case strings.Contains(ct, "image/gif"):
		return "gif"
	case strings.Contains(ct, "image/webp"):
		return "webp"
	case strings.Contains(ct, "video/"):
		return "mp4"
	}
	return xhs.GuessExtension(url)
}
