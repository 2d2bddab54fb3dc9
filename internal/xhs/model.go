package xhs

import "strings"

type MediaKind int

const (
	KindImage MediaKind = iota
	KindVideo
)

type MediaRole int

const (
	RoleStandalone MediaRole = iota
	RolePrimaryOfPair
	RoleVideoOfPair
)

// MediaReference is one downloadable media URL in post order. Order is
// significant: a live-photo video always directly follows its image.
type MediaReference struct {
	URL  string
	Kind MediaKind
	Role MediaRole
}

// mediaPair keeps an image and its candidate motion video together during
// parsing, before flattening back into the ordered reference list.
type mediaPair struct {
	imageURL  string
	videoURL  string
	livePhoto bool
}

// ParseResult carries the ordered media list plus a mapping from each
// rewritten CDN URL back to the URL the page originally carried. The mapping
// is rebuilt per parse call so entries never leak across posts.
type ParseResult struct {
	Media       []MediaReference
	OriginalURL map[string]string
}

// Original returns the pre-rewrite URL for a transformed one, or the input
// itself when no mapping exists.
func (r ParseResult) Original(url string) string {
	if orig, ok := r.OriginalURL[url]; ok && orig != "" {
		return orig
	}
	return url
}

var videoURLMarkers = []string{
	".mp4", ".mov", ".avi", ".webm",
	"video", "masterUrl", "stream", "sns-video", "/spectrum/",
}

func IsVideoURL(url string) bool {
	if url == "" {
		return false
	}
	for _, m := range videoURLMarkers {
		if strings.Contains(url, m) {
			return true
		}
	}
	return false
}

// GuessExtension infers a file extension from URL substring markers,
// defaulting to jpg.
func GuessExtension(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, ".jpg"), strings.Contains(lower, ".jpeg"):
		return "jpg"
	case strings.Contains(lower, ".png"):
		return "png"
	case strings.Contains(lower, ".gif"):
		return "gif"
	case strings.Contains(lower, ".webp"):
		return "webp"
	case strings.Contains(lower, ".mp4"),
		strings.Contains(url, "video"),
		strings.Contains(url, "masterUrl"),
		strings.Contains(url, "stream"):
		return "mp4"
	case strings.Contains(url, "xhscdn.com"):
		if strings.Contains(url, "h264") {
			return "mp4"
		}
		return "jpg"
	}
	return "jpg"
}
