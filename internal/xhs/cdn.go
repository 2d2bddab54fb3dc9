package xhs

import "strings"

const stableImageHost = "https://ci.xiaohongshu.com/"

// TransformCDNURL rewrites a thumbnail-pipeline image URL like
//
//	http://sns-webpic-qc.xhscdn.com/202404121854/a7e6.../<token>!nd_dft_wlteh_webp_3
//
// into the stable full-resolution form https://ci.xiaohongshu.com/<token>.
// Video URLs are never rewritten. Idempotent: the stable host is not an
// xhscdn.com URL, so a second pass is a no-op.
func TransformCDNURL(url string) string {
	if !strings.Contains(url, "xhscdn.com") {
		return url
	}
	if strings.Contains(url, "video") || strings.Contains(url, "sns-video") {
		return url
	}

	parts := strings.Split(url, "/")
	if len(parts) <= 5 {
		return url
	}
	token := strings.Join(parts[5:], "/")
	// Strip the size/format suffix after "!" or "?"
	if i := strings.IndexAny(token, "!?"); i != -1 {
		token = token[:i]
	}
	if token == "" {
		return url
	}
	return stableImageHost + token
}
