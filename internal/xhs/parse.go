package xhs

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

const (
	videoKeyHost   = "https://sns-video-bd.xhscdn.com/"
	imageTraceHost = "https://sns-img-qc.xhscdn.com/"
)

// ParsePostDetails extracts every downloadable media URL from a post page.
// The structured path decodes window.__INITIAL_STATE__ and walks the note
// detail map; only when that yields nothing does the raw HTML get scanned for
// media URLs. Image URLs are rewritten to the stable CDN host, and the result
// keeps a mapping back to each pre-rewrite URL for error reporting.
func ParsePostDetails(pageHTML string) (ParseResult, error) {
	result := ParseResult{OriginalURL: map[string]string{}}

	// A broken or missing state blob is not fatal; the HTML scan below
	// still gets its chance.
	pairs, videos, _ := parseInitialState(pageHTML)

	var raw []MediaReference
	for _, p := range pairs {
		if p.livePhoto && p.videoURL != "" {
			raw = append(raw,
				MediaReference{URL: p.imageURL, Kind: KindImage, Role: RolePrimaryOfPair},
				MediaReference{URL: p.videoURL, Kind: KindVideo, Role: RoleVideoOfPair})
			continue
		}
		raw = append(raw, MediaReference{URL: p.imageURL, Kind: KindImage, Role: RoleStandalone})
	}
	for _, v := range videos {
		raw = append(raw, MediaReference{URL: v, Kind: KindVideo, Role: RoleStandalone})
	}

	if len(raw) == 0 {
		for _, u := range scanHTMLForMedia(pageHTML) {
			kind := KindImage
			if IsVideoURL(u) {
				kind = KindVideo
			}
			raw = append(raw, MediaReference{URL: u, Kind: kind, Role: RoleStandalone})
		}
	}

	seen := map[string]bool{}
	for _, ref := range raw {
		final := ref.URL
		if ref.Kind == KindImage {
			final = TransformCDNURL(ref.URL)
		}
		if seen[final] && ref.Role == RoleStandalone {
			continue
		}
		seen[final] = true
		result.OriginalURL[final] = ref.URL
		ref.URL = final
		result.Media = append(result.Media, ref)
	}
	return result, nil
}

// parseInitialState returns image entries (with any paired live video) in
// gallery order, plus post-level videos. A page without the state blob is not
// an error; callers treat an empty result as "no media".
func parseInitialState(pageHTML string) ([]mediaPair, []string, error) {
	doc, err := extractStateDocument(pageHTML)
	if err != nil {
		return nil, nil, nil
	}
	state, err := decodeState(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("decode initial state: %w", err)
	}

	detailMap := asMap(lookup(state, "note", "noteDetailMap"))
	if detailMap == nil {
		return nil, nil, nil
	}
	keys := make([]string, 0, len(detailMap))
	for k := range detailMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs []mediaPair
	var videos []string
	seenVideo := map[string]bool{}
	for _, key := range keys {
		note := asMap(lookup(asMap(detailMap[key]), "note"))
		if note == nil {
			continue
		}

		if vkey := asString(lookup(note, "video", "consumer", "originVideoKey")); vkey != "" {
			u := videoKeyHost + vkey
			if !seenVideo[u] {
				seenVideo[u] = true
				videos = append(videos, u)
			}
		} else {
			for _, entry := range asSlice(lookup(note, "video", "media", "stream", "h264")) {
				u := streamURL(entry)
				if u != "" && !seenVideo[u] {
					seenVideo[u] = true
					videos = append(videos, u)
				}
			}
		}

		for _, item := range asSlice(note["imageList"]) {
			img := asMap(item)
			if img == nil {
				continue
			}
			u := asString(img["urlDefault"])
			if u == "" {
				if trace := asString(img["traceId"]); trace != "" {
					u = imageTraceHost + trace
				}
			}
			if u == "" {
				continue
			}
			p := mediaPair{imageURL: u}
			if h264 := asSlice(lookup(img, "stream", "h264")); len(h264) > 0 {
				if v := streamURL(h264[0]); v != "" {
					p.videoURL = v
					p.livePhoto = true
				}
			}
			pairs = append(pairs, p)
		}
	}
	return pairs, videos, nil
}

// streamURL handles the two shapes a h264 stream entry takes: a bare URL
// string, or an object carrying masterUrl and/or url.
func streamURL(entry interface{}) string {
	if s := asString(entry); s != "" {
		return s
	}
	m := asMap(entry)
	if m == nil {
		return ""
	}
	if u := asString(m["masterUrl"]); u != "" {
		return u
	}
	return asString(m["url"])
}

var bareMediaURLRe = regexp.MustCompile(`https?://[^\s"'<>]+\.(?:jpg|jpeg|png|gif|webp|mp4|mov)[^\s"'<>]*`)

// scanHTMLForMedia is the last-resort path for pages without a usable state
// blob. It collects <img src> values via the tokenizer plus any bare URL with
// a media extension, keeping anything that looks like media by host or suffix.
func scanHTMLForMedia(pageHTML string) []string {
	var urls []string
	seen := map[string]bool{}
	add := func(u string) {
		if u != "" && !seen[u] && isPlausibleMediaURL(u) {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	tok := html.NewTokenizer(strings.NewReader(pageHTML))
	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := tok.TagName()
		if string(name) != "img" || !hasAttr {
			continue
		}
		for {
			k, v, more := tok.TagAttr()
			if string(k) == "src" {
				add(string(v))
			}
			if !more {
				break
			}
		}
	}

	for _, m := range bareMediaURLRe.FindAllString(pageHTML, -1) {
		add(m)
	}
	return urls
}

var mediaExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".mp4", ".mov"}

func isPlausibleMediaURL(u string) bool {
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return false
	}
	if strings.Contains(u, "xhscdn.com") || strings.Contains(u, "xiaohongshu.com") {
		return true
	}
	trimmed := u
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	for _, ext := range mediaExtensions {
		if strings.HasSuffix(strings.ToLower(trimmed), ext) {
			return true
		}
	}
	return false
}

func lookup(m map[string]interface{}, path ...string) interface{} {
	var cur interface{} = m
	for _, key := range path {
		mm := asMap(cur)
		if mm == nil {
			return nil
		}
		cur = mm[key]
	}
	return cur
}

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func asSlice(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}
