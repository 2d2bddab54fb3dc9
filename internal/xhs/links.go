package xhs

import (
	"context"
	"regexp"
	"strings"
)

// URL shapes accepted from pasted share text. A token either matches one of
// these or is discarded.
var (
	shortLinkRe   = regexp.MustCompile("(?:https?://)?xhslink\\.com/[^\\s\"<>\\\\^`{|}，。；！？、【】《》]+")
	shareLinkRe   = regexp.MustCompile(`https?://(?:www\.)?xiaohongshu\.com/discovery/item/[a-zA-Z0-9_\-]+[^\s"<>«»„"]*`)
	exploreLinkRe = regexp.MustCompile(`https?://(?:www\.)?xiaohongshu\.com/explore/[a-zA-Z0-9_\-]+[^\s"<>«»„"]*`)
	userLinkRe    = regexp.MustCompile(`https?://(?:www\.)?xiaohongshu\.com/user/profile/[a-z0-9]+/\S+`)

	postIDRe     = regexp.MustCompile(`(?:explore|item)/([a-zA-Z0-9_\-]+)/?(?:\?|$)`)
	userPostIDRe = regexp.MustCompile(`user/profile/[a-z0-9]+/([a-zA-Z0-9_\-]+)/?(?:\?|$)`)
)

// ExtractLinks splits free-form share text on whitespace and keeps every
// token matching a known post URL shape. Short xhslink.com links are resolved
// through resolver; if resolution fails the short link itself is kept, so a
// later fetch still gets a chance at the redirect.
func ExtractLinks(ctx context.Context, text string, resolver *Client) []string {
	var links []string
	for _, token := range strings.Fields(text) {
		switch {
		case shortLinkRe.MatchString(token):
			short := shortLinkRe.FindString(token)
			if resolver != nil {
				if resolved, err := resolver.ResolveShortLink(ctx, short); err == nil && resolved != "" {
					links = append(links, resolved)
					continue
				}
			}
			links = append(links, short)
		case shareLinkRe.MatchString(token):
			links = append(links, shareLinkRe.FindString(token))
		case exploreLinkRe.MatchString(token):
			links = append(links, exploreLinkRe.FindString(token))
		case userLinkRe.MatchString(token):
			links = append(links, userLinkRe.FindString(token))
		}
	}
	return links
}

// ExtractPostID pulls the note id out of a resolved post URL. For xhslink.com
// URLs that never redirected, the id is taken from the path segments, skipping
// a trailing single-letter "o" marker some share links carry.
func ExtractPostID(url string) string {
	if m := postIDRe.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	if m := userPostIDRe.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	if strings.Contains(url, "xhslink.com") {
		trimmed := url
		if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
			trimmed = trimmed[:i]
		}
		parts := strings.Split(strings.Trim(trimmed, "/"), "/")
		for i := len(parts) - 1; i >= 0; i-- {
			if parts[i] == "" || parts[i] == "o" {
				continue
			}
			return parts[i]
		}
	}
	return ""
}
