package xhs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"xhs-downloader-go/internal/config"
)

func TestExtractLinksShapes(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "explore link with surrounding chatter",
			text: "看看这个 https://www.xiaohongshu.com/explore/6437abc123?xsec_token=AB 很不错",
			want: []string{"https://www.xiaohongshu.com/explore/6437abc123?xsec_token=AB"},
		},
		{
			name: "discovery item link",
			text: "https://www.xiaohongshu.com/discovery/item/64f0a1b2c3d4e5f6a7b8c9d0?source=webshare",
			want: []string{"https://www.xiaohongshu.com/discovery/item/64f0a1b2c3d4e5f6a7b8c9d0?source=webshare"},
		},
		{
			name: "user profile post link",
			text: "https://www.xiaohongshu.com/user/profile/5ff0e0d0/6437abc123",
			want: []string{"https://www.xiaohongshu.com/user/profile/5ff0e0d0/6437abc123"},
		},
		{
			name: "multiple links in one blob",
			text: "https://www.xiaohongshu.com/explore/aaa111 and https://www.xiaohongshu.com/explore/bbb222",
			want: []string{"https://www.xiaohongshu.com/explore/aaa111", "https://www.xiaohongshu.com/explore/bbb222"},
		},
		{
			name: "no links",
			text: "just some text without any urls",
			want: nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractLinks(context.Background(), tc.text, nil)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("link %d: got %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestExtractLinksResolvesShortLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/final" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Redirect(w, r, "/final", http.StatusFound)
	}))
	defer srv.Close()

	cfg := config.Config{UserAgent: "test", HttpConnectTimeoutSec: 5, HttpReadTimeoutSec: 5}
	client := NewClient(cfg, nil)

	resolved, err := client.ResolveShortLink(context.Background(), srv.URL+"/AbCdEf")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved != srv.URL+"/final" {
		t.Errorf("resolved = %q, want %q", resolved, srv.URL+"/final")
	}
}

func TestExtractLinksKeepsShortLinkOnFailure(t *testing.T) {
	text := "快来看 http://xhslink.com/a/AbCdEf 吧"
	got := ExtractLinks(context.Background(), text, nil)
	if len(got) != 1 || got[0] != "http://xhslink.com/a/AbCdEf" {
		t.Fatalf("got %v, want the raw short link", got)
	}
}

func TestExtractPostID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.xiaohongshu.com/explore/6437abc123?xsec_token=AB", "6437abc123"},
		{"https://www.xiaohongshu.com/explore/6437abc123", "6437abc123"},
		{"https://www.xiaohongshu.com/discovery/item/64f0a1b2c3d4", "64f0a1b2c3d4"},
		{"https://www.xiaohongshu.com/user/profile/5ff0e0d0/6437abc123?src=share", "6437abc123"},
		{"http://xhslink.com/a/AbCdEf", "AbCdEf"},
		{"http://xhslink.com/a/AbCdEf/o", "AbCdEf"},
		{"https://example.com/nothing/here", ""},
	}
	for _, tc := range cases {
		if got := ExtractPostID(tc.url); got != tc.want {
			t.Errorf("ExtractPostID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
