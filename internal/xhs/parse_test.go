package xhs

import (
	"strings"
	"testing"
)

func pageWithState(state string) string {
	return `<html><head><script>window.__INITIAL_STATE__=` + state + `</script></head><body></body></html>`
}

func TestParsePostDetailsImages(t *testing.T) {
	state := `{"note":{"noteDetailMap":{"abc123":{"note":{"type":"normal","imageList":[` +
		`{"urlDefault":"http://sns-webpic-qc.xhscdn.com/202401/aa/1040g1!nd_dft"},` +
		`{"traceId":"1040g2"}` +
		`]}}}}}`
	res, err := ParsePostDetails(pageWithState(state))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Media) != 2 {
		t.Fatalf("got %d media, want 2: %+v", len(res.Media), res.Media)
	}
	if res.Media[0].URL != "https://ci.xiaohongshu.com/1040g1" {
		t.Errorf("first url = %q", res.Media[0].URL)
	}
	if res.Media[1].URL != "https://sns-img-qc.xhscdn.com/1040g2" {
		t.Errorf("second url = %q", res.Media[1].URL)
	}
	for _, m := range res.Media {
		if m.Kind != KindImage || m.Role != RoleStandalone {
			t.Errorf("media %+v should be a standalone image", m)
		}
		if res.OriginalURL[m.URL] == "" {
			t.Errorf("no original url recorded for %q", m.URL)
		}
	}
}

func TestParsePostDetailsLivePhotoPair(t *testing.T) {
	state := `{"note":{"noteDetailMap":{"abc123":{"note":{"type":"normal","imageList":[` +
		`{"urlDefault":"http://sns-webpic-qc.xhscdn.com/202401/aa/1040g1!nd_dft",` +
		`"stream":{"h264":[{"masterUrl":"https://sns-video-bd.xhscdn.com/stream/110/live1"}]}},` +
		`{"urlDefault":"http://sns-webpic-qc.xhscdn.com/202401/aa/1040g2!nd_dft"}` +
		`]}}}}}`
	res, err := ParsePostDetails(pageWithState(state))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Media) != 3 {
		t.Fatalf("got %d media, want 3: %+v", len(res.Media), res.Media)
	}
	if res.Media[0].Role != RolePrimaryOfPair || res.Media[0].Kind != KindImage {
		t.Errorf("first entry should be the pair image: %+v", res.Media[0])
	}
	if res.Media[1].Role != RoleVideoOfPair || res.Media[1].Kind != KindVideo {
		t.Errorf("second entry should be the pair video: %+v", res.Media[1])
	}
	if res.Media[1].URL != "https://sns-video-bd.xhscdn.com/stream/110/live1" {
		t.Errorf("pair video url = %q", res.Media[1].URL)
	}
	if res.Media[2].Role != RoleStandalone {
		t.Errorf("third entry should be standalone: %+v", res.Media[2])
	}
}

func TestParsePostDetailsVideoNote(t *testing.T) {
	state := `{"note":{"noteDetailMap":{"abc123":{"note":{"type":"video",` +
		`"video":{"consumer":{"originVideoKey":"stream/110/abcxyz"}},` +
		`"imageList":[{"urlDefault":"http://sns-webpic-qc.xhscdn.com/202401/aa/cover1!nd_dft"}]` +
		`}}}}}`
	res, err := ParsePostDetails(pageWithState(state))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var video *MediaReference
	for i := range res.Media {
		if res.Media[i].Kind == KindVideo {
			video = &res.Media[i]
		}
	}
	if video == nil {
		t.Fatal("no video in result")
	}
	if video.URL != "https://sns-video-bd.xhscdn.com/stream/110/abcxyz" {
		t.Errorf("video url = %q", video.URL)
	}
}

func TestParsePostDetailsStreamFallback(t *testing.T) {
	cases := []struct {
		name string
		h264 string
		want string
	}{
		{"object with masterUrl", `[{"masterUrl":"https://sns-video-bd.xhscdn.com/stream/110/m1"}]`, "https://sns-video-bd.xhscdn.com/stream/110/m1"},
		{"object with url only", `[{"url":"https://sns-video-bd.xhscdn.com/stream/110/u1"}]`, "https://sns-video-bd.xhscdn.com/stream/110/u1"},
		{"bare string entry", `["https://sns-video-bd.xhscdn.com/stream/110/s1"]`, "https://sns-video-bd.xhscdn.com/stream/110/s1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := `{"note":{"noteDetailMap":{"abc123":{"note":{"type":"video",` +
				`"video":{"media":{"stream":{"h264":` + tc.h264 + `}}}}}}}}`
			res, err := ParsePostDetails(pageWithState(state))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if len(res.Media) != 1 || res.Media[0].URL != tc.want {
				t.Fatalf("got %+v, want single video %q", res.Media, tc.want)
			}
		})
	}
}

func TestParsePostDetailsJSLiteralState(t *testing.T) {
	// Unquoted keys and undefined values only decode through the JS path.
	state := `{note:{noteDetailMap:{abc123:{note:{type:"normal",extra:undefined,imageList:[` +
		`{urlDefault:"http://sns-webpic-qc.xhscdn.com/202401/aa/1040g1!nd_dft"}` +
		`]}}}}}`
	res, err := ParsePostDetails(pageWithState(state))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Media) != 1 || res.Media[0].URL != "https://ci.xiaohongshu.com/1040g1" {
		t.Fatalf("got %+v", res.Media)
	}
}

func TestParsePostDetailsHTMLFallback(t *testing.T) {
	page := `<html><body>` +
		`<img src="https://sns-img-qc.xhscdn.com/fallback1">` +
		`<a href="https://sns-video-bd.xhscdn.com/clip.mp4">video</a>` +
		`<img src="https://other.example.com/photo.jpg">` +
		`<img src="https://other.example.com/page">` +
		`</body></html>`
	res, err := ParsePostDetails(page)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// Off-CDN URLs with a media extension count; extensionless ones do not.
	if len(res.Media) != 3 {
		t.Fatalf("got %d media, want 3: %+v", len(res.Media), res.Media)
	}
	if res.Media[0].URL != "https://sns-img-qc.xhscdn.com/fallback1" {
		t.Errorf("first url = %q", res.Media[0].URL)
	}
	if res.Media[1].URL != "https://other.example.com/photo.jpg" || res.Media[1].Kind != KindImage {
		t.Errorf("second entry should be the off-CDN jpg: %+v", res.Media[1])
	}
	if res.Media[2].Kind != KindVideo || !strings.Contains(res.Media[2].URL, "clip.mp4") {
		t.Errorf("third entry should be the mp4 link: %+v", res.Media[2])
	}
}

func TestParsePostDetailsEmptyPage(t *testing.T) {
	res, err := ParsePostDetails("<html><body>nothing here</body></html>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Media) != 0 {
		t.Fatalf("expected no media, got %+v", res.Media)
	}
}
