// Package pipeline drives a full post download: link extraction, page fetch,
// state parsing, media downloads, and live photo assembly.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"xhs-downloader-go/internal/config"
	"xhs-downloader-go/internal/downloader"
	"xhs-downloader-go/internal/logger"
	"xhs-downloader-go/internal/motionphoto"
	"xhs-downloader-go/internal/store"
	"xhs-downloader-go/internal/xhs"
)

// PostResult is the outcome for one post URL.
type PostResult struct {
	PostID     string
	URL        string
	SavedPaths []string
	HasContent bool
	Errors     []error
}

// Outcome aggregates every post processed from one input text.
type Outcome struct {
	Posts        []PostResult
	Errors       []error
	FailureKinds map[string]int
}

type Pipeline struct {
	cfg    config.Config
	client *xhs.Client
	dl     *downloader.Downloader
	store  store.Store
	cb     Callbacks
}

func New(cfg config.Config, client *xhs.Client, dl *downloader.Downloader, st store.Store, cb Callbacks) *Pipeline {
	return &Pipeline{cfg: cfg, client: client, dl: dl, store: st, cb: cb}
}

// DownloadContent extracts every post URL from the input text and processes
// each in turn. Posts are independent; one failing never stops the rest.
func (p *Pipeline) DownloadContent(ctx context.Context, input string) Outcome {
	var out Outcome

	links := xhs.ExtractLinks(ctx, input, p.client)
	if len(links) == 0 {
		err := Error{Kind: ErrorKindResolution, Msg: "no valid URLs found in input"}
		out.Errors = append(out.Errors, err)
		out.FailureKinds = MergeFailureKinds(out.FailureKinds, map[string]int{string(ErrorKindResolution): 1})
		p.cb.downloadError("no valid URLs found in input", "")
		return out
	}

	for _, link := range links {
		post := p.processPost(ctx, link)
		out.Posts = append(out.Posts, post)
		out.Errors = append(out.Errors, post.Errors...)
		for _, err := range post.Errors {
			kind := KindOf(err)
			if kind == "" {
				kind = ErrorKindUnknown
			}
			out.FailureKinds = MergeFailureKinds(out.FailureKinds, map[string]int{string(kind): 1})
		}
	}
	return out
}

// mediaItem is one downloadable unit of the plan: a standalone file or a
// primary image with its paired live video.
type mediaItem struct {
	primary   xhs.MediaReference
	pairVideo *xhs.MediaReference
	ordinal   int
	pairIndex int
}

func (p *Pipeline) processPost(ctx context.Context, link string) PostResult {
	postID := xhs.ExtractPostID(link)
	if postID == "" {
		postID = "post"
	}
	post := PostResult{PostID: postID, URL: link}
	p.cb.progress("processing post " + postID)

	fail := func(kind ErrorKind, url string, err error, msg string) {
		e := Error{Kind: kind, PostID: postID, URL: url, Msg: msg, Err: err}
		post.Errors = append(post.Errors, e)
		p.cb.downloadError(e.Error(), url)
	}

	html, err := p.client.FetchPostHTML(ctx, link)
	if err != nil {
		fail(ErrorKindFetch, link, err, "")
		return post
	}

	parsed, err := xhs.ParsePostDetails(html)
	if err != nil {
		fail(ErrorKindParse, link, err, "")
		return post
	}
	if len(parsed.Media) == 0 {
		fail(ErrorKindEmptyResult, link, nil, "no media found in post")
		return post
	}
	post.HasContent = true

	if p.cb.OnDownloadProgressUpdate != nil {
		p.dl.Progress = p.cb.progressUpdate
	}

	// With live photos disabled every reference is its own plan item, pair
	// video included, so it gets an ordinal and pool slot like any other.
	plan := buildPlan(parsed.Media, p.cfg.CreateLivePhotos)

	var pairs []mediaItem
	var standalones []mediaItem
	for _, item := range plan {
		if item.pairVideo != nil {
			pairs = append(pairs, item)
		} else {
			standalones = append(standalones, item)
		}
	}

	// Pair halves share temp staging and an assembly step, so pairs run
	// serially; plain files go through the bounded pool.
	for _, item := range pairs {
		paths, err := p.processPair(ctx, postID, parsed, item)
		post.SavedPaths = append(post.SavedPaths, paths...)
		if err != nil {
			// The returned error names which half actually failed.
			failedURL := item.primary.URL
			var pe Error
			if errors.As(err, &pe) && pe.URL != "" {
				failedURL = pe.URL
			}
			fail(KindOf(err), parsed.Original(failedURL), err, "")
		}
	}

	type saved struct {
		path string
		err  error
		url  string
	}
	results := make([]saved, len(standalones))
	limit := p.cfg.MaxConcurrencyNum
	if len(standalones) <= 1 {
		limit = 1
	}
	ForEachLimit(ctx, standalones, limit, func(ctx context.Context, i int, item mediaItem) error {
		url := item.primary.URL
		path, err := p.download(ctx, postID, url, parsed.Original(url), fmt.Sprintf("%s_%d", postID, item.ordinal))
		results[i] = saved{path: path, err: err, url: url}
		return err
	})
	for _, r := range results {
		if r.err != nil {
			fail(ErrorKindDownload, parsed.Original(r.url), r.err, "")
			continue
		}
		post.SavedPaths = append(post.SavedPaths, r.path)
	}

	return post
}

// buildPlan walks the media list left to right and, when live photos are
// enabled, folds each pair video into the preceding primary image. Ordinals
// count plan items, pair indexes count pairs, both 1-based.
func buildPlan(media []xhs.MediaReference, pairLive bool) []mediaItem {
	var plan []mediaItem
	pairCount := 0
	for i := 0; i < len(media); i++ {
		item := mediaItem{primary: media[i], ordinal: len(plan) + 1}
		if pairLive && media[i].Role == xhs.RolePrimaryOfPair && i+1 < len(media) && media[i+1].Role == xhs.RoleVideoOfPair {
			pairCount++
			item.pairVideo = &media[i+1]
			item.pairIndex = pairCount
			i++
		}
		plan = append(plan, item)
	}
	return plan
}

// processPair stages both halves in the temp directory, assembles them into a
// single motion photo, and on assembly failure falls back to keeping both
// halves as ordinary files so nothing the CDN served is lost.
func (p *Pipeline) processPair(ctx context.Context, postID string, parsed xhs.ParseResult, item mediaItem) ([]string, error) {
	imgName := fmt.Sprintf("%s_img_%d", postID, item.pairIndex)
	vidName := fmt.Sprintf("%s_vid_%d", postID, item.pairIndex)

	imgPath, err := p.dl.DownloadToTemp(ctx, item.primary.URL, imgName)
	if err != nil {
		return nil, Error{Kind: ErrorKindDownload, PostID: postID, URL: item.primary.URL, Err: err}
	}
	vidPath, err := p.dl.DownloadToTemp(ctx, item.pairVideo.URL, vidName)
	if err != nil {
		// No partial public artifact: the staged image half goes away too.
		os.Remove(imgPath)
		return nil, Error{Kind: ErrorKindDownload, PostID: postID, URL: item.pairVideo.URL, Err: err}
	}

	outPath := filepath.Join(p.dl.FinalDir, fmt.Sprintf("%s_live_%d.jpg", postID, item.pairIndex))
	if err := motionphoto.Assemble(imgPath, vidPath, outPath); err != nil {
		logger.Warn("live photo assembly failed, downloading halves as plain files", "post_id", postID, "err", err)
		os.Remove(imgPath)
		os.Remove(vidPath)
		var paths []string
		for _, half := range []struct {
			url, name string
		}{{item.primary.URL, imgName}, {item.pairVideo.URL, vidName}} {
			final, dlErr := p.download(ctx, postID, half.url, parsed.Original(half.url), half.name)
			if dlErr != nil {
				continue
			}
			paths = append(paths, final)
		}
		return paths, Error{Kind: ErrorKindAssembly, PostID: postID, URL: item.primary.URL, Err: err}
	}

	os.Remove(imgPath)
	os.Remove(vidPath)
	p.record(ctx, postID, parsed.Original(item.primary.URL), outPath, "live_photo", true, "")
	p.cb.fileDownloaded(outPath)
	return []string{outPath}, nil
}

func (p *Pipeline) download(ctx context.Context, postID, url, origURL, filename string) (string, error) {
	path, err := p.dl.Download(ctx, url, filename)
	if err != nil {
		p.record(ctx, postID, origURL, "", "", false, err.Error())
		return "", err
	}
	p.record(ctx, postID, origURL, path, kindForPath(path), true, "")
	p.cb.fileDownloaded(path)
	return path, nil
}

func kindForPath(path string) string {
	switch filepath.Ext(path) {
	case ".mp4", ".mov":
		return "video"
	default:
		return "image"
	}
}

func (p *Pipeline) record(ctx context.Context, postID, url, savedPath, kind string, success bool, errMsg string) {
	if p.store == nil {
		return
	}
	rec := store.Record{
		PostID:         postID,
		OriginalURL:    url,
		SavedPath:      savedPath,
		Kind:           kind,
		Success:        success,
		Error:          errMsg,
		NamingTemplate: p.cfg.NamingTemplate,
		CreatedAt:      time.Now(),
	}
	if err := p.store.SaveDownload(ctx, rec); err != nil {
		logger.Warn("save download record failed", "err", err)
	}
}
