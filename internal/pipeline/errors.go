package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

type ErrorKind string

const (
	ErrorKindUnknown     ErrorKind = "unknown"
	ErrorKindResolution  ErrorKind = "resolution"
	ErrorKindFetch       ErrorKind = "fetch"
	ErrorKindParse       ErrorKind = "parse"
	ErrorKindEmptyResult ErrorKind = "empty_result"
	ErrorKindDownload    ErrorKind = "download"
	ErrorKindAssembly    ErrorKind = "assembly"
	ErrorKindCanceled    ErrorKind = "canceled"
	ErrorKindTimeout     ErrorKind = "timeout"
)

// Error carries the post and URL a failure belongs to. URL is the original
// parsed URL, not the rewritten CDN one, so reports match what the page said.
type Error struct {
	Kind   ErrorKind
	PostID string
	URL    string
	Msg    string
	Err    error
}

func (e Error) Error() string {
	base := e.Msg
	if base == "" && e.Err != nil {
		base = e.Err.Error()
	}
	if base == "" {
		base = string(e.Kind)
	}
	if e.PostID != "" && e.URL != "" {
		return fmt.Sprintf("%s: %s (%s)", e.PostID, base, e.URL)
	}
	if e.PostID != "" {
		return fmt.Sprintf("%s: %s", e.PostID, base)
	}
	return base
}

func (e Error) Unwrap() error { return e.Err }

func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return ErrorKindCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindTimeout
	}
	var pe Error
	if errors.As(err, &pe) && pe.Kind != "" {
		return pe.Kind
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrorKindTimeout
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "bad status") || strings.Contains(msg, "status ") {
		return ErrorKindFetch
	}
	return ErrorKindUnknown
}

func MergeFailureKinds(dst map[string]int, src map[string]int) map[string]int {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]int, len(src))
	}
	for k, v := range src {
		dst[k] += v
	}
	return dst
}
