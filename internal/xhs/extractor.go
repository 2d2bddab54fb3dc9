package xhs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dop251/goja"
)

const stateMarker = "window.__INITIAL_STATE__="

// extractStateDocument locates the embedded state blob: from the marker up
// to the closing script tag, then everything after the first '='.
func extractStateDocument(html string) (string, error) {
	idx := strings.Index(html, stateMarker)
	if idx == -1 {
		return "", fmt.Errorf("state marker not found")
	}
	seg := html[idx:]
	if end := strings.Index(seg, "</script>"); end != -1 {
		seg = seg[:end]
	}
	eq := strings.IndexByte(seg, '=')
	if eq == -1 {
		return "", fmt.Errorf("state assignment not found")
	}
	doc := strings.TrimSpace(seg[eq+1:])
	doc = strings.TrimRight(doc, "; \t\r\n")
	if doc == "" {
		return "", fmt.Errorf("empty state document")
	}
	return doc, nil
}

// decodeState parses the state document. The blob is JavaScript, not
// strictly JSON: it may contain bare undefined values or unquoted keys.
// Strict JSON (with undefined normalized to null) is tried first; failing
// that the blob is evaluated as a JS object literal.
func decodeState(doc string) (map[string]interface{}, error) {
	raw := strings.ReplaceAll(doc, ":undefined", ":null")
	raw = strings.ReplaceAll(raw, "undefined", "null")

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var out map[string]interface{}
	if err := dec.Decode(&out); err == nil {
		return out, nil
	}

	return decodeStateJS(doc)
}

func decodeStateJS(doc string) (map[string]interface{}, error) {
	rt := goja.New()
	val, err := rt.RunString("(" + doc + ")")
	if err != nil {
		return nil, fmt.Errorf("evaluate state blob: %w", err)
	}
	out, ok := val.Export().(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("state blob is not an object")
	}
	return out, nil
}
