// Package figmaurl extracts file keys and node ids from Figma share links.
package figmaurl

import (
	"net/url"
	"regexp"
)

// Ref identifies a file, and optionally a node inside it, referenced by a URL.
type Ref struct {
	FileKey string `json:"file_key"`
	NodeID  string `json:"node_id,omitempty"`
}

var (
	fileKeyRe  = regexp.MustCompile(`(?:^|/)(?:file|design)/([A-Za-z0-9]+)`)
	dashNodeRe = regexp.MustCompile(`^(\d+)-(\d+)$`)
)

// Parse returns the file key and node id encoded in a /file/<key> or
// /design/<key> URL. The second result is false for anything else.
func Parse(raw string) (Ref, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Ref{}, false
	}
	m := fileKeyRe.FindStringSubmatch(u.Path)
	if m == nil {
		return Ref{}, false
	}
	ref := Ref{FileKey: m[1]}
	if id := u.Query().Get("node-id"); id != "" {
		ref.NodeID = normalizeNodeID(id)
	}
	return ref, true
}

// normalizeNodeID converts the "12-34" form used by newer share links into
// the "12:34" form the REST API expects.
func normalizeNodeID(id string) string {
	if m := dashNodeRe.FindStringSubmatch(id); m != nil {
		return m[1] + ":" + m[2]
	}
	return id
}
