package figma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"
)

const testToken = "figd_test_token"

// newTestClient starts an upstream fake and returns a client pointed at it.
func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return New(testToken, WithBaseURL(ts.URL), WithUserAgent("figma-mcp-test"))
}

func TestGetFile_QueryAndHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/files/ABC123" {
			t.Errorf("path = %s, want /files/ABC123", r.URL.Path)
		}
		if got := r.Header.Get("X-Figma-Token"); got != testToken {
			t.Errorf("X-Figma-Token = %q, want %q", got, testToken)
		}
		if got := r.Header.Get("User-Agent"); got != "figma-mcp-test" {
			t.Errorf("User-Agent = %q", got)
		}
		if got := r.URL.Query().Get("ids"); got != "1:2,3:4" {
			t.Errorf("ids = %q, want 1:2,3:4", got)
		}
		if got := r.URL.Query().Get("depth"); got != "2" {
			t.Errorf("depth = %q, want 2", got)
		}
		fmt.Fprint(w, `{
			"name": "Design System",
			"lastModified": "2024-01-01T00:00:00Z",
			"version": "42",
			"document": {"id": "0:0", "name": "Document", "type": "DOCUMENT", "children": [
				{"id": "0:1", "name": "Page 1", "type": "CANVAS", "backgroundColor": {"r": 1, "g": 1, "b": 1, "a": 1}}
			]},
			"components": {"1:5": {"key": "abc", "name": "Button", "description": ""}},
			"styles": {"S:1": {"key": "s1", "name": "Primary", "description": "", "styleType": "FILL"}}
		}`)
	})

	f, err := c.GetFile(context.Background(), "ABC123", FileOptions{IDs: []string{"1:2", "3:4"}, Depth: 2})
	if err != nil {
		t.Fatalf("GetFile() error: %v", err)
	}
	if f.Name != "Design System" || f.Version != "42" {
		t.Fatalf("unexpected file header: %+v", f)
	}
	if f.Document == nil || len(f.Document.Children) != 1 {
		t.Fatalf("expected document with one page, got %+v", f.Document)
	}
	if !f.Document.Children[0].Has("backgroundColor") {
		t.Fatal("expected page to keep backgroundColor in Props")
	}
	if f.Components["1:5"].Name != "Button" {
		t.Fatalf("components not decoded: %+v", f.Components)
	}
	if f.Styles["S:1"].StyleType != "FILL" {
		t.Fatalf("styles not decoded: %+v", f.Styles)
	}
}

func TestGetFile_NoOptionsSendsNoQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("expected empty query, got %q", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"name": "f", "document": {"id": "0:0", "name": "Document", "type": "DOCUMENT"}}`)
	})
	if _, err := c.GetFile(context.Background(), "K", FileOptions{}); err != nil {
		t.Fatalf("GetFile() error: %v", err)
	}
}

func TestGetFileNodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/K/nodes" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("ids"); got != "1:2,9:9" {
			t.Errorf("ids = %q", got)
		}
		fmt.Fprint(w, `{"name": "f", "lastModified": "x", "nodes": {
			"1:2": {"document": {"id": "1:2", "name": "Card", "type": "FRAME"}},
			"9:9": null
		}}`)
	})
	res, err := c.GetFileNodes(context.Background(), "K", []string{"1:2", "9:9"})
	if err != nil {
		t.Fatalf("GetFileNodes() error: %v", err)
	}
	if res.Nodes["1:2"] == nil || res.Nodes["1:2"].Document.Name != "Card" {
		t.Fatalf("expected node 1:2, got %+v", res.Nodes["1:2"])
	}
	if entry, ok := res.Nodes["9:9"]; !ok || entry != nil {
		t.Fatalf("expected nil entry for missing node, got %+v (present=%v)", entry, ok)
	}
}

func TestGetImages(t *testing.T) {
	tests := []struct {
		name       string
		opts       ImageOptions
		wantScale  string
		wantFormat string
	}{
		{"defaults", ImageOptions{IDs: []string{"1:2"}}, "1", "png"},
		{"explicit", ImageOptions{IDs: []string{"1:2"}, Scale: 2.5, Format: "svg"}, "2.5", "svg"},
		{"small scale", ImageOptions{IDs: []string{"1:2"}, Scale: 0.01, Format: "pdf"}, "0.01", "pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/images/K" {
					t.Errorf("path = %s", r.URL.Path)
				}
				q := r.URL.Query()
				if q.Get("scale") != tt.wantScale || q.Get("format") != tt.wantFormat || q.Get("ids") != "1:2" {
					t.Errorf("query = %q", r.URL.RawQuery)
				}
				fmt.Fprint(w, `{"err": null, "images": {"1:2": "https://cdn.example/1.png"}}`)
			})
			res, err := c.GetImages(context.Background(), "K", tt.opts)
			if err != nil {
				t.Fatalf("GetImages() error: %v", err)
			}
			if u := res.Images["1:2"]; u == nil || *u != "https://cdn.example/1.png" {
				t.Fatalf("unexpected images: %+v", res.Images)
			}
		})
	}
}

func TestPostComment(t *testing.T) {
	tests := []struct {
		name     string
		nodeID   string
		wantMeta bool
	}{
		{"unanchored", "", false},
		{"anchored", "1:2", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				if r.Method != http.MethodPost || r.URL.Path != "/files/K/comments" {
					t.Errorf("got %s %s", r.Method, r.URL.Path)
				}
				if ct := r.Header.Get("Content-Type"); ct != "application/json" {
					t.Errorf("Content-Type = %q", ct)
				}
				var body map[string]any
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Errorf("decode body: %v", err)
					return
				}
				if body["message"] != "Looks good" {
					t.Errorf("message = %v", body["message"])
				}
				meta, hasMeta := body["client_meta"].(map[string]any)
				if hasMeta != tt.wantMeta {
					t.Errorf("client_meta present = %v, want %v", hasMeta, tt.wantMeta)
				}
				if hasMeta {
					if meta["node_id"] != tt.nodeID {
						t.Errorf("node_id = %v", meta["node_id"])
					}
					if _, ok := meta["node_offset"].(map[string]any); !ok {
						t.Errorf("expected node_offset, got %v", meta["node_offset"])
					}
				}
				fmt.Fprint(w, `{"id": "c1", "message": "Looks good", "created_at": "2024-01-01T00:00:00Z", "user": {"handle": "ana"}}`)
			})
			cm, err := c.PostComment(context.Background(), "K", "Looks good", tt.nodeID)
			if err != nil {
				t.Fatalf("PostComment() error: %v", err)
			}
			if cm.ID != "c1" || cm.User.Handle != "ana" {
				t.Fatalf("unexpected comment: %+v", cm)
			}
			if n := calls.Load(); n != 1 {
				t.Fatalf("expected exactly one request, got %d", n)
			}
		})
	}
}

func TestSimpleEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		wantPath string
		body     string
		call     func(c *Client) (any, error)
		check    func(t *testing.T, v any)
	}{
		{
			name:     "comments",
			wantPath: "/files/K/comments",
			body:     `{"comments": [{"id": "1", "message": "hi", "created_at": "t", "user": {"handle": "bo"}, "resolved_at": "t2", "client_meta": {"node_id": "1:2", "node_offset": {"x": 1, "y": 2}}}]}`,
			call:     func(c *Client) (any, error) { return c.GetComments(context.Background(), "K") },
			check: func(t *testing.T, v any) {
				res := v.(*CommentsResponse)
				if len(res.Comments) != 1 || res.Comments[0].ClientMeta == nil || res.Comments[0].ClientMeta.NodeID != "1:2" {
					t.Fatalf("unexpected comments: %+v", res.Comments)
				}
				if res.Comments[0].ResolvedAt == nil || *res.Comments[0].ResolvedAt != "t2" {
					t.Fatal("expected resolved_at")
				}
			},
		},
		{
			name:     "components",
			wantPath: "/files/K/components",
			body:     `{"status": 200, "error": false, "meta": {"components": [{"key": "k1", "file_key": "K", "node_id": "1:5", "name": "Button", "description": "primary"}]}}`,
			call:     func(c *Client) (any, error) { return c.GetComponents(context.Background(), "K") },
			check: func(t *testing.T, v any) {
				res := v.(*ComponentsResponse)
				if len(res.Meta.Components) != 1 || res.Meta.Components[0].Name != "Button" {
					t.Fatalf("unexpected components: %+v", res.Meta)
				}
			},
		},
		{
			name:     "styles",
			wantPath: "/files/K/styles",
			body:     `{"status": 200, "error": false, "meta": {"styles": [{"key": "s1", "file_key": "K", "node_id": "2:1", "style_type": "TEXT", "name": "H1", "description": ""}]}}`,
			call:     func(c *Client) (any, error) { return c.GetStyles(context.Background(), "K") },
			check: func(t *testing.T, v any) {
				res := v.(*StylesResponse)
				if len(res.Meta.Styles) != 1 || res.Meta.Styles[0].StyleType != "TEXT" {
					t.Fatalf("unexpected styles: %+v", res.Meta)
				}
			},
		},
		{
			name:     "team projects",
			wantPath: "/teams/T1/projects",
			body:     `{"name": "Team", "projects": [{"id": 123, "name": "Web"}, {"id": "456", "name": "iOS"}]}`,
			call:     func(c *Client) (any, error) { return c.GetTeamProjects(context.Background(), "T1") },
			check: func(t *testing.T, v any) {
				res := v.(*ProjectsResponse)
				if len(res.Projects) != 2 || res.Projects[0].ID != "123" || res.Projects[1].ID != "456" {
					t.Fatalf("unexpected projects: %+v", res.Projects)
				}
			},
		},
		{
			name:     "project files",
			wantPath: "/projects/P1/files",
			body:     `{"name": "Web", "files": [{"key": "F1", "name": "Landing", "last_modified": "t"}]}`,
			call:     func(c *Client) (any, error) { return c.GetProjectFiles(context.Background(), "P1") },
			check: func(t *testing.T, v any) {
				res := v.(*ProjectFilesResponse)
				if len(res.Files) != 1 || res.Files[0].Key != "F1" {
					t.Fatalf("unexpected files: %+v", res.Files)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != tt.wantPath {
					t.Errorf("got %s %s, want GET %s", r.Method, r.URL.Path, tt.wantPath)
				}
				if r.Header.Get("X-Figma-Token") != testToken {
					t.Error("missing access token header")
				}
				fmt.Fprint(w, tt.body)
			})
			v, err := tt.call(c)
			if err != nil {
				t.Fatalf("call error: %v", err)
			}
			tt.check(t, v)
		})
	}
}

func TestPathParametersAreEscaped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/files/a%2Fb/comments" {
			t.Errorf("escaped path = %s", r.URL.EscapedPath())
		}
		fmt.Fprint(w, `{"comments": []}`)
	})
	if _, err := c.GetComments(context.Background(), "a/b"); err != nil {
		t.Fatalf("GetComments() error: %v", err)
	}
}

func TestHTTPError(t *testing.T) {
	const body = `{"status":403,"err":"Invalid token"}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, body)
	})

	_, err := c.GetFile(context.Background(), "K", FileOptions{})
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.StatusCode != http.StatusForbidden || httpErr.Body != body {
		t.Fatalf("unexpected HTTPError: %+v", httpErr)
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), body) {
		t.Fatalf("error message should carry status and body, got: %s", err)
	}
}

func TestDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json at all!!!`)
	})

	_, err := c.GetStyles(context.Background(), "K")
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		t.Fatal("decode failure must not be reported as HTTPError")
	}
}

func TestMaxResponseBytes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"comments": [`+strings.Repeat(`{"id": "x"},`, 100)+`{"id": "y"}]}`)
	}))
	defer ts.Close()

	c := New(testToken, WithBaseURL(ts.URL), WithMaxResponseBytes(64))
	_, err := c.GetComments(context.Background(), "K")
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected truncated body to fail decoding, got %v", err)
	}
}

func TestTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := New(testToken, WithBaseURL(url))
	_, err := c.GetComments(context.Background(), "K")
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		t.Fatal("transport failure must not be reported as HTTPError")
	}
}

func TestConcurrentUse(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = io.Copy(io.Discard, r.Body)
		fmt.Fprintf(w, `{"name": %q, "files": []}`, r.URL.Path)
	})

	const n = 16
	names := make([]string, n)
	g, ctx := errgroup.WithContext(context.Background())
	for i := range n {
		g.Go(func() error {
			res, err := c.GetProjectFiles(ctx, fmt.Sprintf("P%d", i))
			if err != nil {
				return err
			}
			names[i] = res.Name
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent calls failed: %v", err)
	}
	for i, name := range names {
		if want := fmt.Sprintf("/projects/P%d/files", i); name != want {
			t.Fatalf("result %d = %q, want %q", i, name, want)
		}
	}
	if hits.Load() != n {
		t.Fatalf("expected %d requests, got %d", n, hits.Load())
	}
}
