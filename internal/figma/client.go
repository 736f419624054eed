// Package figma is a thin client for the Figma REST API.
package figma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public REST endpoint.
const DefaultBaseURL = "https://api.figma.com/v1"

// DefaultMaxResponseBytes caps how much of a response body is read.
const DefaultMaxResponseBytes = 256 << 20

// Default image export settings.
const (
	DefaultImageScale  = 1.0
	DefaultImageFormat = "png"
)

// Client issues authenticated requests. It holds no mutable state after
// construction and may be shared between goroutines.
type Client struct {
	token     string
	baseURL   string
	userAgent string
	maxBody   int64
	http      *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithMaxResponseBytes caps response body reads. Non-positive values keep the default.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// New creates a client authenticated with a personal access token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		maxBody: DefaultMaxResponseBytes,
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FileOptions narrows a GetFile request.
type FileOptions struct {
	IDs   []string
	Depth int
}

// ImageOptions configures an image export. Zero values select
// DefaultImageScale and DefaultImageFormat.
type ImageOptions struct {
	IDs    []string
	Scale  float64
	Format string
}

// GetFile fetches a file's document tree.
func (c *Client) GetFile(ctx context.Context, fileKey string, opts FileOptions) (*File, error) {
	q := url.Values{}
	if len(opts.IDs) > 0 {
		q.Set("ids", strings.Join(opts.IDs, ","))
	}
	if opts.Depth > 0 {
		q.Set("depth", strconv.Itoa(opts.Depth))
	}
	var out File
	if err := c.do(ctx, http.MethodGet, "/files/"+url.PathEscape(fileKey), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFileNodes fetches the subtrees rooted at the given node ids.
func (c *Client) GetFileNodes(ctx context.Context, fileKey string, ids []string) (*NodesResponse, error) {
	q := url.Values{"ids": {strings.Join(ids, ",")}}
	var out NodesResponse
	if err := c.do(ctx, http.MethodGet, "/files/"+url.PathEscape(fileKey)+"/nodes", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetImages renders nodes and returns download URLs keyed by node id.
func (c *Client) GetImages(ctx context.Context, fileKey string, opts ImageOptions) (*ImagesResponse, error) {
	scale := opts.Scale
	if scale == 0 {
		scale = DefaultImageScale
	}
	format := opts.Format
	if format == "" {
		format = DefaultImageFormat
	}
	q := url.Values{
		"ids":    {strings.Join(opts.IDs, ",")},
		"scale":  {strconv.FormatFloat(scale, 'f', -1, 64)},
		"format": {format},
	}
	var out ImagesResponse
	if err := c.do(ctx, http.MethodGet, "/images/"+url.PathEscape(fileKey), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetComments lists a file's comments.
func (c *Client) GetComments(ctx context.Context, fileKey string) (*CommentsResponse, error) {
	var out CommentsResponse
	if err := c.do(ctx, http.MethodGet, "/files/"+url.PathEscape(fileKey)+"/comments", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type postCommentBody struct {
	Message    string      `json:"message"`
	ClientMeta *ClientMeta `json:"client_meta,omitempty"`
}

// PostComment adds a comment, anchored to nodeID when it is non-empty.
// The request is sent once and never retried.
func (c *Client) PostComment(ctx context.Context, fileKey, message, nodeID string) (*Comment, error) {
	body := postCommentBody{Message: message}
	if nodeID != "" {
		body.ClientMeta = &ClientMeta{NodeID: nodeID, NodeOffset: &Vector{}}
	}
	var out Comment
	if err := c.do(ctx, http.MethodPost, "/files/"+url.PathEscape(fileKey)+"/comments", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetComponents lists the published components of a file.
func (c *Client) GetComponents(ctx context.Context, fileKey string) (*ComponentsResponse, error) {
	var out ComponentsResponse
	if err := c.do(ctx, http.MethodGet, "/files/"+url.PathEscape(fileKey)+"/components", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStyles lists the published styles of a file.
func (c *Client) GetStyles(ctx context.Context, fileKey string) (*StylesResponse, error) {
	var out StylesResponse
	if err := c.do(ctx, http.MethodGet, "/files/"+url.PathEscape(fileKey)+"/styles", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTeamProjects lists the projects of a team.
func (c *Client) GetTeamProjects(ctx context.Context, teamID string) (*ProjectsResponse, error) {
	var out ProjectsResponse
	if err := c.do(ctx, http.MethodGet, "/teams/"+url.PathEscape(teamID)+"/projects", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProjectFiles lists the files of a project.
func (c *Client) GetProjectFiles(ctx context.Context, projectID string) (*ProjectFilesResponse, error) {
	var out ProjectFilesResponse
	if err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(projectID)+"/files", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends one request and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader = http.NoBody
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Figma-Token", c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("figma api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return fmt.Errorf("figma api %s %s: read body: %w", method, path, err)
	}
	slog.Debug("figma.request", "method", method, "path", path, "status", resp.StatusCode,
		"bytes", len(data), "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(data)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	return nil
}
