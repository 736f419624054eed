package tools

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/DeusData/figma-mcp/internal/figma"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// API is the subset of the Figma client the tools call.
type API interface {
	GetFile(ctx context.Context, fileKey string, opts figma.FileOptions) (*figma.File, error)
	GetFileNodes(ctx context.Context, fileKey string, ids []string) (*figma.NodesResponse, error)
	GetImages(ctx context.Context, fileKey string, opts figma.ImageOptions) (*figma.ImagesResponse, error)
	GetComments(ctx context.Context, fileKey string) (*figma.CommentsResponse, error)
	PostComment(ctx context.Context, fileKey, message, nodeID string) (*figma.Comment, error)
	GetComponents(ctx context.Context, fileKey string) (*figma.ComponentsResponse, error)
	GetStyles(ctx context.Context, fileKey string) (*figma.StylesResponse, error)
	GetTeamProjects(ctx context.Context, teamID string) (*figma.ProjectsResponse, error)
	GetProjectFiles(ctx context.Context, projectID string) (*figma.ProjectFilesResponse, error)
}

// CallError is a classified failure.
type CallError struct {
	Kind    ErrorKind
	Message string
}

func (e *CallError) Error() string { return e.Message }

// CallResult is the outcome of one tool call: success text or an error,
// never both.
type CallResult struct {
	Text string
	Err  *CallError
}

// Dispatcher validates tool arguments and routes calls to their handlers.
// The tool set is fixed at construction; a Dispatcher is safe for
// concurrent use.
type Dispatcher struct {
	api   API
	order []*tool
	tools map[string]*tool
}

// NewDispatcher builds the tool registry around api.
func NewDispatcher(api API) *Dispatcher {
	d := &Dispatcher{api: api, tools: make(map[string]*tool)}
	for _, t := range d.catalog() {
		if _, dup := d.tools[t.def.Name]; dup {
			panic("duplicate tool " + t.def.Name)
		}
		d.tools[t.def.Name] = t
		d.order = append(d.order, t)
	}
	return d
}

// Tools returns the tool descriptors in declaration order.
func (d *Dispatcher) Tools() []*mcp.Tool {
	out := make([]*mcp.Tool, len(d.order))
	for i, t := range d.order {
		out[i] = t.def
	}
	return out
}

// Has reports whether name is a registered tool.
func (d *Dispatcher) Has(name string) bool {
	_, ok := d.tools[name]
	return ok
}

// Validate checks raw arguments for the named tool and returns its typed
// argument struct. It fails with *UnknownToolError or *ValidationError.
func (d *Dispatcher) Validate(name string, raw json.RawMessage) (any, error) {
	t, ok := d.tools[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}
	return t.validate(raw)
}

// Call runs one tool invocation and always returns exactly one result.
func (d *Dispatcher) Call(ctx context.Context, name string, raw json.RawMessage) CallResult {
	start := time.Now()
	res := d.call(ctx, name, raw)
	if res.Err != nil {
		slog.Warn("tools.call.err", "tool", name, "kind", res.Err.Kind, "err", res.Err.Message)
		return res
	}
	slog.Debug("tools.call", "tool", name, "bytes", len(res.Text), "elapsed", time.Since(start))
	return res
}

func (d *Dispatcher) call(ctx context.Context, name string, raw json.RawMessage) CallResult {
	args, err := d.Validate(name, raw)
	if err != nil {
		return failure(Classify(err), err)
	}
	out, err := d.tools[name].invoke(ctx, args)
	if err != nil {
		return failure(KindInternal, err)
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return failure(KindInternal, errors.New("json marshal err="+err.Error()))
	}
	return CallResult{Text: string(b)}
}

// ListResources reports the resource list, which is always empty.
func (d *Dispatcher) ListResources() []*mcp.Resource {
	return []*mcp.Resource{}
}

// ReadResource always fails: no resources are published.
func (d *Dispatcher) ReadResource(uri string) error {
	return &UnknownResourceError{URI: uri}
}

// Classify maps an error onto the kind reported to the caller.
func Classify(err error) ErrorKind {
	var (
		unknownTool     *UnknownToolError
		validation      *ValidationError
		unknownResource *UnknownResourceError
	)
	switch {
	case errors.As(err, &unknownTool):
		return KindMethodNotFound
	case errors.As(err, &validation):
		return KindInvalidParams
	case errors.As(err, &unknownResource):
		return KindInvalidRequest
	default:
		return KindInternal
	}
}

func failure(kind ErrorKind, err error) CallResult {
	return CallResult{Err: &CallError{Kind: kind, Message: err.Error()}}
}
