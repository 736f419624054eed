package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with tool handlers.
type Server struct {
	mcp        *mcp.Server
	dispatcher *Dispatcher
}

// NewServer creates a new MCP server with all tools registered.
func NewServer(api API, version string) *Server {
	srv := &Server{
		dispatcher: NewDispatcher(api),
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    "figma-mcp",
				Version: version,
			},
			nil,
		),
	}
	srv.registerTools()
	srv.mcp.AddReceivingMiddleware(srv.intercept)
	return srv
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Dispatcher returns the dispatcher behind the registered tools.
func (s *Server) Dispatcher() *Dispatcher {
	return s.dispatcher
}

func (s *Server) registerTools() {
	for _, t := range s.dispatcher.Tools() {
		name := t.Name
		s.mcp.AddTool(t, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			res := s.dispatcher.Call(ctx, name, req.Params.Arguments)
			if res.Err != nil {
				return nil, rpcError(res.Err)
			}
			return textResult(res.Text), nil
		})
	}
}

// intercept answers the parts of the protocol the SDK would otherwise
// shape differently: the tool list (the SDK sorts by name), unknown tool
// names and the resources surface.
func (s *Server) intercept(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		switch method {
		case "tools/list":
			return &mcp.ListToolsResult{Tools: s.dispatcher.Tools()}, nil
		case "tools/call":
			if call, ok := req.(*mcp.CallToolRequest); ok && !s.dispatcher.Has(call.Params.Name) {
				return nil, rpcError(&CallError{Kind: KindMethodNotFound, Message: (&UnknownToolError{Name: call.Params.Name}).Error()})
			}
		case "resources/list":
			return &mcp.ListResourcesResult{Resources: s.dispatcher.ListResources()}, nil
		case "resources/read":
			uri := ""
			if read, ok := req.(*mcp.ReadResourceRequest); ok && read.Params != nil {
				uri = read.Params.URI
			}
			err := s.dispatcher.ReadResource(uri)
			return nil, rpcError(&CallError{Kind: Classify(err), Message: err.Error()})
		}
		return next(ctx, method, req)
	}
}

// textResult wraps a pretty-printed payload as a tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// rpcError converts a classified failure into a JSON-RPC error.
func rpcError(e *CallError) *jsonrpc.Error {
	return &jsonrpc.Error{Code: e.Kind.Code(), Message: e.Message}
}
