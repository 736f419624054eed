package tools

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a failed call.
type ErrorKind string

const (
	KindMethodNotFound ErrorKind = "method_not_found"
	KindInvalidParams  ErrorKind = "invalid_params"
	KindInvalidRequest ErrorKind = "invalid_request"
	KindInternal       ErrorKind = "internal_error"
)

// JSON-RPC 2.0 error codes.
const (
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternal       = -32603
)

// Code returns the JSON-RPC error code for the kind.
func (k ErrorKind) Code() int64 {
	switch k {
	case KindMethodNotFound:
		return CodeMethodNotFound
	case KindInvalidParams:
		return CodeInvalidParams
	case KindInvalidRequest:
		return CodeInvalidRequest
	default:
		return CodeInternal
	}
}

// UnknownToolError reports a tool name that is not registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// UnknownResourceError is returned for every resource read; this server
// publishes no resources.
type UnknownResourceError struct {
	URI string
}

func (e *UnknownResourceError) Error() string {
	return fmt.Sprintf("unknown resource: %s", e.URI)
}

// FieldProblem is one rejected argument.
type FieldProblem struct {
	Field  string
	Reason string
}

// ValidationError lists every argument that failed its tool's schema.
type ValidationError struct {
	Tool     string
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		if p.Field == "" {
			msgs[i] = p.Reason
			continue
		}
		msgs[i] = p.Field + ": " + p.Reason
	}
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, strings.Join(msgs, "; "))
}

// Fields returns the names of the offending fields.
func (e *ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		if p.Field != "" {
			out = append(out, p.Field)
		}
	}
	return out
}
