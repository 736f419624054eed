package tools

import "context"

type fileKeyArgs struct {
	FileKey string `json:"file_key"`
}

func (d *Dispatcher) handleGetComments(ctx context.Context, args fileKeyArgs) (any, error) {
	return d.api.GetComments(ctx, args.FileKey)
}

type postCommentArgs struct {
	FileKey string `json:"file_key"`
	Message string `json:"message"`
	NodeID  string `json:"node_id"`
}

// handlePostComment creates exactly one comment per call. Retrying a call
// that failed after reaching the API may post a duplicate.
func (d *Dispatcher) handlePostComment(ctx context.Context, args postCommentArgs) (any, error) {
	return d.api.PostComment(ctx, args.FileKey, args.Message, args.NodeID)
}
