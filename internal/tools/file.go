package tools

import (
	"context"

	"github.com/DeusData/figma-mcp/internal/figma"
)

type getFileArgs struct {
	FileKey string   `json:"file_key"`
	NodeIDs []string `json:"node_ids"`
	Depth   int      `json:"depth"`
}

func (d *Dispatcher) handleGetFile(ctx context.Context, args getFileArgs) (any, error) {
	return d.api.GetFile(ctx, args.FileKey, figma.FileOptions{IDs: args.NodeIDs, Depth: args.Depth})
}

type getFileNodesArgs struct {
	FileKey string   `json:"file_key"`
	NodeIDs []string `json:"node_ids"`
}

func (d *Dispatcher) handleGetFileNodes(ctx context.Context, args getFileNodesArgs) (any, error) {
	return d.api.GetFileNodes(ctx, args.FileKey, args.NodeIDs)
}

type getImagesArgs struct {
	FileKey string   `json:"file_key"`
	NodeIDs []string `json:"node_ids"`
	Scale   float64  `json:"scale"`
	Format  string   `json:"format"`
}

func (d *Dispatcher) handleGetImages(ctx context.Context, args getImagesArgs) (any, error) {
	return d.api.GetImages(ctx, args.FileKey, figma.ImageOptions{
		IDs:    args.NodeIDs,
		Scale:  args.Scale,
		Format: args.Format,
	})
}
