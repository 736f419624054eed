package tools

import (
	"context"
	"fmt"

	"github.com/DeusData/figma-mcp/internal/figma"
	"github.com/DeusData/figma-mcp/internal/figmaurl"
	"github.com/DeusData/figma-mcp/internal/nodetree"
)

type searchNodesArgs struct {
	FileKey string `json:"file_key"`
	Query   string `json:"query"`
	Type    string `json:"type"`
}

type nodeMatch struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Summary string `json:"summary"`
}

type searchResult struct {
	File    string      `json:"file"`
	Query   string      `json:"query"`
	Type    string      `json:"type,omitempty"`
	Total   int         `json:"total"`
	Shown   int         `json:"shown"`
	Results []nodeMatch `json:"results"`
}

func (d *Dispatcher) handleSearchNodes(ctx context.Context, args searchNodesArgs) (any, error) {
	f, err := d.api.GetFile(ctx, args.FileKey, figma.FileOptions{})
	if err != nil {
		return nil, err
	}
	matches, total := nodetree.Search(f.Document, args.Query, args.Type)

	results := make([]nodeMatch, 0, len(matches))
	for _, n := range matches {
		results = append(results, nodeMatch{
			ID:      n.ID,
			Name:    n.Name,
			Type:    n.Type,
			Summary: nodetree.Summarize(n),
		})
	}
	return searchResult{
		File:    f.Name,
		Query:   args.Query,
		Type:    args.Type,
		Total:   total,
		Shown:   len(results),
		Results: results,
	}, nil
}

type nodeSummaryArgs struct {
	FileKey string `json:"file_key"`
	NodeID  string `json:"node_id"`
	Depth   int    `json:"depth"`
}

type nodeSummary struct {
	File    string   `json:"file"`
	NodeID  string   `json:"node_id"`
	Summary []string `json:"summary"`
}

func (d *Dispatcher) handleGetNodeSummary(ctx context.Context, args nodeSummaryArgs) (any, error) {
	depth := args.Depth
	if depth == 0 {
		depth = 1
	}

	var opts figma.FileOptions
	if args.NodeID != "" {
		opts.IDs = []string{args.NodeID}
	}
	f, err := d.api.GetFile(ctx, args.FileKey, opts)
	if err != nil {
		return nil, err
	}

	root := f.Document
	if args.NodeID != "" {
		root = nodetree.FindByID(f.Document, args.NodeID)
	}
	if root == nil {
		return nil, fmt.Errorf("node %q not found in file %s", args.NodeID, args.FileKey)
	}
	return nodeSummary{
		File:    f.Name,
		NodeID:  root.ID,
		Summary: nodetree.SummarizeTree(root, depth),
	}, nil
}

type parseURLArgs struct {
	URL string `json:"url"`
}

func (d *Dispatcher) handleParseURL(_ context.Context, args parseURLArgs) (any, error) {
	ref, ok := figmaurl.Parse(args.URL)
	if !ok {
		return nil, fmt.Errorf("not a Figma file or design URL: %s", args.URL)
	}
	return ref, nil
}
