// Package nodetree walks Figma document trees.
//
// Every function assumes the input is a tree: acyclic, every node with a
// single parent. Documents returned by the REST API satisfy this; a cyclic
// structure would make the traversals below run forever.
package nodetree

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/DeusData/figma-mcp/internal/figma"
)

// MaxSearchResults caps the node list returned by Search.
const MaxSearchResults = 50

// maxTextPreview is the number of runes of text content kept by Summarize.
const maxTextPreview = 50

// Flatten returns every node of the tree in pre-order: a node comes before
// its children, children in stored order.
func Flatten(root *figma.Node) []*figma.Node {
	var out []*figma.Node
	walk(root, func(n *figma.Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// FindByID returns the first node in pre-order whose id equals id, or nil.
func FindByID(root *figma.Node, id string) *figma.Node {
	var found *figma.Node
	walk(root, func(n *figma.Node) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Search returns nodes whose name contains query (case-insensitive) and,
// when typeFilter is non-empty, whose type equals the upper-cased filter.
// At most MaxSearchResults nodes are returned; total counts all matches.
func Search(root *figma.Node, query, typeFilter string) (matches []*figma.Node, total int) {
	q := strings.ToLower(query)
	wantType := strings.ToUpper(typeFilter)
	for _, n := range Flatten(root) {
		if !strings.Contains(strings.ToLower(n.Name), q) {
			continue
		}
		if wantType != "" && n.Type != wantType {
			continue
		}
		total++
		if len(matches) < MaxSearchResults {
			matches = append(matches, n)
		}
	}
	return matches, total
}

type boundingBox struct {
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

// Summarize renders a one-line description of a node, e.g.
//
//	TEXT "Title" (id: 1:2), text: "Hello", fills: 1, size: 120x32
//
// Optional parts are omitted when the node lacks the property.
func Summarize(n *figma.Node) string {
	parts := []string{fmt.Sprintf("%s %q (id: %s)", n.Type, n.Name, n.ID)}

	if c := childCount(n); c > 0 {
		parts = append(parts, fmt.Sprintf("children: %d", c))
	}

	var text string
	if n.Prop("characters", &text) {
		parts = append(parts, fmt.Sprintf("text: %q", preview(text)))
	}

	var fills []any
	if n.Prop("fills", &fills) {
		parts = append(parts, fmt.Sprintf("fills: %d", len(fills)))
	}

	var box boundingBox
	if n.Prop("absoluteBoundingBox", &box) && box.Width != nil && box.Height != nil {
		parts = append(parts, fmt.Sprintf("size: %dx%d", int(math.Round(*box.Width)), int(math.Round(*box.Height))))
	}

	return strings.Join(parts, ", ")
}

// SummarizeTree summarizes n and its descendants down to depth levels below
// it, one line per node, indented two spaces per level. depth 0 returns
// only the node itself.
func SummarizeTree(n *figma.Node, depth int) []string {
	var lines []string
	var visit func(n *figma.Node, level int)
	visit = func(n *figma.Node, level int) {
		lines = append(lines, strings.Repeat("  ", level)+Summarize(n))
		if level >= depth {
			return
		}
		for _, c := range n.Children {
			if c != nil {
				visit(c, level+1)
			}
		}
	}
	if n != nil {
		visit(n, 0)
	}
	return lines
}

// childCount counts the non-nil children; a null entry in a payload's
// children array decodes to a nil node.
func childCount(n *figma.Node) int {
	count := 0
	for _, c := range n.Children {
		if c != nil {
			count++
		}
	}
	return count
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= maxTextPreview {
		return s
	}
	r := []rune(s)
	return string(r[:maxTextPreview]) + "..."
}

// walk visits nodes in pre-order until fn returns false. It reports
// whether the walk ran to completion.
func walk(n *figma.Node, fn func(*figma.Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}
