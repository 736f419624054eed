package tools

import "github.com/google/jsonschema-go/jsonschema"

const (
	fileKeyDesc = "File key from the file URL (figma.com/file/<key>/... or figma.com/design/<key>/...)"
	nodeIDsDesc = "Node ids such as '1:2'"
)

// catalog declares every tool in the order tools/list reports them.
func (d *Dispatcher) catalog() []*tool {
	return []*tool{
		// 1. get_file
		newTool("get_file",
			"Fetch a file's document tree, components and styles. Use node_ids to fetch only the paths to specific nodes and depth to limit how deep the tree goes (1 = pages only).",
			object([]string{"file_key"}, map[string]*jsonschema.Schema{
				"file_key": stringProp(fileKeyDesc),
				"node_ids": stringListProp(nodeIDsDesc+" to restrict the document to", 0),
				"depth":    integerProp("How deep into the document tree to traverse", 1),
			}), d.handleGetFile),

		// 2. get_file_nodes
		newTool("get_file_nodes",
			"Fetch the subtrees rooted at specific nodes together with the components and styles they use. Missing ids map to null.",
			object([]string{"file_key", "node_ids"}, map[string]*jsonschema.Schema{
				"file_key": stringProp(fileKeyDesc),
				"node_ids": stringListProp(nodeIDsDesc+" to fetch", 1),
			}), d.handleGetFileNodes),

		// 3. get_images
		newTool("get_images",
			"Render nodes to images and return temporary download URLs keyed by node id. No pixel data is returned.",
			object([]string{"file_key", "node_ids"}, map[string]*jsonschema.Schema{
				"file_key": stringProp(fileKeyDesc),
				"node_ids": stringListProp(nodeIDsDesc+" to render", 1),
				"scale":    numberProp("Image scale between 0.01 and 4 (default 1)", 0.01, 4),
				"format":   enumProp("Image format (default png)", "png", "jpg", "svg", "pdf"),
			}), d.handleGetImages),

		// 4. get_comments
		newTool("get_comments",
			"List the comments on a file, including author, timestamps, resolution state and anchor node.",
			object([]string{"file_key"}, map[string]*jsonschema.Schema{
				"file_key": stringProp(fileKeyDesc),
			}), d.handleGetComments),

		// 5. post_comment
		newTool("post_comment",
			"Post a comment on a file, optionally anchored to a node. Each call creates a new comment; calling twice posts twice.",
			object([]string{"file_key", "message"}, map[string]*jsonschema.Schema{
				"file_key": stringProp(fileKeyDesc),
				"message":  stringProp("Comment text"),
				"node_id":  stringProp("Node id to anchor the comment to"),
			}), d.handlePostComment),

		// 6. get_components
		newTool("get_components",
			"List the published components of a file with their keys, node ids and containing frames.",
			object([]string{"file_key"}, map[string]*jsonschema.Schema{
				"file_key": stringProp(fileKeyDesc),
			}), d.handleGetComponents),

		// 7. get_styles
		newTool("get_styles",
			"List the published styles (fill, text, effect, grid) of a file.",
			object([]string{"file_key"}, map[string]*jsonschema.Schema{
				"file_key": stringProp(fileKeyDesc),
			}), d.handleGetStyles),

		// 8. get_team_projects
		newTool("get_team_projects",
			"List the projects of a team. The team id is the number after /team/ in a team URL.",
			object([]string{"team_id"}, map[string]*jsonschema.Schema{
				"team_id": stringProp("Team id"),
			}), d.handleGetTeamProjects),

		// 9. get_project_files
		newTool("get_project_files",
			"List the files of a project with their keys and last-modified timestamps.",
			object([]string{"project_id"}, map[string]*jsonschema.Schema{
				"project_id": stringProp("Project id, as returned by get_team_projects"),
			}), d.handleGetProjectFiles),

		// 10. search_nodes
		newTool("search_nodes",
			"Search a file's node tree by name (case-insensitive substring) and optionally by node type (FRAME, TEXT, COMPONENT, INSTANCE, ...). Returns at most 50 matches plus the total match count.",
			object([]string{"file_key", "query"}, map[string]*jsonschema.Schema{
				"file_key": stringProp(fileKeyDesc),
				"query":    textProp("Substring to look for in node names"),
				"type":     stringProp("Only return nodes of this type"),
			}), d.handleSearchNodes),

		// 11. get_node_summary
		newTool("get_node_summary",
			"Summarize a node and its descendants one line per node: type, name, id, child count, text preview, fill count and size. Defaults to the document root.",
			object([]string{"file_key"}, map[string]*jsonschema.Schema{
				"file_key": stringProp(fileKeyDesc),
				"node_id":  stringProp("Node id to summarize (default: document root)"),
				"depth":    integerProp("Levels of descendants to include (default 1)", 1),
			}), d.handleGetNodeSummary),

		// 12. parse_figma_url
		newTool("parse_figma_url",
			"Extract the file key and node id from a Figma file or design URL.",
			object([]string{"url"}, map[string]*jsonschema.Schema{
				"url": stringProp("Figma URL, e.g. https://www.figma.com/design/<key>/<title>?node-id=1-2"),
			}), d.handleParseURL),
	}
}
