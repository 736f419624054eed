package figma

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// File is the response of GET /files/:key.
type File struct {
	Name          string                  `json:"name"`
	Role          string                  `json:"role,omitempty"`
	LastModified  string                  `json:"lastModified"`
	EditorType    string                  `json:"editorType,omitempty"`
	ThumbnailURL  string                  `json:"thumbnailUrl,omitempty"`
	Version       string                  `json:"version"`
	SchemaVersion int                     `json:"schemaVersion,omitempty"`
	Document      *Node                   `json:"document"`
	Components    map[string]Component    `json:"components,omitempty"`
	ComponentSets map[string]ComponentSet `json:"componentSets,omitempty"`
	Styles        map[string]Style        `json:"styles,omitempty"`
}

// Component is a component definition referenced from a file.
type Component struct {
	Key            string `json:"key"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	ComponentSetID string `json:"componentSetId,omitempty"`
	Remote         bool   `json:"remote,omitempty"`
}

// ComponentSet groups component variants.
type ComponentSet struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Style is a style definition referenced from a file.
type Style struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StyleType   string `json:"styleType"`
	Remote      bool   `json:"remote,omitempty"`
}

// NodesResponse is the response of GET /files/:key/nodes. Entries are nil
// for ids that do not exist in the file.
type NodesResponse struct {
	Name         string                `json:"name"`
	LastModified string                `json:"lastModified"`
	Version      string                `json:"version,omitempty"`
	Nodes        map[string]*NodeEntry `json:"nodes"`
}

// NodeEntry is one requested subtree together with the definitions it uses.
type NodeEntry struct {
	Document   *Node                `json:"document"`
	Components map[string]Component `json:"components,omitempty"`
	Styles     map[string]Style     `json:"styles,omitempty"`
}

// ImagesResponse is the response of GET /images/:key. A nil URL means the
// node could not be rendered.
type ImagesResponse struct {
	Err    *string            `json:"err"`
	Images map[string]*string `json:"images"`
}

// User is the public profile attached to comments and published assets.
type User struct {
	ID     string `json:"id,omitempty"`
	Handle string `json:"handle"`
	ImgURL string `json:"img_url,omitempty"`
}

// Vector is a 2D offset.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ClientMeta anchors a comment to a position, optionally inside a node.
type ClientMeta struct {
	NodeID     string  `json:"node_id,omitempty"`
	NodeOffset *Vector `json:"node_offset,omitempty"`
	X          float64 `json:"x,omitempty"`
	Y          float64 `json:"y,omitempty"`
}

// Comment is a file comment.
type Comment struct {
	ID         string      `json:"id"`
	FileKey    string      `json:"file_key,omitempty"`
	ParentID   string      `json:"parent_id,omitempty"`
	User       User        `json:"user"`
	CreatedAt  string      `json:"created_at"`
	ResolvedAt *string     `json:"resolved_at,omitempty"`
	Message    string      `json:"message"`
	OrderID    string      `json:"order_id,omitempty"`
	ClientMeta *ClientMeta `json:"client_meta,omitempty"`
}

// CommentsResponse is the response of GET /files/:key/comments.
type CommentsResponse struct {
	Comments []Comment `json:"comments"`
}

// FrameInfo describes the frame that contains a published component.
type FrameInfo struct {
	NodeID   string `json:"nodeId,omitempty"`
	Name     string `json:"name,omitempty"`
	PageID   string `json:"pageId,omitempty"`
	PageName string `json:"pageName,omitempty"`
}

// PublishedComponent is a team-library component.
type PublishedComponent struct {
	Key             string     `json:"key"`
	FileKey         string     `json:"file_key"`
	NodeID          string     `json:"node_id"`
	ThumbnailURL    string     `json:"thumbnail_url,omitempty"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	CreatedAt       string     `json:"created_at,omitempty"`
	UpdatedAt       string     `json:"updated_at,omitempty"`
	User            *User      `json:"user,omitempty"`
	ContainingFrame *FrameInfo `json:"containing_frame,omitempty"`
}

// PublishedStyle is a team-library style.
type PublishedStyle struct {
	Key          string `json:"key"`
	FileKey      string `json:"file_key"`
	NodeID       string `json:"node_id"`
	StyleType    string `json:"style_type"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
	User         *User  `json:"user,omitempty"`
	SortPosition string `json:"sort_position,omitempty"`
}

// ComponentsResponse is the response of GET /files/:key/components.
type ComponentsResponse struct {
	Status int  `json:"status"`
	Error  bool `json:"error"`
	Meta   struct {
		Components []PublishedComponent `json:"components"`
	} `json:"meta"`
}

// StylesResponse is the response of GET /files/:key/styles.
type StylesResponse struct {
	Status int  `json:"status"`
	Error  bool `json:"error"`
	Meta   struct {
		Styles []PublishedStyle `json:"styles"`
	} `json:"meta"`
}

// ID is an identifier the API sends either as a JSON string or a number.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if string(data) == "null" {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Project is a team project.
type Project struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// ProjectsResponse is the response of GET /teams/:id/projects.
type ProjectsResponse struct {
	Name     string    `json:"name"`
	Projects []Project `json:"projects"`
}

// ProjectFile is a file listed in a project.
type ProjectFile struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	LastModified string `json:"last_modified"`
}

// ProjectFilesResponse is the response of GET /projects/:id/files.
type ProjectFilesResponse struct {
	Name  string        `json:"name"`
	Files []ProjectFile `json:"files"`
}
