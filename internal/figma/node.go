package figma

import (
	"encoding/json"
	"fmt"
)

// Node is one element of a document tree. ID, Name, Type and Children are
// decoded into fields; every other property is kept verbatim in Props so
// type-specific data (characters, fills, absoluteBoundingBox, ...) survives
// a decode/encode cycle.
//
// Trees returned by the API are assumed to be acyclic with unique ids.
type Node struct {
	ID       string
	Name     string
	Type     string
	Children []*Node
	Props    map[string]json.RawMessage
}

var coreKeys = map[string]bool{"id": true, "name": true, "type": true, "children": true}

// Has reports whether the node carries the named property.
func (n *Node) Has(key string) bool {
	_, ok := n.Props[key]
	return ok
}

// Prop decodes the named property into v. It returns false when the
// property is absent or cannot be decoded into v.
func (n *Node) Prop(key string, v any) bool {
	raw, ok := n.Props[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*n = Node{}
	if err := decodeField(fields, "id", &n.ID); err != nil {
		return err
	}
	if err := decodeField(fields, "name", &n.Name); err != nil {
		return err
	}
	if err := decodeField(fields, "type", &n.Type); err != nil {
		return err
	}
	if err := decodeField(fields, "children", &n.Children); err != nil {
		return err
	}
	for k, v := range fields {
		if coreKeys[k] {
			continue
		}
		if n.Props == nil {
			n.Props = make(map[string]json.RawMessage, len(fields))
		}
		n.Props[k] = v
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Props)+4)
	for k, v := range n.Props {
		out[k] = v
	}
	out["id"] = n.ID
	out["name"] = n.Name
	out["type"] = n.Type
	if n.Children != nil {
		out["children"] = n.Children
	}
	return json.Marshal(out)
}

func decodeField(fields map[string]json.RawMessage, key string, v any) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("node field %q: %w", key, err)
	}
	return nil
}
