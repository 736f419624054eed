package figma

import (
	"encoding/json"
	"testing"
)

func TestNode_KeepsUnknownProperties(t *testing.T) {
	const src = `{
		"id": "1:2",
		"name": "Title",
		"type": "TEXT",
		"characters": "Hello",
		"absoluteBoundingBox": {"x": 0, "y": 0, "width": 120.4, "height": 31.6},
		"fills": [{"type": "SOLID"}]
	}`

	var n Node
	if err := json.Unmarshal([]byte(src), &n); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if n.ID != "1:2" || n.Name != "Title" || n.Type != "TEXT" {
		t.Fatalf("core fields not decoded: %+v", n)
	}
	if n.Children != nil {
		t.Fatalf("expected leaf to have nil children, got %v", n.Children)
	}
	for _, key := range []string{"characters", "absoluteBoundingBox", "fills"} {
		if !n.Has(key) {
			t.Errorf("expected property %q", key)
		}
	}
	if n.Has("id") {
		t.Error("core fields must not be duplicated into Props")
	}

	var text string
	if !n.Prop("characters", &text) || text != "Hello" {
		t.Fatalf("Prop(characters) = %q", text)
	}
	var wrong int
	if n.Prop("characters", &wrong) {
		t.Fatal("Prop should report false on type mismatch")
	}

	out, err := json.Marshal(&n)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if back["characters"] != "Hello" || back["id"] != "1:2" || back["type"] != "TEXT" {
		t.Fatalf("round trip lost data: %s", out)
	}
	if _, ok := back["children"]; ok {
		t.Fatalf("leaf should not gain a children key: %s", out)
	}
}

func TestNode_NestedChildren(t *testing.T) {
	const src = `{"id": "0:0", "name": "Doc", "type": "DOCUMENT", "children": [
		{"id": "0:1", "name": "Page", "type": "CANVAS", "children": [
			{"id": "1:1", "name": "Frame", "type": "FRAME", "children": []}
		]}
	]}`

	var n Node
	if err := json.Unmarshal([]byte(src), &n); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if len(n.Children) != 1 || len(n.Children[0].Children) != 1 {
		t.Fatalf("unexpected tree shape: %+v", n)
	}
	frame := n.Children[0].Children[0]
	if frame.ID != "1:1" || frame.Children == nil || len(frame.Children) != 0 {
		t.Fatalf("expected empty non-nil children on frame, got %+v", frame)
	}
}

func TestNode_BadCoreField(t *testing.T) {
	var n Node
	if err := json.Unmarshal([]byte(`{"id": 5}`), &n); err == nil {
		t.Fatal("expected error for numeric id")
	}
}
