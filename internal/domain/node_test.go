package domain

import (
	"encoding/json"
	"testing"
)

func TestNewNode(t *testing.T) {
	t.Run("creates node with required fields", func(t *testing.T) {
		node := NewNode("abc123", NodeTypeProposition, "philosophy", "Test")

		if node.ID != "abc123" {
			t.Errorf("expected ID 'abc123', got %s", node.ID)
		}
		if node.Type != NodeTypeProposition {
			t.Errorf("expected type %s, got %s", NodeTypeProposition, node.Type)
		}
		if node.Domain != "philosophy" {
			t.Errorf("expected domain 'philosophy', got %s", node.Domain)
		}
		if node.Title != "Test" {
			t.Errorf("expected title 'Test', got %s", node.Title)
		}
	})
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"abc123", true},
		{"k7x9m2", true},
		{"000000", true},
		{"zzzzzz", true},
		{"", false},
		{"abc12", false},
		{"abc1234", false},
		{"ABC123", false},
		{"abc_12", false},
		{"INVALID_ID", false},
		{"abc 12", false},
	}

	for _, tt := range tests {
		if got := ValidID(tt.id); got != tt.valid {
			t.Errorf("ValidID(%q) = %v, want %v", tt.id, got, tt.valid)
		}
	}
}

func TestNodeTypeValid(t *testing.T) {
	for _, nt := range NodeTypes {
		if !nt.Valid() {
			t.Errorf("expected %s to be valid", nt)
		}
	}
	if NodeType("invalid_type").Valid() {
		t.Error("expected invalid_type to be rejected")
	}
	if NodeType("").Valid() {
		t.Error("expected empty type to be rejected")
	}
}

func TestNodeJSON(t *testing.T) {
	t.Run("decodes minimal node", func(t *testing.T) {
		var node Node
		data := `{"id":"abc123","type":"proposition","domain":"philosophy","title":"Test"}`
		if err := json.Unmarshal([]byte(data), &node); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if node.Content != "" || node.Formal != "" {
			t.Error("expected optional text fields to be empty")
		}
		if node.Tags != nil || node.Metadata != nil || node.Sources != nil {
			t.Error("expected optional collections to be nil")
		}
	})

	t.Run("decodes full node", func(t *testing.T) {
		var node Node
		data := `{
			"id":"k7x9m2",
			"type":"proposition",
			"domain":"philosophy",
			"title":"Knowledge requires safety",
			"content":"For S to know that p...",
			"formal":"∀S,p: K(S,p) → Safe(S,p)",
			"tags":["epistemology","knowledge"],
			"metadata":{"certainty":0.75,"nested":{"key":"value"}},
			"sources":["pritchard2005"],
			"created":"2025-01-15T10:00:00Z",
			"updated":"2025-01-15T12:00:00Z"
		}`
		if err := json.Unmarshal([]byte(data), &node); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(node.Tags) != 2 {
			t.Errorf("expected 2 tags, got %d", len(node.Tags))
		}
		if !node.HasTag("knowledge") {
			t.Error("expected HasTag(knowledge) to be true")
		}
		if c, ok := node.Metadata["certainty"].(float64); !ok || c != 0.75 {
			t.Errorf("expected certainty 0.75, got %v (ok=%v)", c, ok)
		}
		if node.Created != "2025-01-15T10:00:00Z" {
			t.Errorf("expected created to be kept verbatim, got %s", node.Created)
		}
	})

	t.Run("encodes type under the json key type", func(t *testing.T) {
		node := NewNode("abc123", NodeTypeTheorem, "mathematics", "T")
		data, err := json.Marshal(node)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if raw["type"] != "theorem" {
			t.Errorf("expected type 'theorem', got %v", raw["type"])
		}
		if _, ok := raw["content"]; ok {
			t.Error("expected empty content to be omitted")
		}
	})
}

func TestNodeSummary(t *testing.T) {
	node := &Node{ID: "abc123", Type: NodeTypeTheory, Domain: "physics", Title: "GR", Content: "long"}
	s := node.Summary()

	if s != (NodeSummary{ID: "abc123", Type: "theory", Domain: "physics", Title: "GR"}) {
		t.Errorf("unexpected summary: %+v", s)
	}
}
