package diagram

import (
	"testing"

	"github.com/matzehuels/archsketch/pkg/errors"
)

func sample() Diagram {
	return New(
		[]Node{
			{ID: "a", Position: Position{X: 100, Y: 100}, Data: NodeData{Label: "API Server", Type: TypeAPI}},
			{ID: "b", Position: Position{X: 300, Y: 100}, Data: NodeData{Label: "Database", Type: TypeDatabase}},
			{ID: "c", Position: Position{X: 500, Y: 100}, Data: NodeData{Label: "Cache", Type: TypeStorage}},
		},
		[]Edge{
			{ID: "e1", Source: "a", Target: "b"},
			{ID: "e2", Source: "a", Target: "c"},
			{ID: "e3", Source: "c", Target: "b"},
		},
	)
}

func TestAddNode(t *testing.T) {
	var d Diagram
	got := d.AddNode(NodeData{Label: "Queue", Type: TypeStorage}, "n1")

	if len(d.Nodes) != 0 {
		t.Fatal("receiver mutated")
	}
	n, ok := got.Node("n1")
	if !ok {
		t.Fatal("node not added")
	}
	if n.Position != ManualPosition {
		t.Errorf("Position = %+v, want %+v", n.Position, ManualPosition)
	}
}

func TestUpdateNode(t *testing.T) {
	d := sample()

	got, err := d.UpdateNode("b", NodeData{Description: "primary store", Color: "#fff"})
	if err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	n, _ := got.Node("b")
	if n.Data.Label != "Database" || n.Data.Type != TypeDatabase {
		t.Errorf("empty patch fields overwrote data: %+v", n.Data)
	}
	if n.Data.Description != "primary store" || n.Data.Color != "#fff" {
		t.Errorf("patch not applied: %+v", n.Data)
	}
	if n.Position != (Position{X: 300, Y: 100}) {
		t.Errorf("position changed: %+v", n.Position)
	}
	if orig, _ := d.Node("b"); orig.Data.Description != "" {
		t.Error("receiver mutated")
	}

	if _, err := d.UpdateNode("missing", NodeData{Label: "x"}); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("UpdateNode(missing) err = %v, want NODE_NOT_FOUND", err)
	}
}

func TestMoveNode(t *testing.T) {
	got, err := sample().MoveNode("a", Position{X: 1, Y: 2})
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := got.Node("a"); n.Position != (Position{X: 1, Y: 2}) {
		t.Errorf("Position = %+v", n.Position)
	}
}

func TestDeleteNodeCascades(t *testing.T) {
	got, err := sample().DeleteNode("c")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(got.Nodes))
	}
	if len(got.Edges) != 1 || got.Edges[0].ID != "e1" {
		t.Errorf("edges = %+v, want only e1", got.Edges)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate after delete: %v", err)
	}
}

func TestAddEdge(t *testing.T) {
	d := sample()

	tests := []struct {
		name      string
		src, dst  string
		wantEdges int
		wantCode  errors.Code
	}{
		{"new", "b", "c", 4, ""},
		{"duplicate pair", "a", "b", 3, ""},
		{"self loop", "a", "a", 4, ""},
		{"missing source", "x", "b", 3, errors.ErrCodeNodeNotFound},
		{"missing target", "a", "x", 3, errors.ErrCodeNodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.AddEdge(tt.src, tt.dst, "new")
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("err = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(got.Edges) != tt.wantEdges {
				t.Errorf("edges = %d, want %d", len(got.Edges), tt.wantEdges)
			}
		})
	}
}

func TestDeleteEdge(t *testing.T) {
	got, err := sample().DeleteEdge("e2")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.Edge("e2"); ok {
		t.Error("edge still present")
	}
	if _, err := got.DeleteEdge("e2"); !errors.Is(err, errors.ErrCodeEdgeNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestClear(t *testing.T) {
	if got := sample().Clear(); !got.IsEmpty() {
		t.Errorf("Clear() = %+v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		d       Diagram
		wantErr bool
	}{
		{"empty", Diagram{}, false},
		{"sample", sample(), false},
		{"duplicate node", New([]Node{{ID: "a"}, {ID: "a"}}, nil), true},
		{"empty id", New([]Node{{ID: ""}}, nil), true},
		{"dangling", New([]Node{{ID: "a"}}, []Edge{{ID: "e", Source: "a", Target: "z"}}), true},
		{"duplicate edge", New([]Node{{ID: "a"}}, []Edge{{ID: "e", Source: "a", Target: "a"}, {ID: "e", Source: "a", Target: "a"}}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.d.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	if got := (Diagram{}).Summary(); got != "Starting with empty system" {
		t.Errorf("empty Summary() = %q", got)
	}
	want := "Current system has 3 components: API Server, Database, Cache"
	if got := sample().Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestColorFor(t *testing.T) {
	for _, typ := range NodeTypes {
		if ColorFor(typ) == "" {
			t.Errorf("ColorFor(%q) empty", typ)
		}
		if !IsNodeType(typ) {
			t.Errorf("IsNodeType(%q) = false", typ)
		}
	}
	if got := ColorFor("widget"); got != DefaultColor {
		t.Errorf("ColorFor(widget) = %q", got)
	}
	if IsNodeType("widget") {
		t.Error("IsNodeType(widget) = true")
	}
}
