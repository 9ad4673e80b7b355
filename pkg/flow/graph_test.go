package flow

import (
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

func buildGraph(t *testing.T, nodes []string, edges [][3]any) *Graph {
	t.Helper()
	g := New()
	for _, id := range nodes {
		if err := g.AddNode(Node{ID: id, Name: strings.ToUpper(id)}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range edges {
		g.AddEdge(e[0].(string), e[1].(string), float64(e[2].(int)))
	}
	return g
}

func TestAddNode(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddNode(Node{ID: ""}); err != ErrInvalidNodeID {
		t.Errorf("empty ID: got %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(Node{ID: "a"}); err != ErrDuplicateNodeID {
		t.Errorf("duplicate: got %v, want ErrDuplicateNodeID", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1", g.NodeCount())
	}
}

func TestEnsureNode(t *testing.T) {
	g := New()
	if !g.EnsureNode("a") {
		t.Error("first EnsureNode should add")
	}
	if g.EnsureNode("a") {
		t.Error("second EnsureNode should not add")
	}
	n, _ := g.Node("a")
	if n.Name != "a" {
		t.Errorf("Name = %q, want implicit name equal to ID", n.Name)
	}
}

func TestEdgeIDsAndAdjacency(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c"}, [][3]any{
		{"a", "b", 10},
		{"a", "c", 5},
		{"a", "b", 10},
		{"b", "c", 4},
	})

	for i, e := range g.Edges() {
		if e.ID != i {
			t.Errorf("edge %d has ID %d", i, e.ID)
		}
	}
	if got := g.Outgoing("a"); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("Outgoing(a) = %v", got)
	}
	if got := g.Incoming("c"); !slices.Equal(got, []int{1, 3}) {
		t.Errorf("Incoming(c) = %v", got)
	}
	if got := g.OutFlow("a"); got != 25 {
		t.Errorf("OutFlow(a) = %v, want 25", got)
	}
	if got := g.InFlow("b"); got != 20 {
		t.Errorf("InFlow(b) = %v, want 20", got)
	}
	if got := g.Throughput("b"); got != 20 {
		t.Errorf("Throughput(b) = %v, want 20", got)
	}
	if got := g.TotalFlow(); got != 29 {
		t.Errorf("TotalFlow = %v, want 29", got)
	}
}

func TestThroughputUsesDeclaredValue(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a", Value: 100})
	_ = g.AddNode(Node{ID: "b"})
	g.AddEdge("a", "b", 30)

	if got := g.Throughput("a"); got != 100 {
		t.Errorf("Throughput(a) = %v, want declared 100", got)
	}
	if got := g.Throughput("b"); got != 30 {
		t.Errorf("Throughput(b) = %v, want 30", got)
	}
	if got := g.Throughput("missing"); got != 0 {
		t.Errorf("Throughput(missing) = %v, want 0", got)
	}
}

func TestSourcesSinks(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c", "d"}, [][3]any{
		{"a", "c", 1},
		{"b", "c", 1},
		{"c", "d", 2},
	})
	if got := NodeIDs(g.Sources()); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Sources = %v", got)
	}
	if got := NodeIDs(g.Sinks()); !slices.Equal(got, []string{"d"}) {
		t.Errorf("Sinks = %v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []string
		edges   [][3]any
		wantErr string
	}{
		{"valid", []string{"a", "b"}, [][3]any{{"a", "b", 1}}, ""},
		{"no nodes", nil, nil, "nodes must not be empty"},
		{"no edges", []string{"a"}, nil, "links must not be empty"},
		{"dangling source", []string{"b"}, [][3]any{{"x", "b", 1}}, `source node "x" does not exist`},
		{"dangling target", []string{"a"}, [][3]any{{"a", "missing", 1}}, `target node "missing" does not exist`},
		{"self loop", []string{"a"}, [][3]any{{"a", "a", 1}}, `self-loop detected on node "a"`},
		{"negative", []string{"a", "b"}, [][3]any{{"a", "b", -3}}, "must be positive, current value: -3"},
		{"zero", []string{"a", "b"}, [][3]any{{"a", "b", 0}}, "must be positive"},
		{"cycle", []string{"a", "b", "c"}, [][3]any{{"a", "b", 1}, {"b", "c", 1}, {"c", "a", 1}}, "cycle detected: a -> b -> c -> a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, tt.nodes, tt.edges)
			err := g.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !errors.Is(err, errors.ErrCodeValidation) {
				t.Errorf("code = %v, want VALIDATION_ERROR", errors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNonFinite(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})
	g.AddEdge("a", "b", math.NaN())
	if err := g.Validate(); err == nil || !strings.Contains(err.Error(), "finite") {
		t.Errorf("Validate() = %v, want finite-value error", err)
	}
}

func TestFindCycleAcyclic(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c"}, [][3]any{{"a", "b", 1}, {"a", "c", 1}, {"b", "c", 1}})
	if c := g.FindCycle(); c != nil {
		t.Errorf("FindCycle() = %v, want nil", c)
	}
}

func TestEqualIgnoresOrder(t *testing.T) {
	a := buildGraph(t, []string{"a", "b", "c"}, [][3]any{{"a", "b", 10}, {"a", "c", 5}})
	b := buildGraph(t, []string{"c", "a", "b"}, [][3]any{{"a", "c", 5}, {"a", "b", 10}})
	if !Equal(a, b) {
		t.Error("Equal() = false for reordered graphs")
	}

	c := buildGraph(t, []string{"a", "b", "c"}, [][3]any{{"a", "b", 10}, {"a", "c", 6}})
	if Equal(a, c) {
		t.Error("Equal() = true for graphs with different values")
	}
}

func TestClone(t *testing.T) {
	g := buildGraph(t, []string{"a", "b"}, [][3]any{{"a", "b", 3}})
	c := g.Clone()
	if !Equal(g, c) {
		t.Fatal("clone differs from original")
	}
	c.AddEdge("b", "a", 1)
	if g.EdgeCount() != 1 {
		t.Error("modifying clone changed original")
	}
}
