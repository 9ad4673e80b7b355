package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/sankeyflow/pkg/flow"
	"github.com/matzehuels/sankeyflow/pkg/palette"
)

func sample() *flow.Graph {
	g := flow.New()
	_ = g.AddNode(flow.Node{ID: "coal", Name: "Coal"})
	_ = g.AddNode(flow.Node{ID: "power", Name: "Power Plant"})
	_ = g.AddNode(flow.Node{ID: "homes"})
	g.AddEdge("coal", "power", 100)
	g.AddEdge("power", "homes", 25)
	return g
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(sample(), Options{})

	for _, want := range []string{
		"digraph G",
		"rankdir=LR",
		`"coal" [label="Coal"]`,
		`"homes" [label="homes"]`,
		`"coal" -> "power" [penwidth=8.00]`,
		`"power" -> "homes" [penwidth=2.75]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q\n%s", want, dot)
		}
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(sample(), Options{Detailed: true})

	if !strings.Contains(dot, `Power Plant\nvalue: 100\ncolumn: 1`) {
		t.Errorf("detailed node label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `label="25"`) {
		t.Errorf("detailed edge label missing:\n%s", dot)
	}
}

func TestToDOT_Palette(t *testing.T) {
	p, _ := palette.Scheme("monochrome")
	dot := ToDOT(sample(), Options{Palette: &p})

	if !strings.Contains(dot, `fillcolor="#374151", fontcolor="white"`) {
		t.Errorf("dark fill should switch to white text:\n%s", dot)
	}
	if !strings.Contains(dot, `"homes" [label="homes", fillcolor="#6B7280"`) {
		t.Errorf("third node should use third colour:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116">`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("without viewBox the input should be returned unchanged, got %s", got)
	}
}
