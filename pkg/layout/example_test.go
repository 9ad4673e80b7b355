package layout_test

import (
	"fmt"
	"strings"

	flowio "github.com/matzehuels/sankeyflow/pkg/io"
	"github.com/matzehuels/sankeyflow/pkg/layout"
)

func ExampleCompute() {
	g, _ := flowio.ReadCSV(strings.NewReader("source,target,value\nA,B,10\nA,C,5\n"))

	p, err := layout.Compute(g, layout.DefaultConfig())
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, n := range p.Nodes {
		fmt.Printf("%s column=%d value=%g\n", n.ID, n.Column, n.Value)
	}
	a, _ := p.NodeByID("A")
	fmt.Printf("A.B share %.2f\n", p.Edges[0].Width/a.Height())
	// Output:
	// A column=0 value=15
	// B column=1 value=10
	// C column=1 value=5
	// A.B share 0.67
}
