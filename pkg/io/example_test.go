package io_test

import (
	"fmt"
	"os"
	"strings"

	flowio "github.com/matzehuels/sankeyflow/pkg/io"
)

func ExampleReadCSV() {
	g, err := flowio.ReadCSV(strings.NewReader("source,target,value\nA,B,10\nA,C,5\n"))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(g.NodeCount(), "nodes,", g.EdgeCount(), "edges")
	fmt.Println("A out:", g.OutFlow("A"))
	// Output:
	// 3 nodes, 2 edges
	// A out: 15
}

func ExampleReadJSON_invalid() {
	_, err := flowio.ReadJSON(strings.NewReader(`{
		"nodes": [{"id": "a"}, {"id": "b"}],
		"links": [{"source": "a", "target": "b", "value": -3}]
	}`))
	fmt.Println(err)
	// Output:
	// VALIDATION_ERROR: link 1 (a -> b): value must be positive, current value: -3
}

func ExampleWrite() {
	g, _ := flowio.ReadTSV(strings.NewReader("from\tto\tweight\nsolar\tgrid\t2.5\n"))
	_ = flowio.Write(os.Stdout, g, flowio.FormatCSV)
	// Output:
	// source,target,value
	// solar,grid,2.5
}
