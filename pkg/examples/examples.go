// Package examples bundles ready-made flow datasets for demos, tests and
// the interactive picker.
//
// Each dataset is stored as JSON and embedded in the binary:
//
//	ex, _ := examples.Get("energy-flow")
//	g, err := ex.Graph()
package examples

import (
	"embed"
	"fmt"
	"strings"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/flow"
	flowio "github.com/matzehuels/sankeyflow/pkg/io"
)

//go:embed data/*.json
var data embed.FS

// Example is one bundled dataset.
type Example struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var catalog = []Example{
	{"energy-flow", "Energy flow", "Energy from production sources through the grid to consumers"},
	{"user-journey", "User journey", "Visitor paths through a web shop, from landing page to checkout or exit"},
	{"budget-flow", "Budget allocation", "How company revenue is split across departments and cost types"},
	{"supply-chain", "Supply chain", "Goods moving from raw materials to the end customer"},
	{"content-spread", "Content spread", "Reach of a piece of content across channels down to conversions"},
}

// All returns every bundled example in display order.
func All() []Example {
	return append([]Example(nil), catalog...)
}

// IDs returns the example identifiers in display order.
func IDs() []string {
	ids := make([]string, len(catalog))
	for i, e := range catalog {
		ids[i] = e.ID
	}
	return ids
}

// Get looks up an example by ID. Unknown IDs yield a NOT_FOUND error.
func Get(id string) (Example, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, e := range catalog {
		if e.ID == id {
			return e, nil
		}
	}
	return Example{}, errors.New(errors.ErrCodeNotFound, "unknown example: %q", id).
		WithSuggestion("available examples: " + strings.Join(IDs(), ", "))
}

// Raw returns the embedded JSON document.
func (e Example) Raw() ([]byte, error) {
	b, err := data.ReadFile("data/" + e.ID + ".json")
	if err != nil {
		return nil, fmt.Errorf("example %s: %w", e.ID, err)
	}
	return b, nil
}

// Graph parses and validates the dataset.
func (e Example) Graph() (*flow.Graph, error) {
	b, err := e.Raw()
	if err != nil {
		return nil, err
	}
	return flowio.Parse(b, flowio.FormatJSON)
}

// Text returns the dataset encoded in format. CSV and TSV carry only the
// links, so declared node values and display names are dropped.
func (e Example) Text(format flowio.Format) (string, error) {
	if format == flowio.FormatJSON {
		b, err := e.Raw()
		return string(b), err
	}
	g, err := e.Graph()
	if err != nil {
		return "", err
	}
	b, err := flowio.Marshal(g, format)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
