package sink

import (
	"encoding/json"

	"github.com/matzehuels/sankeyflow/pkg/render"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	compact bool
}

// WithCompactJSON disables indentation.
func WithCompactJSON() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

// RenderJSON exports the scene as a JSON document: node boxes with fills,
// shapes and labels, and links with fills, gradients and SVG path data.
func RenderJSON(s *render.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if r.compact {
		return json.Marshal(s)
	}
	return json.MarshalIndent(s, "", "  ")
}
