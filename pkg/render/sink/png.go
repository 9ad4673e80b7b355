package sink

import "github.com/matzehuels/sankeyflow/pkg/render"

// DefaultPNGScale renders PNGs at twice the SVG resolution.
const DefaultPNGScale = 2.0

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor.
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG renders the scene as PNG via SVG conversion.
func RenderPNG(s *render.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: DefaultPNGScale}
	for _, opt := range opts {
		opt(&r)
	}
	return render.ToPNG(RenderSVG(s, r.svgOpts...), r.scale)
}
