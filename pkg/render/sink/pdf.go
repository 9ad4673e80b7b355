package sink

import "github.com/matzehuels/sankeyflow/pkg/render"

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	svgOpts []SVGOption
}

// WithPDFSVGOptions passes options through to the underlying SVG renderer.
func WithPDFSVGOptions(opts ...SVGOption) PDFOption {
	return func(r *pdfRenderer) { r.svgOpts = opts }
}

// RenderPDF renders the scene as PDF via SVG conversion.
func RenderPDF(s *render.Scene, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	return render.ToPDF(RenderSVG(s, r.svgOpts...))
}
