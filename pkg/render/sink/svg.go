package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/sankeyflow/pkg/render"
)

const (
	fontFamily = `system-ui, -apple-system, 'Segoe UI', sans-serif`
	fontSize   = 12
	shadowID   = "node-shadow"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	title      string
	labels     bool
}

// WithBackground overrides the theme background. An empty string draws no
// background at all.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithTitle adds a <title> element for accessibility.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithoutLabels suppresses node labels even when the scene carries them.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// RenderSVG draws s as a standalone SVG document.
func RenderSVG(s *render.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{background: s.Background, labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	renderDefs(&buf, s)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}

	buf.WriteString(`  <g class="links">` + "\n")
	for _, l := range s.Links {
		renderLink(&buf, l)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range s.Nodes {
		renderNode(&buf, n, s.Shadow)
	}
	buf.WriteString("  </g>\n")

	if r.labels {
		fmt.Fprintf(&buf, `  <g class="labels" font-family="%s" font-size="%d">`+"\n", fontFamily, fontSize)
		for _, n := range s.Nodes {
			if n.Label != nil {
				renderLabel(&buf, n.Label)
			}
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer, s *render.Scene) {
	var gradients []*render.Gradient
	for _, l := range s.Links {
		if l.Gradient != nil {
			gradients = append(gradients, l.Gradient)
		}
	}
	if len(gradients) == 0 && !s.Shadow {
		return
	}

	buf.WriteString("  <defs>\n")
	for _, g := range gradients {
		fmt.Fprintf(buf, `    <linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="%.2f" y1="0" x2="%.2f" y2="0">`+"\n",
			g.ID, g.X1, g.X2)
		fmt.Fprintf(buf, `      <stop offset="0%%" stop-color="%s"/>`+"\n", g.From)
		fmt.Fprintf(buf, `      <stop offset="100%%" stop-color="%s"/>`+"\n", g.To)
		buf.WriteString("    </linearGradient>\n")
	}
	if s.Shadow {
		fmt.Fprintf(buf, `    <filter id="%s" x="-20%%" y="-20%%" width="140%%" height="140%%">`+"\n", shadowID)
		buf.WriteString(`      <feDropShadow dx="1" dy="2" stdDeviation="2" flood-opacity="0.25"/>` + "\n")
		buf.WriteString("    </filter>\n")
	}
	buf.WriteString("  </defs>\n")
}

func renderLink(buf *bytes.Buffer, l render.SceneLink) {
	fill := l.Fill
	if l.Gradient != nil {
		fill = fmt.Sprintf("url(#%s)", l.Gradient.ID)
	}
	fmt.Fprintf(buf, `    <path id="link-%d" d="%s" fill="%s" fill-opacity="%.2f" data-source="%s" data-target="%s" data-value="%g"/>`+"\n",
		l.ID, l.Path, fill, l.Opacity, escapeXML(l.Source), escapeXML(l.Target), l.Value)
}

func renderNode(buf *bytes.Buffer, n render.SceneNode, shadow bool) {
	filter := ""
	if shadow {
		filter = fmt.Sprintf(` filter="url(#%s)"`, shadowID)
	}
	switch n.Shape {
	case render.ShapeEllipse:
		fmt.Fprintf(buf, `    <ellipse data-id="%s" cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" fill="%s"%s/>`+"\n",
			escapeXML(n.ID), n.X+n.Width/2, n.Y+n.Height/2, n.Width/2, n.Height/2, n.Fill, filter)
	case render.ShapeRounded:
		fmt.Fprintf(buf, `    <rect data-id="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" fill="%s"%s/>`+"\n",
			escapeXML(n.ID), n.X, n.Y, n.Width, n.Height, n.Radius, n.Fill, filter)
	default:
		fmt.Fprintf(buf, `    <rect data-id="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"%s/>`+"\n",
			escapeXML(n.ID), n.X, n.Y, n.Width, n.Height, n.Fill, filter)
	}
}

func renderLabel(buf *bytes.Buffer, l *render.Label) {
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="%s" dominant-baseline="middle" fill="%s">%s</text>`+"\n",
		l.X, l.Y, l.Anchor, l.Color, escapeXML(l.Text))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
