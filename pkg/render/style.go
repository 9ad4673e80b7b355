package render

import (
	"math"
	"strings"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/palette"
	"github.com/matzehuels/sankeyflow/pkg/ribbon"
)

// Shape is the geometric class of a node box.
type Shape string

// Node shapes.
const (
	ShapeRectangle Shape = "rectangle"
	ShapeRounded   Shape = "rounded"
	ShapeEllipse   Shape = "ellipse"
)

// ValidShapes is the set of supported node shapes.
var ValidShapes = map[Shape]bool{ShapeRectangle: true, ShapeRounded: true, ShapeEllipse: true}

// Theme selects background and label colours.
type Theme string

// Themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ValidThemes is the set of supported themes.
var ValidThemes = map[Theme]bool{ThemeLight: true, ThemeDark: true}

// Style defaults.
const (
	DefaultLinkOpacity  = 0.3
	DefaultCornerRadius = 4
	DefaultShape        = ShapeRectangle
	DefaultTheme        = ThemeLight

	// GradientDarken is the brightness shift applied to node fills when
	// links are drawn with gradients.
	GradientDarken = -20
)

// Background colours per theme.
const (
	LightBackground = "#ffffff"
	DarkBackground  = "#111827"
)

// Label text colours.
const (
	DarkText  = "#333333"
	LightText = "#ffffff"
)

// Style holds the visual settings applied by [Build].
type Style struct {
	Curve        ribbon.Style `json:"curve"`
	Palette      string       `json:"palette"`
	Colors       []string     `json:"colors,omitempty"`
	LinkColor    string       `json:"link_color,omitempty"`
	LinkOpacity  float64      `json:"link_opacity"`
	NodeShape    Shape        `json:"node_shape"`
	CornerRadius float64      `json:"corner_radius"`
	Gradient     bool         `json:"gradient,omitempty"`
	Shadow       bool         `json:"shadow,omitempty"`
	Theme        Theme        `json:"theme"`
	Labels       bool         `json:"labels"`
}

// DefaultStyle returns the built-in style: curved links in the default
// palette, rectangles, light theme, labels on.
func DefaultStyle() Style {
	return Style{
		Curve:        ribbon.DefaultStyle,
		Palette:      palette.DefaultScheme,
		LinkOpacity:  DefaultLinkOpacity,
		NodeShape:    DefaultShape,
		CornerRadius: DefaultCornerRadius,
		Theme:        DefaultTheme,
		Labels:       true,
	}
}

// WithDefaults fills zero-valued fields from [DefaultStyle]. Labels is left
// alone because false is meaningful.
func (s Style) WithDefaults() Style {
	d := DefaultStyle()
	if s.Curve == "" {
		s.Curve = d.Curve
	}
	if s.Palette == "" {
		s.Palette = d.Palette
	}
	if s.LinkOpacity == 0 {
		s.LinkOpacity = d.LinkOpacity
	}
	if s.NodeShape == "" {
		s.NodeShape = d.NodeShape
	}
	if s.CornerRadius == 0 {
		s.CornerRadius = d.CornerRadius
	}
	if s.Theme == "" {
		s.Theme = d.Theme
	}
	s.Curve = ribbon.Style(strings.ToLower(string(s.Curve)))
	s.NodeShape = Shape(strings.ToLower(string(s.NodeShape)))
	s.Theme = Theme(strings.ToLower(string(s.Theme)))
	return s
}

// GradientLinks reports whether links are filled with source-to-target
// gradients.
func (s Style) GradientLinks() bool {
	return s.Gradient || s.Curve == ribbon.StyleGradient
}

// Validate checks enum values and numeric ranges. Call it on a style that
// went through [Style.WithDefaults].
func (s Style) Validate() error {
	if !ribbon.ValidStyles[s.Curve] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid curve style: %q (must be one of: straight, curved, gradient)", s.Curve)
	}
	if !ValidShapes[s.NodeShape] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid node shape: %q (must be one of: rectangle, rounded, ellipse)", s.NodeShape)
	}
	if !ValidThemes[s.Theme] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid theme: %q (must be one of: light, dark)", s.Theme)
	}
	if math.IsNaN(s.LinkOpacity) || s.LinkOpacity < 0 || s.LinkOpacity > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "link opacity must be between 0 and 1, got %v", s.LinkOpacity)
	}
	if math.IsNaN(s.CornerRadius) || s.CornerRadius < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "corner radius must not be negative, got %v", s.CornerRadius)
	}
	if s.LinkColor != "" {
		if _, ok := palette.Normalize(s.LinkColor); !ok {
			return errors.New(errors.ErrCodeInvalidInput, "invalid link colour %q: expected #rrggbb", s.LinkColor)
		}
	}
	if _, err := palette.Resolve(s.Palette, s.Colors); err != nil {
		return err
	}
	return nil
}

// Background returns the canvas colour of the theme.
func (t Theme) Background() string {
	if t == ThemeDark {
		return DarkBackground
	}
	return LightBackground
}

// TextColor returns the label colour that reads well on background.
func TextColor(background string) string {
	if palette.IsLight(background) {
		return DarkText
	}
	return LightText
}
