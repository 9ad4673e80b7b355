package palette

import (
	"slices"
	"strings"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// FallbackColor is used when a palette has no node colours.
const FallbackColor = "#6366F1"

// DefaultLinkColor is the link colour of most schemes.
const DefaultLinkColor = "#E5E7EB"

// DefaultScheme is used when no scheme is configured.
const DefaultScheme = "default"

// CustomScheme has no node colours of its own.
const CustomScheme = "custom"

// Palette is a resolved colour set.
type Palette struct {
	ID        string   `json:"id"`
	Colors    []string `json:"colors"`
	LinkColor string   `json:"link_color"`
}

var schemes = map[string]Palette{
	"default": {
		Colors:    []string{"#6366F1", "#8B5CF6", "#EC4899", "#EF4444", "#F59E0B"},
		LinkColor: DefaultLinkColor,
	},
	"ocean": {
		Colors:    []string{"#0EA5E9", "#06B6D4", "#14B8A6", "#10B981", "#22D3EE"},
		LinkColor: "#E0F2FE",
	},
	"sunset": {
		Colors:    []string{"#F97316", "#FB923C", "#FCD34D", "#FDE047", "#FEF3C7"},
		LinkColor: "#FED7AA",
	},
	"forest": {
		Colors:    []string{"#16A34A", "#22C55E", "#4ADE80", "#86EFAC", "#BBF7D0"},
		LinkColor: "#DCFCE7",
	},
	"neon": {
		Colors:    []string{"#E11D48", "#F43F5E", "#EC4899", "#D946EF", "#A855F7"},
		LinkColor: "#FCE7F3",
	},
	"pastel": {
		Colors:    []string{"#C084FC", "#F0ABFC", "#FCA5A5", "#FCD34D", "#86EFAC"},
		LinkColor: "#F3E8FF",
	},
	"monochrome": {
		Colors:    []string{"#374151", "#4B5563", "#6B7280", "#9CA3AF", "#D1D5DB"},
		LinkColor: DefaultLinkColor,
	},
	CustomScheme: {
		LinkColor: DefaultLinkColor,
	},
}

// Schemes returns the IDs of all named schemes in sorted order.
func Schemes() []string {
	ids := make([]string, 0, len(schemes))
	for id := range schemes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Scheme returns a copy of the named scheme.
func Scheme(id string) (Palette, bool) {
	p, ok := schemes[strings.ToLower(id)]
	if !ok {
		return Palette{}, false
	}
	p.ID = strings.ToLower(id)
	p.Colors = slices.Clone(p.Colors)
	return p, true
}

// Resolve returns the palette for a scheme ID and an optional custom colour
// list. A non-empty custom list replaces the scheme's node colours. An empty
// id selects DefaultScheme. Custom colours must be valid hex strings.
func Resolve(id string, custom []string) (Palette, error) {
	if id == "" {
		id = DefaultScheme
	}
	p, ok := Scheme(id)
	if !ok {
		return Palette{}, errors.New(errors.ErrCodeInvalidInput, "unknown palette: %q (must be one of: %s)", id, strings.Join(Schemes(), ", "))
	}
	if len(custom) > 0 {
		colors := make([]string, len(custom))
		for i, c := range custom {
			norm, ok := Normalize(c)
			if !ok {
				return Palette{}, errors.New(errors.ErrCodeInvalidInput, "invalid colour %q: expected #rrggbb", c)
			}
			colors[i] = norm
		}
		p.Colors = colors
	}
	return p, nil
}

// NodeColor returns the colour for the node at ordinal index i.
func (p Palette) NodeColor(i int) string {
	if len(p.Colors) == 0 {
		return FallbackColor
	}
	if i < 0 {
		i = -i
	}
	return p.Colors[i%len(p.Colors)]
}

// Link returns the link colour, falling back to DefaultLinkColor.
func (p Palette) Link() string {
	if p.LinkColor == "" {
		return DefaultLinkColor
	}
	return p.LinkColor
}
