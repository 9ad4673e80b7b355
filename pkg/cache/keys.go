package cache

// Keyer builds cache keys for the three pipeline stages.
type Keyer interface {
	// GraphKey addresses a parsed graph by the hash of its source text.
	GraphKey(dataHash string, format string) string
	// LayoutKey addresses a layout payload computed from a graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// ArtifactKey addresses one rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts lists every setting that changes a computed layout.
type LayoutKeyOpts struct {
	Width         float64    `json:"width"`
	Height        float64    `json:"height"`
	NodeThickness float64    `json:"node_thickness"`
	NodePadding   float64    `json:"node_padding"`
	Margins       [4]float64 `json:"margins"`
	Iterations    int        `json:"iterations"`
	Align         string     `json:"align"`
}

// ArtifactKeyOpts lists every setting that changes a rendered artifact.
// Style is a fingerprint of the render style, usually a [Hash] of its JSON.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Style  string  `json:"style"`
	Title  string  `json:"title,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) GraphKey(dataHash string, format string) string {
	return hashKey("graph", dataHash, format)
}

func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
