package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/flow"
	"github.com/matzehuels/sankeyflow/pkg/flow/transform"
)

// collisionEpsilon is the smallest shift resolveCollisions applies.
const collisionEpsilon = 1e-6

type node struct {
	id, name string
	value    float64
	column   int
	x0, x1   float64
	y0, y1   float64
	out, in  []*edge
}

type edge struct {
	id             int
	source, target *node
	value, width   float64
	sy0, ty0       float64
}

type engine struct {
	x0, y0, x1, y1 float64
	dx, py, ky     float64
	iterations     int

	nodes   []*node
	edges   []*edge
	columns [][]*node
}

// Compute lays out g under cfg.
//
// The graph is validated first; an invalid graph yields its VALIDATION_ERROR
// and an unusable cfg an INVALID_INPUT error. The returned payload has
// passed [Payload.Validate].
func Compute(g *flow.Graph, cfg Config) (*Payload, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "graph is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	e := newEngine(g, cfg)
	e.computeNodeBreadths()
	e.computeLinkBreadths()

	p := e.payload(cfg)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// =============================================================================
// Setup
// =============================================================================

func newEngine(g *flow.Graph, cfg Config) *engine {
	e := &engine{dx: cfg.NodeThickness, py: cfg.NodePadding, iterations: cfg.Iterations}
	e.x0, e.y0, e.x1, e.y1 = cfg.Extent()

	align := cfg.Align
	if align == "" {
		align = transform.DefaultAlign
	}
	cols, n := transform.Columns(g, align)

	byID := make(map[string]*node, g.NodeCount())
	for _, fn := range g.Nodes() {
		nd := &node{id: fn.ID, name: fn.Label(), value: g.Throughput(fn.ID), column: cols[fn.ID]}
		e.nodes = append(e.nodes, nd)
		byID[fn.ID] = nd
	}
	for _, fe := range g.Edges() {
		ed := &edge{id: fe.ID, source: byID[fe.Source], target: byID[fe.Target], value: fe.Value}
		ed.source.out = append(ed.source.out, ed)
		ed.target.in = append(ed.target.in, ed)
		e.edges = append(e.edges, ed)
	}

	e.columns = make([][]*node, n)
	for _, nd := range e.nodes {
		e.columns[nd.column] = append(e.columns[nd.column], nd)
	}

	var kx float64
	if n > 1 {
		kx = (e.x1 - e.x0 - e.dx) / float64(n-1)
	}
	for _, nd := range e.nodes {
		nd.x0 = e.x0 + float64(nd.column)*kx
		nd.x1 = nd.x0 + e.dx
	}
	return e
}

// =============================================================================
// Vertical placement
// =============================================================================

func (e *engine) computeNodeBreadths() {
	e.py = e.padding(e.y1 - e.y0)
	e.initializeNodeBreadths()
	for i := 0; i < e.iterations; i++ {
		alpha := math.Pow(0.99, float64(i))
		beta := max(1-alpha, float64(i+1)/float64(e.iterations))
		e.relaxRightToLeft(alpha, beta)
		e.relaxLeftToRight(alpha, beta)
	}
}

// maxPaddingShare is the largest fraction of the usable height that the
// gaps of a single column may take.
const maxPaddingShare = 0.5

// padding clamps the configured gap so the longest column always fits and
// keeps at least half of the height for node values.
func (e *engine) padding(span float64) float64 {
	longest := 0
	for _, col := range e.columns {
		longest = max(longest, len(col))
	}
	if longest <= 1 {
		return e.py
	}
	return min(e.py, span*maxPaddingShare/float64(longest-1))
}

func (e *engine) initializeNodeBreadths() {
	e.ky = math.Inf(1)
	for _, col := range e.columns {
		var sum float64
		for _, nd := range col {
			sum += nd.value
		}
		if len(col) == 0 || sum <= 0 {
			continue
		}
		e.ky = min(e.ky, (e.y1-e.y0-float64(len(col)-1)*e.py)/sum)
	}

	for _, col := range e.columns {
		y := e.y0
		for _, nd := range col {
			nd.y0 = y
			nd.y1 = y + nd.value*e.ky
			y = nd.y1 + e.py
			for _, ed := range nd.out {
				ed.width = ed.value * e.ky
			}
		}
		spare := (e.y1 - y + e.py) / float64(len(col)+1)
		for i, nd := range col {
			nd.y0 += spare * float64(i+1)
			nd.y1 += spare * float64(i+1)
		}
		reorderLinks(col)
	}
}

func (e *engine) relaxLeftToRight(alpha, beta float64) {
	for i := 1; i < len(e.columns); i++ {
		col := e.columns[i]
		for _, target := range col {
			var y, w float64
			for _, ed := range target.in {
				v := ed.value * float64(target.column-ed.source.column)
				y += e.targetTop(ed) * v
				w += v
			}
			if !(w > 0) {
				continue
			}
			dy := (y/w - target.y0) * alpha
			target.y0 += dy
			target.y1 += dy
			reorderNodeLinks(target)
		}
		sortByBreadth(col)
		e.resolveCollisions(col, beta)
	}
}

func (e *engine) relaxRightToLeft(alpha, beta float64) {
	for i := len(e.columns) - 2; i >= 0; i-- {
		col := e.columns[i]
		for _, source := range col {
			var y, w float64
			for _, ed := range source.out {
				v := ed.value * float64(ed.target.column-source.column)
				y += e.sourceTop(ed) * v
				w += v
			}
			if !(w > 0) {
				continue
			}
			dy := (y/w - source.y0) * alpha
			source.y0 += dy
			source.y1 += dy
			reorderNodeLinks(source)
		}
		sortByBreadth(col)
		e.resolveCollisions(col, beta)
	}
}

// targetTop returns where the target node of ed would have to start for ed
// to run level, given the current position of its source.
func (e *engine) targetTop(ed *edge) float64 {
	source, target := ed.source, ed.target
	y := source.y0 - float64(len(source.out)-1)*e.py/2
	for _, o := range source.out {
		if o == ed {
			break
		}
		y += o.width + e.py
	}
	for _, in := range target.in {
		if in == ed {
			break
		}
		y -= in.width
	}
	return y
}

// sourceTop is the mirror of targetTop.
func (e *engine) sourceTop(ed *edge) float64 {
	source, target := ed.source, ed.target
	y := target.y0 - float64(len(target.in)-1)*e.py/2
	for _, in := range target.in {
		if in == ed {
			break
		}
		y += in.width + e.py
	}
	for _, o := range source.out {
		if o == ed {
			break
		}
		y -= o.width
	}
	return y
}

// resolveCollisions pushes overlapping nodes apart, working outwards from
// the middle node and then back in from the extent edges.
func (e *engine) resolveCollisions(col []*node, alpha float64) {
	if len(col) == 0 {
		return
	}
	i := len(col) >> 1
	subject := col[i]
	e.resolveBottomToTop(col, subject.y0-e.py, i-1, alpha)
	e.resolveTopToBottom(col, subject.y1+e.py, i+1, alpha)
	e.resolveBottomToTop(col, e.y1, len(col)-1, alpha)
	e.resolveTopToBottom(col, e.y0, 0, alpha)
}

func (e *engine) resolveTopToBottom(col []*node, y float64, i int, alpha float64) {
	for ; i < len(col); i++ {
		nd := col[i]
		if dy := (y - nd.y0) * alpha; dy > collisionEpsilon {
			nd.y0 += dy
			nd.y1 += dy
		}
		y = nd.y1 + e.py
	}
}

func (e *engine) resolveBottomToTop(col []*node, y float64, i int, alpha float64) {
	for ; i >= 0; i-- {
		nd := col[i]
		if dy := (nd.y1 - y) * alpha; dy > collisionEpsilon {
			nd.y0 -= dy
			nd.y1 -= dy
		}
		y = nd.y0 - e.py
	}
}

// =============================================================================
// Edge ordering and bands
// =============================================================================

func sortByBreadth(col []*node) {
	slices.SortStableFunc(col, func(a, b *node) int { return cmp.Compare(a.y0, b.y0) })
}

func byTargetBreadth(a, b *edge) int {
	return cmp.Or(cmp.Compare(a.target.y0, b.target.y0), cmp.Compare(a.id, b.id))
}

func bySourceBreadth(a, b *edge) int {
	return cmp.Or(cmp.Compare(a.source.y0, b.source.y0), cmp.Compare(a.id, b.id))
}

func reorderLinks(col []*node) {
	for _, nd := range col {
		slices.SortFunc(nd.out, byTargetBreadth)
		slices.SortFunc(nd.in, bySourceBreadth)
	}
}

// reorderNodeLinks re-sorts the edge lists of every neighbour of nd after
// nd has moved.
func reorderNodeLinks(nd *node) {
	for _, in := range nd.in {
		slices.SortFunc(in.source.out, byTargetBreadth)
	}
	for _, o := range nd.out {
		slices.SortFunc(o.target.in, bySourceBreadth)
	}
}

// computeLinkBreadths assigns band offsets as prefix sums over each node's
// ordered edge lists.
func (e *engine) computeLinkBreadths() {
	for _, nd := range e.nodes {
		y := nd.y0
		for _, ed := range nd.out {
			ed.sy0 = y
			y += ed.width
		}
		y = nd.y0
		for _, ed := range nd.in {
			ed.ty0 = y
			y += ed.width
		}
	}
}

func (e *engine) payload(cfg Config) *Payload {
	p := &Payload{
		Nodes:   make([]Node, len(e.nodes)),
		Edges:   make([]Edge, len(e.edges)),
		Width:   cfg.Width,
		Height:  cfg.Height,
		Columns: len(e.columns),
	}
	for i, nd := range e.nodes {
		p.Nodes[i] = Node{
			ID: nd.id, Name: nd.name, Value: nd.value, Column: nd.column,
			X0: nd.x0, X1: nd.x1, Y0: nd.y0, Y1: nd.y1,
		}
	}
	for i, ed := range e.edges {
		p.Edges[i] = Edge{
			ID: ed.id, Source: ed.source.id, Target: ed.target.id, Value: ed.value,
			Width: ed.width, SourceY0: ed.sy0, TargetY0: ed.ty0,
		}
	}
	return p
}
