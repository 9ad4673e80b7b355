package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/flow"
)

// document mirrors the JSON input. Arrays are kept raw so that a wrong type
// can be reported precisely instead of as a generic decode failure.
type document struct {
	Nodes json.RawMessage `json:"nodes"`
	Links json.RawMessage `json:"links"`
	Edges json.RawMessage `json:"edges"`
}

type jsonNode struct {
	ID    *string         `json:"id"`
	Name  *string         `json:"name"`
	Value json.RawMessage `json:"value"`
}

type jsonLink struct {
	Source *string         `json:"source"`
	Target *string         `json:"target"`
	Value  json.RawMessage `json:"value"`
}

// ReadJSON decodes a JSON flow graph from r and validates it.
//
// ReadJSON returns a PARSE_ERROR if the text is not a JSON object, if
// "nodes" or "links" is not an array, or if a value is not a number. It
// returns a VALIDATION_ERROR for missing fields, duplicate node IDs and any
// failure reported by [flow.Graph.Validate].
func ReadJSON(r io.Reader) (*flow.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.Parse("input is empty")
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "invalid JSON").
			WithSuggestion(errors.SuggestParse)
	}

	links := doc.Links
	if isMissing(links) {
		links = doc.Edges
	}
	if isMissing(doc.Nodes) {
		return nil, errors.Validation(`data must contain a "nodes" array`)
	}
	if isMissing(links) {
		return nil, errors.Validation(`data must contain a "links" array`)
	}

	var nodes []jsonNode
	if err := decodeArray(doc.Nodes, "nodes", &nodes); err != nil {
		return nil, err
	}
	var edges []jsonLink
	if err := decodeArray(links, "links", &edges); err != nil {
		return nil, err
	}

	g := flow.New()
	for i, n := range nodes {
		node, err := n.toNode(i)
		if err != nil {
			return nil, err
		}
		if err := g.AddNode(node); err != nil {
			return nil, errors.Validation("node %d: %v: %q", i+1, err, node.ID)
		}
	}
	for i, l := range edges {
		if l.Source == nil || *l.Source == "" {
			return nil, errors.Validation("link %d is missing its source", i+1)
		}
		if l.Target == nil || *l.Target == "" {
			return nil, errors.Validation("link %d is missing its target", i+1)
		}
		if isMissing(l.Value) {
			return nil, errors.Validation("link %d (%s -> %s) is missing its value", i+1, *l.Source, *l.Target)
		}
		v, err := parseNumber(l.Value)
		if err != nil {
			return nil, errors.Parse("link %d (%s -> %s): value must be a number, got %s", i+1, *l.Source, *l.Target, l.Value)
		}
		g.AddEdge(*l.Source, *l.Target, v)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (n jsonNode) toNode(i int) (flow.Node, error) {
	var id, name string
	if n.ID != nil {
		id = *n.ID
	}
	if n.Name != nil {
		name = *n.Name
	}
	if id == "" && name == "" {
		return flow.Node{}, errors.Validation("node %d must have an id or a name", i+1)
	}
	if id == "" {
		id = name
	}
	if name == "" {
		name = id
	}

	var value float64
	if !isMissing(n.Value) {
		v, err := parseNumber(n.Value)
		if err != nil {
			return flow.Node{}, errors.Parse("node %q: value must be a number, got %s", id, n.Value)
		}
		if v < 0 || math.IsInf(v, 0) {
			return flow.Node{}, errors.Validation("node %q: value must not be negative, current value: %v", id, v)
		}
		value = v
	}
	return flow.Node{ID: id, Name: name, Value: value}, nil
}

// decodeArray unmarshals raw into out after checking that it is a JSON array.
func decodeArray(raw json.RawMessage, field string, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return errors.Parse("%q must be an array", field)
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return errors.Wrap(errors.ErrCodeParse, err, "invalid %q entry", field).
			WithSuggestion(errors.SuggestParse)
	}
	return nil
}

// isMissing reports whether a raw field was absent or null.
func isMissing(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// parseNumber accepts only JSON number literals.
func parseNumber(raw json.RawMessage) (float64, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] == '"' || trimmed[0] == '{' || trimmed[0] == '[' {
		return 0, fmt.Errorf("not a number")
	}
	return strconv.ParseFloat(string(trimmed), 64)
}

type outNode struct {
	ID    string  `json:"id"`
	Name  string  `json:"name,omitempty"`
	Value float64 `json:"value,omitempty"`
}

type outLink struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

type outDocument struct {
	Nodes []outNode `json:"nodes"`
	Links []outLink `json:"links"`
}

// WriteJSON encodes g as indented JSON in the format [ReadJSON] accepts.
// Nodes and links appear in insertion order.
func WriteJSON(w io.Writer, g *flow.Graph) error {
	nodes := g.Nodes()
	edges := g.Edges()
	out := outDocument{
		Nodes: make([]outNode, len(nodes)),
		Links: make([]outLink, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = outNode{ID: n.ID, Name: n.Name, Value: n.Value}
	}
	for i, e := range edges {
		out.Links[i] = outLink{Source: e.Source, Target: e.Target, Value: e.Value}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalJSON returns the JSON encoding of g. The output is canonical for a
// given graph and is used as input to cache keys.
func MarshalJSON(g *flow.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
