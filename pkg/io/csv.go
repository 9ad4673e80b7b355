package io

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/flow"
)

// Accepted header names per column, first entry is the canonical one.
var (
	sourceHeaders = []string{"source", "from"}
	targetHeaders = []string{"target", "to"}
	valueHeaders  = []string{"value", "weight"}
)

// ReadCSV decodes comma-separated rows from r and validates the result.
func ReadCSV(r io.Reader) (*flow.Graph, error) {
	return readDelimited(r, ',', FormatCSV)
}

// ReadTSV decodes tab-separated rows from r and validates the result.
func ReadTSV(r io.Reader) (*flow.Graph, error) {
	return readDelimited(r, '\t', FormatTSV)
}

// columns holds the positions of the three required fields.
type columns struct {
	source, target, value int
}

func (c columns) width() int { return max(c.source, c.target, c.value) + 1 }

func readDelimited(r io.Reader, delim rune, format Format) (*flow.Graph, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.Parse("input is empty")
	}
	if err != nil {
		return nil, wrapCSVError(err, format)
	}
	cols, err := parseHeader(header, format)
	if err != nil {
		return nil, err
	}

	g := flow.New()
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapCSVError(err, format)
		}
		if blank(record) {
			continue
		}
		line, _ := cr.FieldPos(0)
		if len(record) < 3 || len(record) < cols.width() {
			return nil, errors.Parse("line %d: expected source, target and value, got %d fields", line, len(record)).
				WithSuggestion(fmt.Sprintf("every line needs %d fields matching the header", cols.width()))
		}

		source := strings.TrimSpace(record[cols.source])
		target := strings.TrimSpace(record[cols.target])
		raw := strings.TrimSpace(record[cols.value])

		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Parse("line %d: value %q is not a number", line, raw).
				WithSuggestion("the value column must contain plain numbers such as 10 or 2.5")
		}

		g.EnsureNode(source)
		g.EnsureNode(target)
		g.AddEdge(source, target, v)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// parseHeader locates the source, target and value columns. Matching is
// case-insensitive and ignores surrounding whitespace and a UTF-8 BOM.
func parseHeader(header []string, format Format) (columns, error) {
	cols := columns{source: -1, target: -1, value: -1}
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")))
		switch {
		case cols.source < 0 && slices.Contains(sourceHeaders, name):
			cols.source = i
		case cols.target < 0 && slices.Contains(targetHeaders, name):
			cols.target = i
		case cols.value < 0 && slices.Contains(valueHeaders, name):
			cols.value = i
		}
	}
	if cols.source < 0 || cols.target < 0 || cols.value < 0 {
		sep := ","
		if format == FormatTSV {
			sep = `\t`
		}
		return cols, errors.Parse("%s header must contain source, target and value columns, got %q",
			strings.ToUpper(string(format)), strings.Join(header, sep)).
			WithSuggestion(fmt.Sprintf("the first line should be: source%starget%svalue", sep, sep))
	}
	return cols, nil
}

func wrapCSVError(err error, format Format) error {
	var perr *csv.ParseError
	if stderrors.As(err, &perr) {
		return errors.Parse("%s line %d: %v", strings.ToUpper(string(format)), perr.Line, perr.Err)
	}
	return fmt.Errorf("read: %w", err)
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// WriteCSV writes the edges of g as comma-separated rows with a header.
func WriteCSV(w io.Writer, g *flow.Graph) error {
	return writeDelimited(w, g, ',')
}

// WriteTSV writes the edges of g as tab-separated rows with a header.
func WriteTSV(w io.Writer, g *flow.Graph) error {
	return writeDelimited(w, g, '\t')
}

func writeDelimited(w io.Writer, g *flow.Graph, delim rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delim
	if err := cw.Write([]string{sourceHeaders[0], targetHeaders[0], valueHeaders[0]}); err != nil {
		return err
	}
	for _, e := range g.Edges() {
		row := []string{e.Source, e.Target, strconv.FormatFloat(e.Value, 'f', -1, 64)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
