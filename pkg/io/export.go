package io

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/flow"
)

// Write encodes g in the given format.
func Write(w io.Writer, g *flow.Graph, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, g)
	case FormatCSV:
		return WriteCSV(w, g)
	case FormatTSV:
		return WriteTSV(w, g)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %q", format)
}

// Marshal returns g encoded in the given format.
func Marshal(g *flow.Graph, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, g, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFile writes g to path in the given format.
func ExportFile(g *flow.Graph, path string, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, g, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
