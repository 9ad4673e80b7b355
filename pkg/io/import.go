package io

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/flow"
)

// Read decodes a flow graph in the given format from r.
func Read(r io.Reader, format Format) (*flow.Graph, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatCSV:
		return ReadCSV(r)
	case FormatTSV:
		return ReadTSV(r)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %q", format)
}

// Parse decodes data in the given format. An empty format is detected from
// the content.
func Parse(data []byte, format Format) (*flow.Graph, error) {
	if format == "" {
		format = DetectFormat("", data)
	}
	return Read(bytes.NewReader(data), format)
}

// ImportFile reads the file at path. An empty format is detected from the
// file extension and content.
//
// The returned error wraps the structured parse or validation error, so
// [errors.Is] and [errors.GetCode] still see its code.
func ImportFile(path string, format Format) (*flow.Graph, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	if format == "" {
		format = DetectFormat(path, data)
	}
	g, err := Read(bytes.NewReader(data), format)
	if err != nil {
		return nil, format, fmt.Errorf("%s: %w", path, err)
	}
	return g, format, nil
}
