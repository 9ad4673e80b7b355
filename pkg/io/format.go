package io

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// Format identifies an input/output text format.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatJSON, FormatCSV, FormatTSV}

// ParseFormat converts a format name (case-insensitive) to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatTSV:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown data format: %q (must be one of: json, csv, tsv)", s)
}

// DetectFormat guesses the format from a file name and, failing that, from
// the content: a leading '{' means JSON, a tab in the first line means TSV,
// anything else is treated as CSV.
func DetectFormat(filename string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	case ".tsv", ".tab":
		return FormatTSV
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	first, _, _ := bytes.Cut(trimmed, []byte("\n"))
	if bytes.ContainsRune(first, '\t') {
		return FormatTSV
	}
	return FormatCSV
}

// Extension returns the conventional file extension including the dot.
func (f Format) Extension() string { return "." + string(f) }
