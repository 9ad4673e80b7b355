package render

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "pdf")
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale factor.
// Scale of 2.0 produces a 2x resolution image.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return rsvgConvert(svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// ConverterAvailable reports whether rsvg-convert is on the PATH.
func ConverterAvailable() bool {
	_, err := exec.LookPath("rsvg-convert")
	return err == nil
}

func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !ConverterAvailable() {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s export requires rsvg-convert", format).
			WithSuggestion("install librsvg: brew install librsvg (macOS) or apt install librsvg2-bin (Linux)")
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.Command("rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
