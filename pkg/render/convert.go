package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// rsvgConvert is the librsvg command line converter used for PNG and PDF.
const rsvgConvert = "rsvg-convert"

// ToPDF converts an SVG document to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convertSVG(ctx, svg, "pdf")
}

// ToPNG rasterizes an SVG document. scale multiplies the pixel size; values
// not above zero mean 1.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convertSVG(ctx, svg, "png", "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
}

func convertSVG(ctx context.Context, svg []byte, format string, args ...string) ([]byte, error) {
	bin, err := exec.LookPath(rsvgConvert)
	if err != nil {
		return nil, fmt.Errorf("%w: %s output needs librsvg (apt install librsvg2-bin, brew install librsvg)",
			ErrConverterMissing, format)
	}

	cmd := exec.CommandContext(ctx, bin, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %s", rsvgConvert, format, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
