package render

import (
	"context"
	stderrors "errors"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/errors"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
)

// Output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// Formats lists the supported output formats.
var Formats = []string{FormatSVG, FormatDOT, FormatPNG, FormatPDF}

// ErrConverterMissing is returned for PNG and PDF when rsvg-convert is not
// installed.
var ErrConverterMissing = stderrors.New("rsvg-convert not found")

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}

// Render draws g in format.
func Render(ctx context.Context, g *kgraph.Graph, format string, opts Options) ([]byte, error) {
	if err := errors.ValidateFormat(format, Formats...); err != nil {
		return nil, err
	}

	dot := ToDOT(g, opts)
	if format == FormatDOT {
		return []byte(dot), nil
	}

	svg, err := RenderSVG(ctx, dot, opts.Pinned())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	var out []byte
	switch format {
	case FormatPNG:
		out, err = ToPNG(ctx, svg, 2)
	case FormatPDF:
		out, err = ToPDF(ctx, svg)
	default:
		return svg, nil
	}
	if stderrors.Is(err, ErrConverterMissing) {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "%s output", format)
	}
	return out, err
}
