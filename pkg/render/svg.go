package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"
)

// RenderSVG draws DOT source with Graphviz. A pinned graph carries
// pos="x,y!" on every node, which only neato honors; unpinned graphs use
// dot's own ranking.
func RenderSVG(ctx context.Context, dot string, pinned bool) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("graphviz: %w", err)
	}
	defer gv.Close()
	if pinned {
		gv.SetLayout(graphviz.NEATO)
	}

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse dot: %w", err)
	}
	defer parsed.Close()

	var svg bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.SVG, &svg); err != nil {
		return nil, fmt.Errorf("graphviz render: %w", err)
	}
	return normalizeViewBox(svg.Bytes()), nil
}

var (
	rootTag = regexp.MustCompile(`<svg[^>]*>`)
	viewBox = regexp.MustCompile(`viewBox="[0-9.]+\s+[0-9.]+\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element Graphviz emits (sized in pt)
// to a unitless one with a zero-origin viewBox, so browsers scale it.
// Documents without a usable viewBox are returned unchanged.
func normalizeViewBox(svg []byte) []byte {
	tag := rootTag.Find(svg)
	m := viewBox.FindSubmatch(tag)
	if m == nil {
		return svg
	}
	w, errW := strconv.ParseFloat(string(m[1]), 64)
	h, errH := strconv.ParseFloat(string(m[2]), 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return bytes.Replace(svg, tag, []byte(root), 1)
}
