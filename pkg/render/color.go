package render

import "github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"

// Fallback is the color of nodes whose category has no entry.
const Fallback = "#D3D3D3" // lightgray

var palette = map[kgraph.Category]string{
	kgraph.CategoryPrepare:    "#008000", // green
	kgraph.CategoryAction:     "#800080", // purple
	kgraph.CategoryMetabol:    "#FFFF00", // yellow
	kgraph.CategoryExcretion:  "#EE82EE", // violet
	kgraph.CategoryAbsorbtion: "#000000", // black
	kgraph.CategoryMechanism:  "#0000FF", // blue
	kgraph.CategoryGroup:      "#008000", // green
	kgraph.CategoryNoun:       "#808080", // gray
	kgraph.CategorySideEffect: "#FF0000", // red
}

// dark fills get white text
var darkFill = map[kgraph.Category]bool{
	kgraph.CategoryPrepare:    true,
	kgraph.CategoryAction:     true,
	kgraph.CategoryAbsorbtion: true,
	kgraph.CategoryMechanism:  true,
	kgraph.CategoryGroup:      true,
}

// Color returns the "#RRGGBB" fill color for category c.
func Color(c kgraph.Category) string {
	if col, ok := palette[c]; ok {
		return col
	}
	return Fallback
}

// faded appends an alpha channel to a "#RRGGBB" color.
func faded(color string, alpha uint8) string {
	const hex = "0123456789ABCDEF"
	return color + string([]byte{hex[alpha>>4], hex[alpha&0x0F]})
}

func fontColor(c kgraph.Category) string {
	if darkFill[c] {
		return "white"
	}
	return "black"
}
