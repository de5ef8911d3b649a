package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/render"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorWhite  = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleHighlight renders the selected node and other emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleWarning renders warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey         = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	styleHeader      = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

const (
	iconArrow  = "→"
	iconSwatch = "●"
)

// =============================================================================
// Status Lines
// =============================================================================

// A mark prefixes a status line.
type mark struct {
	icon  string
	style lipgloss.Style
}

var (
	markSuccess = mark{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	markWarning = mark{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	markInfo    = mark{"›", lipgloss.NewStyle().Foreground(colorMuted)}
)

func (m mark) println(msg string) {
	fmt.Println(m.style.Render(m.icon) + " " + msg)
}

func printSuccess(format string, args ...any) {
	markSuccess.println(fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	markWarning.println(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	markInfo.println(fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + styleValue.Render(value))
}

// printStats prints "N nodes · M edges · cached|fresh".
func printStats(nodes, edges int, cached bool) {
	state := StyleDim.Render("fresh")
	if cached {
		state = markSuccess.style.Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf("%d nodes", nodes)) + sep +
		StyleDim.Render(fmt.Sprintf("%d edges", edges)) + sep + state)
}

// =============================================================================
// Graph Output
// =============================================================================

// categoryStyle colors text like the renderer colors nodes of category c.
func categoryStyle(c kgraph.Category) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(render.Color(c)))
}

func swatch(c kgraph.Category) string {
	return categoryStyle(c).Render(iconSwatch)
}

// formatPath joins path with arrows, each node colored by its category.
func formatPath(g *kgraph.Graph, path []string) string {
	parts := make([]string, len(path))
	for i, id := range path {
		n, _ := g.Node(id)
		parts[i] = categoryStyle(n.Category).Render(id)
	}
	return strings.Join(parts, StyleDim.Render(" "+iconArrow+" "))
}
