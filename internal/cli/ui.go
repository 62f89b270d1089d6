package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/orbit/pkg/layout/force"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // teal
	colorOK     = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber, also dragged nodes
	colorLink   = lipgloss.Color("75")  // light blue, suggested commands
	colorBright = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

// Exported styles are shared with the watch view.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleDim     = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue   = lipgloss.NewStyle().Foreground(colorBright)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorAccent)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleOK    = lipgloss.NewStyle().Foreground(colorOK)
	styleMuted = lipgloss.NewStyle().Foreground(colorMuted)
	styleLink  = lipgloss.NewStyle().Foreground(colorLink)
	styleKey   = styleMuted.Width(12)
	styleHead  = styleMuted.Bold(true)
)

// =============================================================================
// Status Lines
// =============================================================================

// status prints msg behind a styled glyph.
func status(glyph lipgloss.Style, icon, format string, args ...any) {
	fmt.Printf("%s %s\n", glyph.Render(icon), fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status(styleOK, "✓", format, args...) }
func printInfo(format string, args ...any)    { status(styleMuted, "›", format, args...) }

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Printf("  %s\n", StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Printf("  %s %s\n", StyleDim.Render("→"), StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Printf("%s %s\n", styleKey.Render(key), StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Printf("%s %s\n", StyleDim.Render(description+":"), styleLink.Render(cmd))
}

// =============================================================================
// Summaries
// =============================================================================

func printStats(nodes, edges int, cached bool) {
	fmt.Println("  " + statsLine(nodes, edges, cached))
}

// statsLine summarises a snapshot, e.g. "3 nodes · 2 edges · cached".
// Zero counts are omitted.
func statsLine(nodes, edges int, cached bool) string {
	var parts []string
	for _, c := range []struct {
		n    int
		word string
	}{{nodes, "node"}, {edges, "edge"}} {
		if c.n > 0 {
			parts = append(parts, StyleDim.Render(plural(c.n, c.word)))
		}
	}
	if cached {
		parts = append(parts, styleOK.Render("cached"))
	} else {
		parts = append(parts, styleMuted.Render("fresh"))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

func printCanvas(size force.Size, tick uint64) {
	printDetail("canvas %gx%g · tick %d", size.Width, size.Height, tick)
}

// renderTable draws rows under headers. The first column is highlighted.
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHead
			case col == 0:
				return StyleValue
			default:
				return StyleDim
			}
		}).
		Render()
}
