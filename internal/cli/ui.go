package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sankeyflow/pkg/palette"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
	swatchBlock = "██"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a generated file path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// statsLine joins graph statistics into one dimmed line ending with the
// cache status.
func statsLine(s pipeline.Stats, cached bool) string {
	var parts []string
	if s.NodeCount > 0 {
		parts = append(parts, plural(s.NodeCount, "node"))
	}
	if s.EdgeCount > 0 {
		parts = append(parts, plural(s.EdgeCount, "link"))
	}
	if s.Columns > 0 {
		parts = append(parts, plural(s.Columns, "column"))
		parts = append(parts, plural(s.Crossings, "crossing"))
	}

	status := styleComputed.Render(iconFresh)
	if cached {
		status = styleCached.Render(iconCached)
	}

	var b strings.Builder
	b.WriteString("  ")
	for _, part := range parts {
		b.WriteString(StyleDim.Render(part))
		b.WriteString(StyleDim.Render(" · "))
	}
	b.WriteString(status)
	return b.String()
}

func printStats(s pipeline.Stats, cached bool) {
	fmt.Println(statsLine(s, cached))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// =============================================================================
// Colour Swatches
// =============================================================================

// swatches renders one coloured block per colour.
func swatches(colors []string) string {
	var b strings.Builder
	for i, c := range colors {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(swatchBlock))
	}
	return b.String()
}

// schemeLine renders a palette as "id  swatches  link swatch".
func schemeLine(p palette.Palette, width int) string {
	id := lipgloss.NewStyle().Width(width).Render(p.ID)
	if len(p.Colors) == 0 {
		return id + StyleDim.Render("user supplied colours") + "  " + StyleDim.Render("link ") + swatches([]string{p.Link()})
	}
	return id + swatches(p.Colors) + "  " + StyleDim.Render("link ") + swatches([]string{p.Link()})
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}
