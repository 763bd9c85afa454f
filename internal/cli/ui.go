package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/archsketch/pkg/diagram"
	"github.com/matzehuels/archsketch/pkg/synth"
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
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconSwatch  = "■"
)

// =============================================================================
// Status Output
// =============================================================================

// out receives command output.
var out io.Writer = os.Stdout

func printLine(s string) {
	fmt.Fprintln(out, s)
}

func printSuccess(format string, args ...any) {
	printLine(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printLine(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printLine(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printLine(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	printLine("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	printLine("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	printLine(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	printLine(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Diagram Output
// =============================================================================

// printReport summarises a merge on a single line and lists dropped
// connections underneath.
func printReport(r synth.Report) {
	parts := []string{
		fmt.Sprintf("%d created", len(r.Created)),
		fmt.Sprintf("%d updated", len(r.Updated)),
		fmt.Sprintf("%d edges", r.EdgesAdded),
	}
	if r.DuplicateEdges > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicate", r.DuplicateEdges))
	}
	printLine("  " + StyleDim.Render(strings.Join(parts, " · ")))
	for _, c := range r.Dropped {
		printWarning("dropped %s %s %s: unknown endpoint", c.From, iconArrow, c.To)
	}
}

// swatch renders a coloured square for a node.
func swatch(n diagram.Node) string {
	color := n.Data.Color
	if color == "" {
		color = diagram.ColorFor(n.Data.Type)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(iconSwatch)
}

// renderNodes renders the nodes of d as a table.
func renderNodes(d diagram.Diagram) string {
	rows := make([][]string, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		rows = append(rows, []string{
			swatch(n),
			n.ID,
			n.Data.Label,
			n.Data.Type,
			fmt.Sprintf("%g,%g", n.Position.X, n.Position.Y),
			n.Data.Description,
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Label", "Type", "Position", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 1 || col == 4 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// renderEdges lists the edges of d as "source → target" lines using labels.
func renderEdges(d diagram.Diagram) string {
	var b strings.Builder
	for _, e := range d.Edges {
		src, dst := e.Source, e.Target
		if n, ok := d.Node(e.Source); ok {
			src = n.Data.Label
		}
		if n, ok := d.Node(e.Target); ok {
			dst = n.Data.Label
		}
		fmt.Fprintf(&b, "  %s %s %s  %s\n", StyleValue.Render(src), StyleDim.Render(iconArrow),
			StyleValue.Render(dst), StyleDim.Render(e.ID))
	}
	return b.String()
}
