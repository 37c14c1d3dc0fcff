package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Arch-Mind/frontend-sub001/pkg/graph"
	"github.com/Arch-Mind/frontend-sub001/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success, expanded
	colorYellow = lipgloss.Color("220") // Amber - warnings, collapsed
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

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

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

const (
	iconSuccess   = "✓"
	iconError     = "✗"
	iconWarning   = "!"
	iconInfo      = "›"
	iconArrow     = "→"
	iconExpanded  = "▾"
	iconCollapsed = "▸"
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

func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Pipeline Output
// =============================================================================

// formatStats renders run statistics on a single line.
func formatStats(s pipeline.Stats, cached bool) string {
	parts := []string{
		fmt.Sprintf("%d nodes", s.VisibleNodes),
		fmt.Sprintf("%d edges", s.Edges),
	}
	if s.DroppedEdges > 0 {
		parts = append(parts, fmt.Sprintf("%d dropped", s.DroppedEdges))
	}
	if s.AddedNodes > 0 {
		parts = append(parts, fmt.Sprintf("%d dirs added", s.AddedNodes))
	}
	if s.Clusters > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d clusters collapsed", s.Collapsed, s.Clusters))
	}

	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, styleComputed.Render("fresh "+s.LayoutTime.Round(time.Millisecond).String()))
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}

// renderClusterTable renders cluster summaries as a bordered table.
func renderClusterTable(clusters []graph.ClusterSummary) string {
	rows := make([][]string, len(clusters))
	for i, c := range clusters {
		icon := iconExpanded
		if c.Collapsed {
			icon = iconCollapsed
		}
		rows[i] = []string{
			icon,
			c.ID,
			strconv.Itoa(c.Total),
			strconv.Itoa(c.Files),
			strconv.Itoa(c.Functions),
			strconv.Itoa(c.Classes),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Cluster", "Total", "Files", "Funcs", "Classes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if row < 0 || row >= len(clusters) {
				return lipgloss.NewStyle()
			}
			if col == 0 || col == 1 {
				if clusters[row].Collapsed {
					return StyleWarning
				}
				return StyleSuccess
			}
			return StyleDim
		}).
		Render()
}
