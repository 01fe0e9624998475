package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pkoziel/dayflow/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// PriorityStyle returns the style matching a task's priority urgency.
func PriorityStyle(p int) lipgloss.Style {
	switch p {
	case 1:
		return StyleRed
	case 2:
		return StyleYellow
	case 3:
		return StyleBlue
	default:
		return StyleDim
	}
}

// PriorityBadge returns a colored "P1".."P4" label.
func PriorityBadge(p int) string {
	return PriorityStyle(p).Render(fmt.Sprintf("P%d", domain.ClampPriority(p)))
}

// ImpactBadge returns a colored impact indicator for a recommendation.
func ImpactBadge(impact domain.ImpactLevel) string {
	switch impact {
	case domain.ImpactHigh:
		return StyleRed.Render("● HIGH")
	case domain.ImpactMedium:
		return StyleYellow.Render("● MEDIUM")
	case domain.ImpactLow:
		return StyleGreen.Render("● LOW")
	default:
		return StyleDim.Render("● " + strings.ToUpper(string(impact)))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
