package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/pkoziel/dayflow/internal/cli/formatter"
)

// checkinResult carries the morning check-in answers.
type checkinResult struct {
	Energy       int
	Focus        int
	Mode         string
	AvailableMin int
}

// dayflowHuhTheme returns a custom huh theme using the Gruvbox palette.
func dayflowHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func scaleOptions() []huh.Option[int] {
	labels := map[int]string{
		1: "1 (running on empty)",
		2: "2 (low)",
		3: "3 (okay)",
		4: "4 (good)",
		5: "5 (firing on all cylinders)",
	}
	options := make([]huh.Option[int], 0, 5)
	for v := 1; v <= 5; v++ {
		options = append(options, huh.NewOption(labels[v], v))
	}
	return options
}

// runCheckinForm walks through the morning check-in and returns the answers.
func runCheckinForm() (checkinResult, error) {
	result := checkinResult{Energy: 3, Focus: 3, Mode: "standard"}
	availableStr := ""

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("How's your energy?").
				Options(scaleOptions()...).
				Value(&result.Energy),
			huh.NewSelect[int]().
				Title("How's your focus?").
				Options(scaleOptions()...).
				Value(&result.Focus),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Work mode").
				Options(
					huh.NewOption("Standard (everything in play)", "standard"),
					huh.NewOption("Low focus (light tasks only)", "low_focus"),
					huh.NewOption("Hyperfocus (heavy tasks only)", "hyperfocus"),
					huh.NewOption("Quick wins (short tasks only)", "quick_wins"),
				).
				Value(&result.Mode),
			huh.NewInput().
				Title("Minutes available (blank for a full day)").
				Placeholder("480").
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					n, err := strconv.Atoi(s)
					if err != nil || n < 0 {
						return fmt.Errorf("enter a non-negative number of minutes")
					}
					return nil
				}).
				Value(&availableStr),
		),
	).WithTheme(dayflowHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return checkinResult{}, err
	}

	if availableStr != "" {
		result.AvailableMin, _ = strconv.Atoi(availableStr)
	}
	return result, nil
}
