package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkoziel/dayflow/internal/domain"
)

// FormatTaskList renders tasks as a compact table-like listing.
func FormatTaskList(tasks []*domain.Task, now time.Time) string {
	if len(tasks) == 0 {
		return Dim("No tasks.") + "\n"
	}

	var b strings.Builder
	for _, t := range tasks {
		b.WriteString(FormatTaskLine(t, now))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatTaskLine renders one task as a single annotated line.
func FormatTaskLine(t *domain.Task, now time.Time) string {
	var parts []string

	parts = append(parts, TruncID(t.ID))
	parts = append(parts, PriorityBadge(t.Priority))

	title := StyleFg.Render(t.Title)
	if t.Completed {
		title = StyleDim.Render(t.Title) + " " + StyleGreen.Render("✔")
	} else if t.IsMust {
		title = StyleRed.Render("! ") + title
	}
	parts = append(parts, title)

	parts = append(parts, StyleBlue.Render(fmt.Sprintf("(%s)", FormatMinutes(t.EstimateMin))))
	parts = append(parts, LoadDots(t.CognitiveLoad))

	if t.ContextType != "" {
		parts = append(parts, StylePurple.Render("["+t.ContextType+"]"))
	}
	if t.DueDate != nil {
		parts = append(parts, Dim("due")+" "+RelativeDateStyled(*t.DueDate, now))
	}
	if t.PostponeCount > 0 {
		parts = append(parts, StyleYellow.Render(fmt.Sprintf("↻%d", t.PostponeCount)))
	}

	return strings.Join(parts, "  ")
}

// FormatProfile renders the learned behavior profile.
func FormatProfile(p *domain.BehaviorProfile) string {
	var b strings.Builder

	b.WriteString(Header("Behavior Profile"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %02d:00–%02d:00\n",
		Dim("Peak hours:"), p.PeakStartHour, p.PeakEndHour))
	b.WriteString(fmt.Sprintf("%s %s\n",
		Dim("Preferred session:"), FormatMinutes(p.PreferredDurationMin)))
	b.WriteString(fmt.Sprintf("%s %.0f%%\n",
		Dim("Context-switch sensitivity:"), p.SwitchSensitivity*100))

	if len(p.EnergyPatterns) > 0 {
		b.WriteString(fmt.Sprintf("%s %d hours sampled\n",
			Dim("Energy patterns:"), len(p.EnergyPatterns)))
	}
	if len(p.Streaks) > 0 {
		recent := p.RecentStreaks(7)
		completed := 0
		for _, s := range recent {
			completed += s.Completed
		}
		b.WriteString(fmt.Sprintf("%s %d tasks over the last %d active days\n",
			Dim("Recent completions:"), completed, len(recent)))
	}

	return RenderBox("", b.String())
}
