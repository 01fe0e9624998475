package formatter

import (
	"fmt"
	"strings"

	"github.com/pkoziel/dayflow/internal/app"
	"github.com/pkoziel/dayflow/internal/domain"
)

// FormatPlan renders a planning cycle as a styled queue with
// recommendations underneath.
func FormatPlan(resp *app.PlanResponse) string {
	var b strings.Builder

	modeLabel := strings.ToUpper(string(resp.Mode))
	b.WriteString(StylePurple.Render(fmt.Sprintf("MODE: %s", modeLabel)))
	b.WriteString("\n\n")

	b.WriteString(Header(fmt.Sprintf("Today's Queue (%d tasks)", len(resp.Ranked))))
	b.WriteString("\n\n")

	for i, r := range resp.Ranked {
		b.WriteString(formatRankedTask(i+1, r, resp))
		if i < len(resp.Ranked)-1 {
			b.WriteString("\n")
		}
	}

	if len(resp.Recommendations) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Suggestions"))
		b.WriteString("\n\n")
		for i, rec := range resp.Recommendations {
			b.WriteString(FormatRecommendation(rec))
			if i < len(resp.Recommendations)-1 {
				b.WriteString("\n")
			}
		}
	}

	if resp.LightLimitMin > 0 && resp.LightMinutes > 0 {
		b.WriteString("\n")
		b.WriteString(formatLightBudget(resp.LightMinutes, resp.LightLimitMin))
		b.WriteString("\n")
	}

	return RenderBox("Day Plan", b.String())
}

func formatRankedTask(num int, r app.RankedTask, resp *app.PlanResponse) string {
	var b strings.Builder
	task := r.Task

	title := StyleFg.Render(task.Title)
	if task.IsMust {
		title = StyleRed.Render("! ") + title
	}

	b.WriteString(fmt.Sprintf("%s %s  %s  %s  %s\n",
		Bold(fmt.Sprintf("%d.", num)),
		title,
		PriorityBadge(task.Priority),
		StyleBlue.Render(fmt.Sprintf("(%s)", FormatMinutes(task.EstimateMin))),
		LoadDots(task.CognitiveLoad),
	))

	if task.DueDate != nil {
		b.WriteString(fmt.Sprintf("   %s %s\n",
			Dim("Due:"), RelativeDateStyled(*task.DueDate, resp.GeneratedAt)))
	}
	if task.ContextType != "" {
		b.WriteString(fmt.Sprintf("   %s\n", StylePurple.Render("["+task.ContextType+"]")))
	}
	shown := 0
	for _, reason := range r.Score.Reasons {
		if reason.WeightDelta == 0 || shown == 3 {
			continue
		}
		b.WriteString(fmt.Sprintf("   %s %s\n",
			StyleYellow.Render("WHY:"), Dim(reason.Message)))
		shown++
	}
	if r.Score.Confidence > 0 {
		b.WriteString(fmt.Sprintf("   %s\n",
			Dim(fmt.Sprintf("score %.0f · confidence %.0f%%", r.Score.Total, r.Score.Confidence*100))))
	}

	return b.String()
}

// FormatRecommendation renders one smart recommendation block.
func FormatRecommendation(rec domain.SmartRecommendation) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s %s  %s\n",
		StyleGreen.Render("→"),
		Bold(rec.Title),
		ImpactBadge(rec.Impact),
	))
	for _, reason := range rec.Reasoning {
		b.WriteString(fmt.Sprintf("  %s\n", Dim(reason)))
	}
	if rec.Expected.TimeSavedMin > 0 {
		b.WriteString(fmt.Sprintf("  %s\n",
			StyleGreen.Render(fmt.Sprintf("saves ~%s", FormatMinutes(rec.Expected.TimeSavedMin)))))
	}

	return b.String()
}

func formatLightBudget(spent, limit int) string {
	line := fmt.Sprintf("Light work today: %s of %s", FormatMinutes(spent), FormatMinutes(limit))
	if spent >= limit {
		return StyleYellow.Render(line + " (the easy stuff is crowding out the day)")
	}
	return Dim(line)
}
