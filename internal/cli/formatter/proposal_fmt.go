package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkoziel/dayflow/internal/domain"
)

// FormatProposalList renders pending proposals with their primary actions.
func FormatProposalList(proposals []*domain.Proposal, now time.Time) string {
	if len(proposals) == 0 {
		return Dim("No pending proposals.") + "\n"
	}

	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Pending Proposals (%d)", len(proposals))))
	b.WriteString("\n\n")
	for i, p := range proposals {
		b.WriteString(FormatProposal(p, now))
		if i < len(proposals)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatProposal renders one proposal with its actions and expiry.
func FormatProposal(p *domain.Proposal, now time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s %s\n", TruncID(p.ID), Bold(p.Reason)))
	b.WriteString(fmt.Sprintf("  %s %s\n", StyleGreen.Render("→"), describeAction(p.Primary)))
	for _, alt := range p.Alternatives {
		b.WriteString(fmt.Sprintf("  %s %s\n", Dim("or"), Dim(describeAction(alt))))
	}

	remaining := p.ExpiresAt.Sub(now)
	if remaining > 0 {
		b.WriteString(fmt.Sprintf("  %s\n",
			Dim(fmt.Sprintf("expires in %s", FormatMinutes(int(remaining.Minutes()))))))
	} else {
		b.WriteString(fmt.Sprintf("  %s\n", StyleYellow.Render("expired")))
	}

	return b.String()
}

func describeAction(a domain.ProposalAction) string {
	switch a.Type {
	case domain.ActionMoveTask:
		when := "later"
		if a.ToDate != nil {
			when = a.ToDate.Format("Jan 2")
		}
		return fmt.Sprintf("move task %s to %s", shortID(a.TaskID), when)
	case domain.ActionReorderTask:
		return fmt.Sprintf("pull task %s forward", shortID(a.TaskID))
	case domain.ActionDecomposeTask:
		if target, ok := a.Params["target_duration"]; ok {
			return fmt.Sprintf("split task %s into ~%sm chunks", shortID(a.TaskID), target)
		}
		return fmt.Sprintf("split task %s into smaller chunks", shortID(a.TaskID))
	case domain.ActionReserveMorning:
		at := a.Params["time"]
		return fmt.Sprintf("reserve %s tomorrow for task %s", at, shortID(a.TaskID))
	case domain.ActionTakeBreak:
		return "take a break before the next task"
	default:
		return string(a.Type)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
