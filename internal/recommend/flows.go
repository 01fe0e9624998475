package recommend

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkoziel/dayflow/internal/domain"
	"github.com/pkoziel/dayflow/internal/scoring"
)

// sliderShiftThreshold is the energy/focus jump that triggers a re-plan
// suggestion.
const sliderShiftThreshold = 2

func newProposal(recType domain.RecommendationType, reason string, primary domain.ProposalAction, now time.Time) *domain.Proposal {
	return &domain.Proposal{
		ID:        uuid.New().String(),
		Type:      recType,
		Reason:    reason,
		Primary:   primary,
		Status:    domain.ProposalPending,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.DefaultProposalTTL),
	}
}

// OnTaskAdded reacts to a new task landing on an already full day. The
// primary move pushes the lowest-value non-must task to tomorrow;
// alternatives offer moving the new task itself, or splitting it when it is
// the real problem.
func OnTaskAdded(newTask domain.Task, dayTasks []domain.Task, profile *domain.BehaviorProfile, now time.Time) *domain.Proposal {
	if profile == nil {
		profile = domain.DefaultProfile("")
	}

	var victim *domain.Task
	var victimScore float64
	for i := range dayTasks {
		t := dayTasks[i]
		if t.Completed || t.IsMust || t.ID == newTask.ID {
			continue
		}
		score := scoring.TaskScore(t, now)
		if victim == nil || score < victimScore {
			victim = &dayTasks[i]
			victimScore = score
		}
	}
	if victim == nil {
		return nil
	}

	tomorrow := domain.Tomorrow(domain.DateOf(now))
	proposal := newProposal(
		domain.RecDefer,
		fmt.Sprintf("Adding %q overloads today; %q contributes the least right now", newTask.Title, victim.Title),
		domain.ProposalAction{
			Type:   domain.ActionMoveTask,
			TaskID: victim.ID,
			ToDate: &tomorrow,
		},
		now,
	)

	proposal.Alternatives = append(proposal.Alternatives, domain.ProposalAction{
		Type:   domain.ActionMoveTask,
		TaskID: newTask.ID,
		ToDate: &tomorrow,
	})
	if newTask.EstimateMin > profile.PreferredDurationMin*2 {
		proposal.Alternatives = append(proposal.Alternatives, domain.ProposalAction{
			Type:   domain.ActionDecomposeTask,
			TaskID: newTask.ID,
			Params: map[string]string{"target_duration": fmt.Sprintf("%d", profile.PreferredDurationMin)},
		})
	}
	return proposal
}

// OnPostponeEscalation fires once a task's postpone count crosses the
// escalation threshold: reserve tomorrow's first morning slot for it, with
// decomposition as the fallback.
func OnPostponeEscalation(task domain.Task, now time.Time) *domain.Proposal {
	if task.PostponeCount < scoring.PostponeEscalationThreshold {
		return nil
	}

	tomorrow := domain.Tomorrow(domain.DateOf(now))
	proposal := newProposal(
		domain.RecReserveMorning,
		fmt.Sprintf("%q has been postponed %d times; protect a fresh slot for it", task.Title, task.PostponeCount),
		domain.ProposalAction{
			Type:   domain.ActionReserveMorning,
			TaskID: task.ID,
			ToDate: &tomorrow,
			Params: map[string]string{"time": "08:00"},
		},
		now,
	)
	proposal.Alternatives = []domain.ProposalAction{{
		Type:   domain.ActionDecomposeTask,
		TaskID: task.ID,
		Params: map[string]string{"target_duration": fmt.Sprintf("%d", decomposeMaxSession)},
	}}
	return proposal
}

// OnSliderChange reacts to a material mid-day energy or focus shift. A drop
// suggests shrinking or moving the hardest pending task; a surge suggests
// pulling heavy work forward.
func OnSliderChange(oldState, newState float64, ranked []domain.Task, profile *domain.BehaviorProfile, now time.Time) *domain.Proposal {
	delta := newState - oldState
	if delta < sliderShiftThreshold && delta > -sliderShiftThreshold {
		return nil
	}
	if profile == nil {
		profile = domain.DefaultProfile("")
	}

	if delta < 0 {
		hardest := pickByLoad(ranked, func(load, best int) bool { return load > best })
		if hardest == nil {
			return nil
		}
		tomorrow := domain.Tomorrow(domain.DateOf(now))
		proposal := newProposal(
			domain.RecEnergyMismatch,
			fmt.Sprintf("Energy dropped; %q is the heaviest item left", hardest.Title),
			domain.ProposalAction{
				Type:   domain.ActionMoveTask,
				TaskID: hardest.ID,
				ToDate: &tomorrow,
			},
			now,
		)
		if hardest.EstimateMin > profile.PreferredDurationMin {
			proposal.Alternatives = []domain.ProposalAction{{
				Type:   domain.ActionDecomposeTask,
				TaskID: hardest.ID,
				Params: map[string]string{"target_duration": fmt.Sprintf("%d", profile.PreferredDurationMin)},
			}}
		}
		return proposal
	}

	hardest := pickByLoad(ranked, func(load, best int) bool { return load > best })
	if hardest == nil || len(ranked) == 0 || ranked[0].ID == hardest.ID {
		return nil
	}
	return newProposal(
		domain.RecReorder,
		fmt.Sprintf("Energy surged; front-load %q while it lasts", hardest.Title),
		domain.ProposalAction{
			Type:   domain.ActionReorderTask,
			TaskID: hardest.ID,
			Params: map[string]string{"before": ranked[0].ID},
		},
		now,
	)
}

func pickByLoad(tasks []domain.Task, better func(load, best int) bool) *domain.Task {
	var pick *domain.Task
	for i := range tasks {
		if tasks[i].Completed {
			continue
		}
		if pick == nil || better(tasks[i].CognitiveLoad, pick.CognitiveLoad) {
			pick = &tasks[i]
		}
	}
	return pick
}
