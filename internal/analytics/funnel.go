package analytics

import (
	"sort"

	"github.com/agencypulse/agencypulse/internal/models"
)

// Stage is one level of the Dials -> Contacts -> Quotes -> Issued pipeline.
type Stage struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Count float64 `json:"count"`
}

// Transition is the step between two adjacent stages.
type Transition struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	FromCount float64 `json:"from_count"`
	ToCount   float64 `json:"to_count"`
	Rate      float64 `json:"rate"`
	Drop      float64 `json:"drop"`
}

// Funnel is the 4-stage pipeline for the agency or one agent.
type Funnel struct {
	Stages      []Stage      `json:"stages"`
	Transitions []Transition `json:"transitions"`
	// WorstTransition is the lowest-rate transition among those with a
	// nonzero fromCount; ties keep the first encountered.
	WorstTransition *Transition `json:"worst_transition"`
}

// FunnelData bundles the agency funnel with the per-agent variants.
// Agents carries the deterministic ordering JSON maps lose.
type FunnelData struct {
	Agency  Funnel            `json:"agency"`
	ByAgent map[string]Funnel `json:"by_agent"`
	Agents  []string          `json:"agents"`
}

// ComputeFunnel builds the pipeline from filtered rows. Quotes counts every
// quote-log row that is quoted or issued, so an issued row still counts as a
// quote that progressed.
func ComputeFunnel(activity []models.ActivityRecord, quoteSales []models.QuoteSaleRecord) Funnel {
	var dials, contacts float64
	for _, r := range activity {
		dials += r.DialsMade
		contacts += r.ContactsMade
	}

	var quoted, issued float64
	for _, r := range quoteSales {
		switch lower(r.Status) {
		case "quoted":
			quoted++
		case "issued":
			issued++
		}
	}
	quotes := quoted + issued

	f := Funnel{
		Stages: []Stage{
			{Key: "dials", Label: "Dials", Count: dials},
			{Key: "contacts", Label: "Contacts", Count: contacts},
			{Key: "quotes", Label: "Quotes", Count: quotes},
			{Key: "issued", Label: "Issued", Count: issued},
		},
		Transitions: []Transition{
			{From: "Dials", To: "Contacts", FromCount: dials, ToCount: contacts, Rate: div(contacts, dials), Drop: div(dials-contacts, dials)},
			{From: "Contacts", To: "Quotes", FromCount: contacts, ToCount: quotes, Rate: div(quotes, contacts), Drop: div(contacts-quotes, contacts)},
			{From: "Quotes", To: "Issued", FromCount: quotes, ToCount: issued, Rate: div(issued, quotes), Drop: div(quotes-issued, quotes)},
		},
	}

	for i := range f.Transitions {
		t := f.Transitions[i]
		if t.FromCount <= 0 {
			continue
		}
		if f.WorstTransition == nil || t.Rate < f.WorstTransition.Rate {
			tc := t
			f.WorstTransition = &tc
		}
	}
	return f
}

// ComputeFunnelData runs the same funnel at agency level and per agent.
func ComputeFunnelData(activity []models.ActivityRecord, quoteSales []models.QuoteSaleRecord) FunnelData {
	actByAgent := map[string][]models.ActivityRecord{}
	qsByAgent := map[string][]models.QuoteSaleRecord{}
	for _, r := range activity {
		k := agentKey(r.AgentName)
		actByAgent[k] = append(actByAgent[k], r)
	}
	for _, r := range quoteSales {
		k := agentKey(r.AgentName)
		qsByAgent[k] = append(qsByAgent[k], r)
	}

	names := map[string]bool{}
	for k := range actByAgent {
		names[k] = true
	}
	for k := range qsByAgent {
		names[k] = true
	}

	byAgent := make(map[string]Funnel, len(names))
	agents := make([]string, 0, len(names))
	for name := range names {
		byAgent[name] = ComputeFunnel(actByAgent[name], qsByAgent[name])
		agents = append(agents, name)
	}
	sort.Strings(agents)

	return FunnelData{
		Agency:  ComputeFunnel(activity, quoteSales),
		ByAgent: byAgent,
		Agents:  agents,
	}
}

// TargetStatus classifies a transition against its goal target.
type TargetStatus string

const (
	TargetOn TargetStatus = "on-target"
	// TargetNear means actual >= 75% of target.
	TargetNear TargetStatus = "near-target"
	TargetOff  TargetStatus = "off-target"
	// TargetUnclassified means the target is zero/unset; no verdict is
	// implied against an unset goal.
	TargetUnclassified TargetStatus = "unclassified"
)

// TransitionAssessment is a transition judged against its configured target.
type TransitionAssessment struct {
	Transition
	TargetPct float64      `json:"target_pct"`
	Status    TargetStatus `json:"status"`
}

func targetPctFor(t Transition, goals models.GoalTargets) float64 {
	from, to := lower(t.From), lower(t.To)
	switch {
	case from == "dials" && to == "contacts":
		return goals.ContactRatePct
	case from == "contacts" && to == "quotes":
		return goals.QuoteRatePct
	case from == "quotes" && (to == "issued" || to == "sales"):
		return goals.IssueRatePct
	}
	return 0
}

// AssessTransitions classifies each funnel transition against the goal
// targets.
func AssessTransitions(f Funnel, goals models.GoalTargets) []TransitionAssessment {
	out := make([]TransitionAssessment, 0, len(f.Transitions))
	for _, t := range f.Transitions {
		target := targetPctFor(t, goals)
		a := TransitionAssessment{Transition: t, TargetPct: target}
		actualPct := t.Rate * 100
		switch {
		case target <= 0:
			a.Status = TargetUnclassified
		case actualPct >= target:
			a.Status = TargetOn
		case actualPct >= 0.75*target:
			a.Status = TargetNear
		default:
			a.Status = TargetOff
		}
		out = append(out, a)
	}
	return out
}

// WorstOffTarget returns the transition furthest below its target in
// percentage points, skipping zero-target and zero-fromCount transitions.
// Nil when nothing is below target.
func WorstOffTarget(f Funnel, goals models.GoalTargets) *TransitionAssessment {
	var worst *TransitionAssessment
	worstGap := 0.0
	for _, a := range AssessTransitions(f, goals) {
		if a.FromCount <= 0 || a.TargetPct <= 0 {
			continue
		}
		gap := a.TargetPct - a.Rate*100
		if gap > worstGap {
			worstGap = gap
			ac := a
			worst = &ac
		}
	}
	return worst
}
