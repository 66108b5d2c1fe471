package analytics

import (
	"time"

	"github.com/agencypulse/agencypulse/internal/models"
	"github.com/agencypulse/agencypulse/internal/timeframe"
)

// Input is one consistent view of the three normalized, unfiltered datasets
// plus the active selection. Everything Compute derives comes from here.
type Input struct {
	Activity   []models.ActivityRecord
	QuoteSales []models.QuoteSaleRecord
	PaidLeads  []models.PaidLeadRecord

	Mode        timeframe.Mode
	CustomStart string
	CustomEnd   string
	Granularity timeframe.Granularity // optional override
	WeekStart   time.Weekday
	Goals       models.GoalTargets

	// Now anchors preset ranges; zero means time.Now().
	Now time.Time
}

// Result is the full analytics snapshot served to callers.
type Result struct {
	RangeMode  timeframe.Mode   `json:"range_mode"`
	Range      *timeframe.Range `json:"range"`
	RangeLabel string           `json:"range_label"`
	Coverage   *timeframe.Range `json:"coverage"`

	CoreMetrics CoreMetrics `json:"core_metrics"`
	DataHealth  DataHealth  `json:"data_health"`
	AgentRows   []AgentRow  `json:"agent_rows"`
	FunnelData  FunnelData  `json:"funnel_data"`

	// TransitionAssessments judge the agency funnel against the goals.
	TransitionAssessments []TransitionAssessment `json:"transition_assessments"`
	WorstOffTarget        *TransitionAssessment  `json:"worst_off_target"`

	ROIRows           []ROIRow           `json:"roi_rows"`
	QuoteActivityRows []QuoteActivityRow `json:"quote_activity_rows"`

	IssuedPremiumSeries  AgentSeries    `json:"issued_premium_series"`
	IssuedPolicySeries   AgentSeries    `json:"issued_policy_series"`
	ActivityFunnelSeries ActivitySeries `json:"activity_funnel_series"`
	LOBMixSeries         LOBMixSeries   `json:"lob_mix_series"`

	AgentInsights AgentInsights `json:"agent_insights"`
}

// Coverage reports the union [min, max] date span across the three
// unfiltered datasets, for user orientation. Nil when nothing parses.
func Coverage(activity []models.ActivityRecord, quoteSales []models.QuoteSaleRecord, paidLeads []models.PaidLeadRecord) *timeframe.Range {
	actDates := make([]string, 0, len(activity))
	for _, r := range activity {
		actDates = append(actDates, r.Date)
	}
	qsDates := make([]string, 0, len(quoteSales))
	for _, r := range quoteSales {
		qsDates = append(qsDates, r.Date)
	}
	plDates := make([]string, 0, len(paidLeads))
	for _, r := range paidLeads {
		plDates = append(plDates, r.Date)
	}
	return timeframe.Union(timeframe.Span(actDates), timeframe.Span(qsDates), timeframe.Span(plDates))
}

// Compute runs the whole pipeline: resolve the range, filter each dataset by
// its effective-date rule, then derive every aggregate from the filtered
// rows. Pure function of its input; identical inputs produce identical
// results.
func Compute(in Input) Result {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	goals := in.Goals.Clamped()

	activeRange := timeframe.Resolve(in.Mode, in.CustomStart, in.CustomEnd, now)

	activity := FilterActivity(in.Activity, activeRange)
	quoteSales := FilterQuoteSales(in.QuoteSales, activeRange)
	paidLeads := FilterPaidLeads(in.PaidLeads, activeRange)

	agentRows := ComputeAgentRows(activity, quoteSales)
	funnelData := ComputeFunnelData(activity, quoteSales)

	seriesOpts := SeriesOptions{
		Mode:        in.Mode,
		Range:       activeRange,
		Granularity: in.Granularity,
		WeekStart:   in.WeekStart,
	}
	lobGranularity := in.Granularity
	if lobGranularity == "" {
		lobGranularity = timeframe.PickGranularity(in.Mode, activeRange)
	}

	return Result{
		RangeMode:  in.Mode,
		Range:      activeRange,
		RangeLabel: timeframe.Label(in.Mode, activeRange),
		Coverage:   Coverage(in.Activity, in.QuoteSales, in.PaidLeads),

		CoreMetrics: ComputeCoreMetrics(activity, quoteSales, paidLeads),
		DataHealth:  ComputeDataHealth(activity, quoteSales, paidLeads),
		AgentRows:   agentRows,
		FunnelData:  funnelData,

		TransitionAssessments: AssessTransitions(funnelData.Agency, goals),
		WorstOffTarget:        WorstOffTarget(funnelData.Agency, goals),

		ROIRows:           ComputeLeadSourceROI(quoteSales, paidLeads),
		QuoteActivityRows: ComputeLeadSourceQuoteActivity(quoteSales),

		IssuedPremiumSeries:  IssuedPremiumSeries(quoteSales, seriesOpts),
		IssuedPolicySeries:   IssuedPolicySeries(quoteSales, seriesOpts),
		ActivityFunnelSeries: ActivityFunnelSeries(activity, seriesOpts),
		LOBMixSeries: ComputeLOBMixSeries(quoteSales, LOBMixOptions{
			Granularity: lobGranularity,
			WeekStart:   in.WeekStart,
			Range:       activeRange,
		}),

		AgentInsights: ComputeAgentInsights(agentRows, goals),
	}
}
