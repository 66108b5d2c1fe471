package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/agencypulse/agencypulse/internal/models"
)

// Thresholds are the cross-agent percentile cutoffs used for flagging.
type Thresholds struct {
	HighConversion float64 `json:"high_conversion"` // p75 of conversion rate
	LowVolume      float64 `json:"low_volume"`      // p25 of dial volume
	HighQuotes     float64 `json:"high_quotes"`     // p75 of quote volume
	LowIssued      float64 `json:"low_issued"`      // p25 of issued volume
	LowIssueRate   float64 `json:"low_issue_rate"`  // p25 of issued/quotes
}

// Benchmarks are the agency-wide averages agents are compared against.
type Benchmarks struct {
	ContactRate float64 `json:"contact_rate"`
	PitchRate   float64 `json:"pitch_rate"`
}

// Flag is one qualitative observation about an agent.
type Flag struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Detail string `json:"detail"`
}

// InsightKPIs are the per-agent numbers the flags were derived from.
type InsightKPIs struct {
	Dials                   float64  `json:"dials"`
	Contacts                float64  `json:"contacts"`
	Quotes                  int      `json:"quotes"`
	Issued                  int      `json:"issued"`
	ConversionRate          float64  `json:"conversion_rate"`
	ContactRate             float64  `json:"contact_rate"`
	PitchRate               float64  `json:"pitch_rate"`
	IssuedPremium           float64  `json:"issued_premium"`
	MultilinePitchRate      float64  `json:"multiline_pitch_rate"`
	MultilineConversionRate float64  `json:"multiline_conversion_rate"`
	AttachRate              float64  `json:"attach_rate"`
	MultilineLift           *float64 `json:"multiline_lift"`
}

// AgentInsight is one agent's flags plus directional commentary against the
// agency benchmarks and the configured targets.
type AgentInsight struct {
	KPIs       InsightKPIs `json:"kpis"`
	Flags      []Flag      `json:"flags"`
	Commentary []Flag      `json:"commentary"`
}

// AgentInsights is the full flagging output.
type AgentInsights struct {
	ByAgent    map[string]AgentInsight `json:"by_agent"`
	Thresholds Thresholds              `json:"thresholds"`
	Benchmarks Benchmarks              `json:"benchmarks"`
}

// Percentile is nearest-rank on an ascending sort: index round(p/100*(n-1)).
// Empty input yields 0.
func Percentile(values []float64, pct float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	idx := int(math.Round(pct / 100 * float64(len(sorted)-1)))
	return sorted[idx]
}

func issueRate(row AgentRow) float64 {
	return div(float64(row.Issued), float64(row.Quotes))
}

// ComputeAgentInsights flags each agent against cross-agent percentile
// thresholds and compares their contact/pitch efficiency to the agency
// averages and the configured targets.
func ComputeAgentInsights(rows []AgentRow, goals models.GoalTargets) AgentInsights {
	var totalDials, totalContacts, totalQuotes float64
	conversions := make([]float64, 0, len(rows))
	dialVolumes := make([]float64, 0, len(rows))
	quoteVolumes := make([]float64, 0, len(rows))
	issuedVolumes := make([]float64, 0, len(rows))
	issueRates := make([]float64, 0, len(rows))
	for _, row := range rows {
		totalDials += row.Dials
		totalContacts += row.Contacts
		totalQuotes += float64(row.Quotes)
		conversions = append(conversions, row.ConversionRate)
		dialVolumes = append(dialVolumes, row.Dials)
		quoteVolumes = append(quoteVolumes, float64(row.Quotes))
		issuedVolumes = append(issuedVolumes, float64(row.Issued))
		issueRates = append(issueRates, issueRate(row))
	}

	benchmarks := Benchmarks{
		ContactRate: div(totalContacts, totalDials),
		PitchRate:   div(totalQuotes, totalContacts),
	}
	thresholds := Thresholds{
		HighConversion: Percentile(conversions, 75),
		LowVolume:      Percentile(dialVolumes, 25),
		HighQuotes:     Percentile(quoteVolumes, 75),
		LowIssued:      Percentile(issuedVolumes, 25),
		LowIssueRate:   Percentile(issueRates, 25),
	}

	byAgent := make(map[string]AgentInsight, len(rows))
	for _, row := range rows {
		var flags []Flag
		if row.ConversionRate >= thresholds.HighConversion && row.Dials <= thresholds.LowVolume {
			flags = append(flags, Flag{
				Key:    "high-conversion-low-volume",
				Label:  "High conversion, low volume",
				Detail: "Strong close rate on limited outreach.",
			})
		}
		if float64(row.Quotes) >= thresholds.HighQuotes &&
			(float64(row.Issued) <= thresholds.LowIssued || issueRate(row) <= thresholds.LowIssueRate) {
			flags = append(flags, Flag{
				Key:    "high-quotes-low-issuance",
				Label:  "High quotes, low issuance",
				Detail: "Quoting volume is strong, issued count trails.",
			})
		}
		if len(flags) == 0 {
			flags = append(flags, Flag{
				Key:    "within-benchmark",
				Label:  "No concerns noted",
				Detail: "Agent performance is within benchmark.",
			})
		}

		byAgent[row.Agent] = AgentInsight{
			KPIs: InsightKPIs{
				Dials:                   row.Dials,
				Contacts:                row.Contacts,
				Quotes:                  row.Quotes,
				Issued:                  row.Issued,
				ConversionRate:          row.ConversionRate,
				ContactRate:             row.ContactRate,
				PitchRate:               row.QuotesPerContact,
				IssuedPremium:           row.IssuedPremium,
				MultilinePitchRate:      row.MultilinePitchRate,
				MultilineConversionRate: row.MultilineConversionRate,
				AttachRate:              row.AttachRate,
				MultilineLift:           row.MultilineLift,
			},
			Flags:      flags,
			Commentary: commentary(row, benchmarks, goals),
		}
	}

	return AgentInsights{ByAgent: byAgent, Thresholds: thresholds, Benchmarks: benchmarks}
}

func pctText(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func rateCommentary(key, label, metric, lever string, agentRate, averageRate, targetRate float64) Flag {
	averageLine := fmt.Sprintf("Agency average %s is not available yet.", metric)
	if averageRate > 0 {
		delta := agentRate - averageRate
		dir := "above"
		if delta < 0 {
			dir = "below"
		}
		averageLine = fmt.Sprintf("%s of %s is %s %s the agency average (%s).",
			capitalize(metric), pctText(agentRate), pctText(math.Abs(delta)), dir, pctText(averageRate))
	}

	detail := averageLine
	if targetRate > 0 {
		delta := agentRate - targetRate
		dir := "above"
		if delta < 0 {
			dir = "below"
		}
		detail += fmt.Sprintf(" Agent is %s %s the target (%s).",
			pctText(math.Abs(delta)), dir, pctText(targetRate))
	}
	if averageRate > 0 && targetRate > 0 && agentRate < averageRate && agentRate < targetRate {
		detail += " This suggests " + lever + " may be the biggest lever."
	}
	return Flag{Key: key, Label: label, Detail: detail}
}

// commentary mirrors the coaching notes: only emitted when the agent has
// the denominator volume the rate is built on.
func commentary(row AgentRow, b Benchmarks, goals models.GoalTargets) []Flag {
	var out []Flag
	if row.Dials > 0 {
		out = append(out, rateCommentary(
			"contact-rate-gap", "Contact Efficiency", "contact rate",
			"dialing strategy, timing, or list quality",
			row.ContactRate, b.ContactRate, goals.ContactRatePct/100))
	}
	if row.Contacts > 0 {
		out = append(out, rateCommentary(
			"pitch-rate-gap", "Pitch Efficiency", "pitch rate",
			"pitch quality, qualification, or discovery",
			row.QuotesPerContact, b.PitchRate, goals.QuoteRatePct/100))
	}
	return out
}
