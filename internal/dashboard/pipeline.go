// Package dashboard derives progress figures from a user's partner list.
//
// Every function here is pure: results are recomputed from the input on each
// call and the input slice is never reordered or modified.
package dashboard

import (
	"math"
	"slices"
	"strconv"
	"time"

	"supportraise/internal/domain"
)

// MaxNextSteps caps the next-steps list shown on the dashboard.
const MaxNextSteps = 4

// NoPercent is displayed when a percentage cannot be computed.
const NoPercent = "—"

// NextStep is a partner that needs attention on or after Date.
type NextStep struct {
	PartnerID string        `json:"partner_id"`
	Name      string        `json:"name"`
	Status    domain.Status `json:"status"`
	Label     string        `json:"label"`
	Date      time.Time     `json:"date"`
}

// SeriesPoint is one step of the cumulative confirmed-support series.
type SeriesPoint struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
	Total  float64   `json:"total"`
}

// Summary is the full set of derived dashboard values.
type Summary struct {
	Support        float64          `json:"support"`
	TotalPledged   float64          `json:"total_pledged"`
	Supporters     int              `json:"supporters"`
	Target         float64          `json:"target"`
	Deadline       time.Time        `json:"deadline"`
	DaysRemaining  int              `json:"days_remaining"`
	PercentRaised  float64          `json:"-"`
	PercentPledged float64          `json:"-"`
	NextSteps      []NextStep       `json:"next_steps"`
	Confirmed      []domain.Partner `json:"confirmed"`
	Series         []SeriesPoint    `json:"series"`
}

// TotalPledged sums pledged amounts, treating absent values as zero.
func TotalPledged(partners []domain.Partner) float64 {
	var total float64
	for _, p := range partners {
		if p.PledgedAmount != nil {
			total += *p.PledgedAmount
		}
	}
	return total
}

// TotalSupport sums confirmed amounts, treating absent values as zero.
func TotalSupport(partners []domain.Partner) float64 {
	var total float64
	for _, p := range partners {
		if p.ConfirmedAmount != nil {
			total += *p.ConfirmedAmount
		}
	}
	return total
}

// SupporterCount counts partners with any confirmed amount, zero included.
func SupporterCount(partners []domain.Partner) int {
	n := 0
	for _, p := range partners {
		if p.ConfirmedAmount != nil {
			n++
		}
	}
	return n
}

// DaysRemaining returns whole days from now until deadline, truncated toward
// zero. The result goes negative once the deadline has passed.
func DaysRemaining(deadline, now time.Time) int {
	return int(deadline.Sub(now) / (24 * time.Hour))
}

// Percent returns part as a percentage of target. A zero target yields a
// non-finite value.
func Percent(part, target float64) float64 {
	return part / target * 100
}

// FormatPercent renders v with one decimal place, or NoPercent when v is not
// finite. Ties round away from zero, so 12.25 renders as "12.3".
func FormatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NoPercent
	}
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}

// NextSteps returns up to MaxNextSteps partners with a pending next-step date,
// earliest first. Confirmed partners are never included.
func NextSteps(partners []domain.Partner) []NextStep {
	pending := make([]domain.Partner, 0, len(partners))
	for _, p := range partners {
		if p.NextStepDate == nil {
			continue
		}
		if p.Status == domain.StatusConfirmed {
			continue
		}
		pending = append(pending, p)
	}
	slices.SortStableFunc(pending, func(a, b domain.Partner) int {
		return a.NextStepDate.Compare(*b.NextStepDate)
	})
	if len(pending) > MaxNextSteps {
		pending = pending[:MaxNextSteps]
	}

	steps := make([]NextStep, 0, len(pending))
	for _, p := range pending {
		steps = append(steps, NextStep{
			PartnerID: p.ID,
			Name:      p.Name,
			Status:    p.Status,
			Label:     p.Status.NextStepLabel(),
			Date:      *p.NextStepDate,
		})
	}
	return steps
}

// ConfirmedContributions returns partners with a positive confirmed amount and
// a receipt date, ordered by that date.
func ConfirmedContributions(partners []domain.Partner) []domain.Partner {
	confirmed := make([]domain.Partner, 0, len(partners))
	for _, p := range partners {
		if p.IsConfirmedContribution() {
			confirmed = append(confirmed, p)
		}
	}
	slices.SortStableFunc(confirmed, func(a, b domain.Partner) int {
		return a.ConfirmedDate.Compare(*b.ConfirmedDate)
	})
	return confirmed
}

// CumulativeSeries turns an ordered confirmed list into a running total.
func CumulativeSeries(confirmed []domain.Partner) []SeriesPoint {
	points := make([]SeriesPoint, 0, len(confirmed))
	var total float64
	for _, p := range confirmed {
		if p.ConfirmedAmount == nil || p.ConfirmedDate == nil {
			continue
		}
		total += *p.ConfirmedAmount
		points = append(points, SeriesPoint{
			Date:   *p.ConfirmedDate,
			Amount: *p.ConfirmedAmount,
			Total:  total,
		})
	}
	return points
}

// Summarize computes every dashboard value. A nil stats document behaves like
// a zero target due today.
func Summarize(partners []domain.Partner, stats *domain.Statistics, now time.Time) Summary {
	target := 0.0
	deadline := now
	if stats != nil {
		target = stats.Target
		deadline = stats.Deadline
	}

	support := TotalSupport(partners)
	pledged := TotalPledged(partners)
	confirmed := ConfirmedContributions(partners)

	return Summary{
		Support:        support,
		TotalPledged:   pledged,
		Supporters:     SupporterCount(partners),
		Target:         target,
		Deadline:       deadline,
		DaysRemaining:  DaysRemaining(deadline, now),
		PercentRaised:  Percent(support, target),
		PercentPledged: Percent(pledged, target),
		NextSteps:      NextSteps(partners),
		Confirmed:      confirmed,
		Series:         CumulativeSeries(confirmed),
	}
}
