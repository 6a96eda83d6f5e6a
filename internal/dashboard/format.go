package dashboard

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// EmptyNextSteps is shown when no partner has a pending next step.
const EmptyNextSteps = "No Next Steps. Let's get some new supporters!"

const (
	nextStepLayout = "Monday, 02/01"
	deadlineLayout = "Monday, 02 January"
)

// Display carries the human-readable strings for a Summary.
type Display struct {
	Support         string            `json:"support"`
	Target          string            `json:"target"`
	TotalPledged    string            `json:"total_pledged"`
	PercentRaised   string            `json:"percent_raised"`
	PercentPledged  string            `json:"percent_pledged"`
	RaisedLine      string            `json:"raised_line"`
	PledgedLine     string            `json:"pledged_line"`
	Deadline        string            `json:"deadline"`
	DeadlineCaption string            `json:"deadline_caption"`
	NextStepDates   map[string]string `json:"next_step_dates"`
	NextStepsEmpty  string            `json:"next_steps_empty,omitempty"`
}

// View is the dashboard payload: the summary, JSON-safe percentages and display strings.
type View struct {
	Summary
	PercentRaised  *float64 `json:"percent_raised"`
	PercentPledged *float64 `json:"percent_pledged"`
	Display        Display  `json:"display"`
}

// Formatter renders amounts and dates for one locale and time zone.
type Formatter struct {
	printer *message.Printer
	loc     *time.Location
}

// NewFormatter returns a Formatter for tag. A nil loc means UTC.
func NewFormatter(tag language.Tag, loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{printer: message.NewPrinter(tag), loc: loc}
}

// Amount renders a currency amount with locale grouping.
func (f *Formatter) Amount(v float64) string {
	return "$" + f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// View assembles the payload for s.
func (f *Formatter) View(s Summary) View {
	raised := FormatPercent(s.PercentRaised)
	pledged := FormatPercent(s.PercentPledged)
	deadline := s.Deadline.In(f.loc).Format(deadlineLayout)

	d := Display{
		Support:         f.Amount(s.Support),
		Target:          f.Amount(s.Target),
		TotalPledged:    f.Amount(s.TotalPledged),
		PercentRaised:   raised,
		PercentPledged:  pledged,
		RaisedLine:      "Of " + f.Amount(s.Target) + " raised (" + withSign(raised) + ").",
		PledgedLine:     f.Amount(s.TotalPledged) + " pledged (" + withSign(pledged) + ").",
		Deadline:        deadline,
		DeadlineCaption: "Days left until the 100% deadline (" + deadline + ")",
		NextStepDates:   make(map[string]string, len(s.NextSteps)),
	}
	for _, step := range s.NextSteps {
		d.NextStepDates[step.PartnerID] = step.Date.In(f.loc).Format(nextStepLayout)
	}
	if len(s.NextSteps) == 0 {
		d.NextStepsEmpty = EmptyNextSteps
	}

	return View{
		Summary:        s,
		PercentRaised:  finite(s.PercentRaised),
		PercentPledged: finite(s.PercentPledged),
		Display:        d,
	}
}

func withSign(p string) string {
	if p == NoPercent {
		return p
	}
	return p + "%"
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
