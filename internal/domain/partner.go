package domain

import "time"

// Status enumerates the stages a partner moves through while being asked for support.
type Status string

const (
	StatusToAsk      Status = "To Ask"
	StatusAsked      Status = "Asked"
	StatusLetterSent Status = "Letter Sent"
	StatusContacted  Status = "Contacted"
	StatusPledged    Status = "Pledged"
	StatusConfirmed  Status = "Confirmed"
	StatusRejected   Status = "Rejected"
)

// Statuses lists every status in pipeline order.
var Statuses = []Status{
	StatusToAsk,
	StatusAsked,
	StatusLetterSent,
	StatusContacted,
	StatusPledged,
	StatusConfirmed,
	StatusRejected,
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// NextStepLabel maps a status to the action shown on the dashboard.
func (s Status) NextStepLabel() string {
	switch s {
	case StatusToAsk:
		return "Ask for Support"
	case StatusAsked:
		return "Send Letter"
	case StatusLetterSent:
		return "Contact regarding letter"
	case StatusContacted:
		return "Follow up regarding decision"
	default:
		return "Follow up on pledge"
	}
}

// Visibility describes which optional fields are relevant for a status.
type Visibility struct {
	NextStepDate  bool `json:"next_step_date"`
	PledgedAmount bool `json:"pledged_amount"`
	Confirmed     bool `json:"confirmed"`
}

// Visibility returns the optional fields an editor shows for the status.
func (s Status) Visibility() Visibility {
	switch s {
	case StatusLetterSent, StatusContacted:
		return Visibility{NextStepDate: true}
	case StatusPledged:
		return Visibility{NextStepDate: true, PledgedAmount: true}
	case StatusConfirmed:
		return Visibility{PledgedAmount: true, Confirmed: true}
	default:
		return Visibility{}
	}
}

// Partner is one tracked supporter relationship owned by a user.
type Partner struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           *string    `json:"email"`
	Number          *string    `json:"number"`
	Status          Status     `json:"status"`
	NextStepDate    *time.Time `json:"next_step_date"`
	PledgedAmount   *float64   `json:"pledged_amount"`
	ConfirmedAmount *float64   `json:"confirmed_amount"`
	ConfirmedDate   *time.Time `json:"confirmed_date"`
	Notes           string     `json:"notes"`
	Saved           bool       `json:"saved"`
}

// IsConfirmedContribution reports whether the partner has a positive confirmed
// amount with a receipt date.
func (p Partner) IsConfirmedContribution() bool {
	return p.ConfirmedAmount != nil && *p.ConfirmedAmount > 0 && p.ConfirmedDate != nil
}
