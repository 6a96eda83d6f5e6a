package domain

import (
	"errors"
	"testing"
	"time"
)

func TestStatusVisibility(t *testing.T) {
	tests := []struct {
		status Status
		want   Visibility
	}{
		{StatusToAsk, Visibility{}},
		{StatusAsked, Visibility{}},
		{StatusRejected, Visibility{}},
		{StatusLetterSent, Visibility{NextStepDate: true}},
		{StatusContacted, Visibility{NextStepDate: true}},
		{StatusPledged, Visibility{NextStepDate: true, PledgedAmount: true}},
		{StatusConfirmed, Visibility{PledgedAmount: true, Confirmed: true}},
	}
	if len(tests) != len(Statuses) {
		t.Fatalf("table covers %d statuses, want %d", len(tests), len(Statuses))
	}
	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			if got := tc.status.Visibility(); got != tc.want {
				t.Fatalf("Visibility() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestStatusNextStepLabel(t *testing.T) {
	tests := map[Status]string{
		StatusToAsk:      "Ask for Support",
		StatusAsked:      "Send Letter",
		StatusLetterSent: "Contact regarding letter",
		StatusContacted:  "Follow up regarding decision",
		StatusPledged:    "Follow up on pledge",
	}
	for status, want := range tests {
		if got := status.NextStepLabel(); got != want {
			t.Fatalf("%q.NextStepLabel() = %q, want %q", status, got, want)
		}
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses {
		if !s.Valid() {
			t.Fatalf("%q should be valid", s)
		}
	}
	if Status("Maybe").Valid() {
		t.Fatalf("unknown status reported valid")
	}
}

func TestIsConfirmedContribution(t *testing.T) {
	amount := func(v float64) *float64 { return &v }
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		partner Partner
		want    bool
	}{
		{"amount and date", Partner{ConfirmedAmount: amount(100), ConfirmedDate: &day}, true},
		{"zero amount", Partner{ConfirmedAmount: amount(0), ConfirmedDate: &day}, false},
		{"missing date", Partner{ConfirmedAmount: amount(100)}, false},
		{"missing amount", Partner{ConfirmedDate: &day}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.partner.IsConfirmedContribution(); got != tc.want {
				t.Fatalf("IsConfirmedContribution() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := Invalid("pledged_amount", "must be a number")
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ValidationError to match ErrValidationFailed")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "pledged_amount" {
		t.Fatalf("unexpected error: %#v", err)
	}
}
