package editor

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"supportraise/internal/domain"
)

// Field is a patch entry that tells an absent key apart from an explicit null.
type Field[T any] struct {
	Set   bool
	Value *T
}

// Value builds a Field that sets v.
func Value[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// Null builds a Field that clears the value.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// AmountText is an amount as typed into a form. It decodes from a JSON
// number or string and is validated when the patch is applied.
type AmountText string

func (a *AmountText) UnmarshalJSON(b []byte) error {
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(b)
	}
	*a = AmountText(s)
	return nil
}

// ParseAmount converts form text to an amount. Blank text is zero.
func ParseAmount(field string, text AmountText) (float64, error) {
	s := strings.TrimSpace(string(text))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, domain.Invalid(field, "must be a number")
	}
	return v, nil
}

// Patch is a set of draft edits. Only keys that are Set are applied.
type Patch struct {
	Name            Field[string]        `json:"name"`
	Email           Field[string]        `json:"email"`
	Number          Field[string]        `json:"number"`
	Status          Field[domain.Status] `json:"status"`
	Notes           Field[string]        `json:"notes"`
	NextStepDate    Field[time.Time]     `json:"next_step_date"`
	PledgedAmount   Field[AmountText]    `json:"pledged_amount"`
	ConfirmedAmount Field[AmountText]    `json:"confirmed_amount"`
	ConfirmedDate   Field[time.Time]     `json:"confirmed_date"`
}

func (p Patch) apply(d Draft) (Draft, error) {
	if p.Status.Set {
		if p.Status.Value == nil || !p.Status.Value.Valid() {
			return d, domain.Invalid("status", "unknown status")
		}
		d.Status = *p.Status.Value
	}
	visible := d.Status.Visibility()

	if p.Name.Set {
		d.Name = deref(p.Name.Value)
	}
	if p.Notes.Set {
		d.Notes = deref(p.Notes.Value)
	}
	if p.Email.Set {
		d.Email = p.Email.Value
	}
	if p.Number.Set {
		d.Number = p.Number.Value
	}

	if p.NextStepDate.Set {
		if !visible.NextStepDate {
			return d, domain.Invalid("next_step_date", "not used for status "+string(d.Status))
		}
		d.NextStepDate = p.NextStepDate.Value
	}
	if p.PledgedAmount.Set {
		if !visible.PledgedAmount {
			return d, domain.Invalid("pledged_amount", "not used for status "+string(d.Status))
		}
		v, err := ParseAmount("pledged_amount", deref(p.PledgedAmount.Value))
		if err != nil {
			return d, err
		}
		d.PledgedAmount = v
	}
	if p.ConfirmedAmount.Set {
		if !visible.Confirmed {
			return d, domain.Invalid("confirmed_amount", "not used for status "+string(d.Status))
		}
		v, err := ParseAmount("confirmed_amount", deref(p.ConfirmedAmount.Value))
		if err != nil {
			return d, err
		}
		d.ConfirmedAmount = v
	}
	if p.ConfirmedDate.Set {
		if !visible.Confirmed {
			return d, domain.Invalid("confirmed_date", "not used for status "+string(d.Status))
		}
		d.ConfirmedDate = p.ConfirmedDate.Value
	}
	return d, nil
}

func deref[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}
