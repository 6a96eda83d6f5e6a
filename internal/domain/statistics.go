package domain

import "time"

// Statistics holds a user's fundraising goal.
type Statistics struct {
	Target   float64   `json:"target"`
	Deadline time.Time `json:"deadline"`
}
