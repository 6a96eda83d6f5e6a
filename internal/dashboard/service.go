package dashboard

import (
	"context"
	"fmt"
	"time"

	"supportraise/internal/domain"
)

// Service loads a user's partners and goal and summarizes them.
type Service struct {
	store domain.PartnerReader
}

// NewService builds a Service over the given store.
func NewService(store domain.PartnerReader) *Service {
	return &Service{store: store}
}

// Load fetches the partner list, then the statistics document, and runs the
// pipeline over both.
func (s *Service) Load(ctx context.Context, userID string, now time.Time) (Summary, error) {
	if userID == "" {
		return Summary{}, domain.ErrAuthRequired
	}
	partners, err := s.store.ListPartners(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("dashboard: list partners: %w", err)
	}
	stats, err := s.store.GetStatistics(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("dashboard: load statistics: %w", err)
	}
	return Summarize(partners, stats, now), nil
}
