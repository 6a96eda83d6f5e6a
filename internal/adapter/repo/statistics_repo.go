package repo

import (
	"context"

	"supportraise/internal/domain"
	"supportraise/internal/infra"
	"supportraise/internal/sqlinline"
)

// StatisticsRepositoryPG stores the per-user target and deadline.
type StatisticsRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewStatisticsRepository creates a new StatisticsRepositoryPG.
func NewStatisticsRepository(sql infra.SQLExecutor) *StatisticsRepositoryPG {
	return &StatisticsRepositoryPG{sql: sql}
}

// GetStatistics returns nil without error when the user has no statistics yet.
func (r *StatisticsRepositoryPG) GetStatistics(ctx context.Context, userID string) (*domain.Statistics, error) {
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}
	var stats domain.Statistics
	err := r.sql.QueryRow(ctx, sqlinline.QSelectStatistics, userID).Scan(&stats.Target, &stats.Deadline)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, nil
		}
		return nil, remote("get statistics", err)
	}
	return &stats, nil
}

// PutStatistics replaces the user's statistics document.
func (r *StatisticsRepositoryPG) PutStatistics(ctx context.Context, userID string, stats domain.Statistics) error {
	if userID == "" {
		return domain.ErrAuthRequired
	}
	if _, err := r.sql.Exec(ctx, sqlinline.QUpsertStatistics, userID, stats.Target, stats.Deadline); err != nil {
		return remote("put statistics", err)
	}
	return nil
}
