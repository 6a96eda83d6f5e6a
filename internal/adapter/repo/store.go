package repo

import (
	"context"

	"supportraise/internal/domain"
	"supportraise/internal/infra"
	"supportraise/internal/sqlinline"
)

// Store combines the Postgres repositories into a domain.PartnerStore.
type Store struct {
	*PartnerRepositoryPG
	*StatisticsRepositoryPG
	health infra.SQLExecutor
}

// NewStore builds a Store sharing one SQL executor.
func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{
		PartnerRepositoryPG:    NewPartnerRepository(sql),
		StatisticsRepositoryPG: NewStatisticsRepository(sql),
		health:                 sql,
	}
}

// Ping reports whether the database answers a trivial query.
func (s *Store) Ping(ctx context.Context) error {
	var one int
	if err := s.health.QueryRow(ctx, sqlinline.QPing).Scan(&one); err != nil {
		return remote("ping", err)
	}
	return nil
}

var _ domain.PartnerStore = (*Store)(nil)
