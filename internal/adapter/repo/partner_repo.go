package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"supportraise/internal/domain"
	"supportraise/internal/infra"
	"supportraise/internal/sqlinline"
)

// PartnerRepositoryPG implements domain.PartnerReader and domain.PartnerWriter
// backed by PostgreSQL.
type PartnerRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewPartnerRepository creates a new PartnerRepositoryPG.
func NewPartnerRepository(sql infra.SQLExecutor) *PartnerRepositoryPG {
	return &PartnerRepositoryPG{sql: sql}
}

// ListPartners returns every partner owned by userID.
func (r *PartnerRepositoryPG) ListPartners(ctx context.Context, userID string) ([]domain.Partner, error) {
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListPartnersByUser, userID)
	if err != nil {
		return nil, remote("list partners", err)
	}
	defer rows.Close()

	items := []domain.Partner{}
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, remote("scan partner", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, remote("list partners", err)
	}
	return items, nil
}

// GetPartner fetches one partner by ID.
func (r *PartnerRepositoryPG) GetPartner(ctx context.Context, userID, partnerID string) (*domain.Partner, error) {
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}
	p, err := scanPartner(r.sql.QueryRow(ctx, sqlinline.QSelectPartnerByID, userID, partnerID))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, fmt.Errorf("partner %s: %w", partnerID, domain.ErrNotFound)
		}
		return nil, remote("get partner", err)
	}
	return &p, nil
}

// UpsertPartner inserts the partner or replaces every field of the stored one.
func (r *PartnerRepositoryPG) UpsertPartner(ctx context.Context, userID string, p domain.Partner) error {
	if userID == "" {
		return domain.ErrAuthRequired
	}
	if p.ID == "" {
		return domain.Invalid("id", "required")
	}
	_, err := r.sql.Exec(ctx, sqlinline.QUpsertPartner,
		userID,
		p.ID,
		p.Name,
		p.Email,
		p.Number,
		string(p.Status),
		p.NextStepDate,
		p.PledgedAmount,
		p.ConfirmedAmount,
		p.ConfirmedDate,
		p.Notes,
		p.Saved,
	)
	if err != nil {
		return remote("upsert partner", err)
	}
	return nil
}

// DeletePartner removes the partner. Deleting a missing partner reports
// domain.ErrNotFound.
func (r *PartnerRepositoryPG) DeletePartner(ctx context.Context, userID, partnerID string) error {
	if userID == "" {
		return domain.ErrAuthRequired
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QDeletePartner, userID, partnerID)
	if err != nil {
		return remote("delete partner", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("partner %s: %w", partnerID, domain.ErrNotFound)
	}
	return nil
}

func scanPartner(row pgx.Row) (domain.Partner, error) {
	var (
		p      domain.Partner
		status string
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Number,
		&status,
		&p.NextStepDate,
		&p.PledgedAmount,
		&p.ConfirmedAmount,
		&p.ConfirmedDate,
		&p.Notes,
		&p.Saved,
	)
	if err != nil {
		return domain.Partner{}, err
	}
	p.Status = domain.Status(status)
	return p, nil
}

func remote(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrRemoteUnavailable, op, err)
}
