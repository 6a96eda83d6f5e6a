package domain

import "context"

// PartnerReader exposes the read side of the partner store.
type PartnerReader interface {
	ListPartners(ctx context.Context, userID string) ([]Partner, error)
	GetPartner(ctx context.Context, userID, partnerID string) (*Partner, error)
	// GetStatistics returns nil, nil when the user has no statistics document.
	GetStatistics(ctx context.Context, userID string) (*Statistics, error)
}

// PartnerWriter persists full partner records.
type PartnerWriter interface {
	UpsertPartner(ctx context.Context, userID string, partner Partner) error
	DeletePartner(ctx context.Context, userID, partnerID string) error
}

// PartnerStore is the remote access layer used by the dashboard and editor.
type PartnerStore interface {
	PartnerReader
	PartnerWriter
	PutStatistics(ctx context.Context, userID string, stats Statistics) error
}
