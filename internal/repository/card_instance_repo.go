package repository

import (
	"context"

	"github.com/google/uuid"

	"stempelwerk/loyalty/internal/model"
)

type CardInstanceRepository interface {
	Create(ctx context.Context, inst *model.CardInstance) error
	// GetByID loads an instance with its points (ordered by creation) and
	// definition preloaded.
	GetByID(ctx context.Context, id uuid.UUID) (*model.CardInstance, error)
	// FindOpen returns the customer's unique not-full instance for the
	// definition, or nil when none exists.
	FindOpen(ctx context.Context, userID, definitionID uuid.UUID) (*model.CardInstance, error)
	ListByUser(ctx context.Context, userID uuid.UUID, redeemed *bool) ([]model.CardInstance, error)
	// SaveGrant persists one grant as a single transaction: the entries
	// appended to the open instance, its flag/token changes, and every
	// instance created by overflow together with its entries.
	SaveGrant(ctx context.Context, updated *model.CardInstance, appended []model.PointEntry, created []*model.CardInstance) error
	// MarkRedeemed flips is_redeemed on a not-yet-redeemed instance and
	// reports whether this call won the flip.
	MarkRedeemed(ctx context.Context, id uuid.UUID) (bool, error)
	AnyByDefinition(ctx context.Context, definitionID uuid.UUID) (bool, error)
	MarkOrphanedByDefinition(ctx context.Context, definitionID uuid.UUID) error
	// TotalPointsForCompany sums point values over all of the customer's
	// instances whose definitions belong to the company.
	TotalPointsForCompany(ctx context.Context, userID, companyID uuid.UUID) (int, error)
	// TotalPointsByDefinition counts the points collected across every
	// instance of the definition, all customers included.
	TotalPointsByDefinition(ctx context.Context, definitionID uuid.UUID) (int, error)
}
