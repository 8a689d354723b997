package repository

import (
	"context"

	"github.com/google/uuid"

	"stempelwerk/loyalty/internal/model"
)

type CardDefinitionRepository interface {
	Create(ctx context.Context, def *model.CardDefinition) error
	// GetByID returns the definition regardless of its deleted flag; callers
	// decide whether a soft-deleted card is acceptable.
	GetByID(ctx context.Context, id uuid.UUID) (*model.CardDefinition, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]model.CardDefinition, error)
	CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error)
	Update(ctx context.Context, def *model.CardDefinition) error
	MarkDeleted(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, id uuid.UUID) error
}
