package repository

import (
	"context"

	"github.com/google/uuid"

	"stempelwerk/loyalty/internal/model"
)

type UserRepository interface {
	// GetByID loads a user with employments preloaded.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type CompanyRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Company, error)
}

type CustomerLevelRepository interface {
	// Upsert sets the customer's total points for the company, creating the
	// row on first contact.
	Upsert(ctx context.Context, companyID, userID uuid.UUID, totalPoints int) error
	Get(ctx context.Context, companyID, userID uuid.UUID) (*model.CustomerLevel, error)
}
