package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stempelwerk/loyalty/internal/repository"
)

// DefinitionTotal is the aggregate a merchant reads per card: how many points
// customers have collected on it in total.
type DefinitionTotal struct {
	DefinitionID uuid.UUID `json:"definition_id"`
	Name         string    `json:"name"`
	TotalPoints  int       `json:"total_points"`
}

// AnalyticsService aggregates point statistics over a company's cards.
type AnalyticsService interface {
	// DefinitionTotals returns one total per active definition of the company
	// the requester acts for.
	DefinitionTotals(ctx context.Context, requesterID uuid.UUID) ([]DefinitionTotal, error)
}

type analyticsService struct {
	userRepo repository.UserRepository
	defRepo  repository.CardDefinitionRepository
	instRepo repository.CardInstanceRepository
	authz    Authorizer
}

func NewAnalyticsService(
	userRepo repository.UserRepository,
	defRepo repository.CardDefinitionRepository,
	instRepo repository.CardInstanceRepository,
	authz Authorizer,
) AnalyticsService {
	return &analyticsService{
		userRepo: userRepo,
		defRepo:  defRepo,
		instRepo: instRepo,
		authz:    authz,
	}
}

func (s *analyticsService) DefinitionTotals(ctx context.Context, requesterID uuid.UUID) ([]DefinitionTotal, error) {
	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load requester: %w", err)
	}

	companyID := s.authz.ActingCompany(requester)
	if companyID == nil {
		return nil, ErrNotAuthorized
	}

	defs, err := s.defRepo.ListByCompany(ctx, *companyID)
	if err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}

	totals := make([]DefinitionTotal, 0, len(defs))
	for _, def := range defs {
		total, err := s.instRepo.TotalPointsByDefinition(ctx, def.ID)
		if err != nil {
			return nil, fmt.Errorf("count points for %s: %w", def.ID, err)
		}
		totals = append(totals, DefinitionTotal{
			DefinitionID: def.ID,
			Name:         def.Name,
			TotalPoints:  total,
		})
	}
	return totals, nil
}
