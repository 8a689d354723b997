package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stempelwerk/loyalty/internal/model"
	"stempelwerk/loyalty/internal/repository"
)

// CardInstanceService is the customer-facing view of card instances.
type CardInstanceService interface {
	// Create adds an empty open card for the definition, unless the customer
	// already holds one.
	Create(ctx context.Context, userID, definitionID uuid.UUID) (*model.CardInstance, error)
	List(ctx context.Context, userID uuid.UUID, redeemed *bool) ([]model.CardInstance, error)
}

type cardInstanceService struct {
	defRepo  repository.CardDefinitionRepository
	instRepo repository.CardInstanceRepository
}

func NewCardInstanceService(
	defRepo repository.CardDefinitionRepository,
	instRepo repository.CardInstanceRepository,
) CardInstanceService {
	return &cardInstanceService{defRepo: defRepo, instRepo: instRepo}
}

func (s *cardInstanceService) Create(ctx context.Context, userID, definitionID uuid.UUID) (*model.CardInstance, error) {
	def, err := s.defRepo.GetByID(ctx, definitionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDefinitionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load definition: %w", err)
	}
	if def.Deleted {
		return nil, ErrDefinitionNotFound
	}

	open, err := s.instRepo.FindOpen(ctx, userID, definitionID)
	if err != nil {
		return nil, fmt.Errorf("find open instance: %w", err)
	}
	if open != nil {
		return open, nil
	}

	inst := &model.CardInstance{
		ID:           uuid.New(),
		DefinitionID: definitionID,
		UserID:       userID,
	}
	if err := s.instRepo.Create(ctx, inst); err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	return inst, nil
}

func (s *cardInstanceService) List(ctx context.Context, userID uuid.UUID, redeemed *bool) ([]model.CardInstance, error) {
	return s.instRepo.ListByUser(ctx, userID, redeemed)
}
