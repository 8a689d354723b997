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

type CreateDefinitionInput struct {
	Name        string
	Description string
	Capacity    int
	Discount    model.Discount
}

type UpdateDefinitionInput struct {
	Name        *string
	Description *string
	Discount    *model.Discount
	// Capacity may only change while no customer instances reference the
	// definition; cards already accruing keep the capacity they started with.
	Capacity *int
}

// CardDefinitionService manages the merchant-side card templates.
type CardDefinitionService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateDefinitionInput) (*model.CardDefinition, error)
	Get(ctx context.Context, id uuid.UUID) (*model.CardDefinition, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.CardDefinition, error)
	Update(ctx context.Context, userID, id uuid.UUID, input UpdateDefinitionInput) (*model.CardDefinition, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type cardDefinitionService struct {
	defRepo     repository.CardDefinitionRepository
	instRepo    repository.CardInstanceRepository
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	authz       Authorizer
}

func NewCardDefinitionService(
	defRepo repository.CardDefinitionRepository,
	instRepo repository.CardInstanceRepository,
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	authz Authorizer,
) CardDefinitionService {
	return &cardDefinitionService{
		defRepo:     defRepo,
		instRepo:    instRepo,
		userRepo:    userRepo,
		companyRepo: companyRepo,
		authz:       authz,
	}
}

func (s *cardDefinitionService) Create(ctx context.Context, userID uuid.UUID, input CreateDefinitionInput) (*model.CardDefinition, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Role.Can(model.ActionManageDefinitions) || user.CompanyID == nil {
		return nil, ErrNotAuthorized
	}

	if input.Capacity < model.MinCapacity || input.Capacity > model.MaxCapacity || !input.Discount.Valid() {
		return nil, ErrInvalidDefinition
	}

	// A stale company reference on the user must not produce cards nobody
	// can ever act for.
	if _, err := s.companyRepo.GetByID(ctx, *user.CompanyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("load company: %w", err)
	}

	count, err := s.defRepo.CountByCompany(ctx, *user.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("count definitions: %w", err)
	}
	if count >= int64(user.Role.MaxDefinitions()) {
		return nil, ErrDefinitionLimitReached
	}

	def := &model.CardDefinition{
		ID:          uuid.New(),
		CompanyID:   *user.CompanyID,
		Name:        input.Name,
		Description: input.Description,
		Capacity:    input.Capacity,
		Discount:    input.Discount,
	}
	if err := s.defRepo.Create(ctx, def); err != nil {
		return nil, fmt.Errorf("create definition: %w", err)
	}
	return def, nil
}

func (s *cardDefinitionService) Get(ctx context.Context, id uuid.UUID) (*model.CardDefinition, error) {
	def, err := s.defRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDefinitionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load definition: %w", err)
	}
	if def.Deleted {
		return nil, ErrDefinitionNotFound
	}
	return def, nil
}

func (s *cardDefinitionService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.CardDefinition, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	companyID := s.authz.ActingCompany(user)
	if companyID == nil {
		return nil, ErrNotAuthorized
	}
	return s.defRepo.ListByCompany(ctx, *companyID)
}

func (s *cardDefinitionService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateDefinitionInput) (*model.CardDefinition, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	def, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.Role.Can(model.ActionManageDefinitions) || user.CompanyID == nil || *user.CompanyID != def.CompanyID {
		return nil, ErrNotCardOwner
	}

	if input.Name != nil {
		def.Name = *input.Name
	}
	if input.Description != nil {
		def.Description = *input.Description
	}
	if input.Discount != nil {
		if !input.Discount.Valid() {
			return nil, ErrInvalidDefinition
		}
		def.Discount = *input.Discount
	}
	if input.Capacity != nil {
		if *input.Capacity < model.MinCapacity || *input.Capacity > model.MaxCapacity {
			return nil, ErrInvalidDefinition
		}
		referenced, err := s.instRepo.AnyByDefinition(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("check instances: %w", err)
		}
		if referenced {
			return nil, ErrDefinitionInUse
		}
		def.Capacity = *input.Capacity
	}

	if err := s.defRepo.Update(ctx, def); err != nil {
		return nil, fmt.Errorf("update definition: %w", err)
	}
	return def, nil
}

// Delete removes a definition. With customer instances referencing it the
// definition and its instances are only flagged, so customers keep their
// history; otherwise the row goes away for good.
func (s *cardDefinitionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	def, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !user.Role.Can(model.ActionManageDefinitions) || user.CompanyID == nil || *user.CompanyID != def.CompanyID {
		return ErrNotCardOwner
	}

	referenced, err := s.instRepo.AnyByDefinition(ctx, id)
	if err != nil {
		return fmt.Errorf("check instances: %w", err)
	}
	if referenced {
		if err := s.instRepo.MarkOrphanedByDefinition(ctx, id); err != nil {
			return fmt.Errorf("orphan instances: %w", err)
		}
		return s.defRepo.MarkDeleted(ctx, id)
	}
	return s.defRepo.HardDelete(ctx, id)
}

func (s *cardDefinitionService) loadUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}
