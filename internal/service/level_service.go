package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stempelwerk/loyalty/internal/model"
	"stempelwerk/loyalty/internal/repository"
)

// LevelService is the tiering/analytics sink: it keeps one total-points row
// per (company, customer) that merchants read for their loyalty tiers.
type LevelService interface {
	// Record upserts the customer's total. Best-effort by contract; errors
	// are logged and swallowed.
	Record(ctx context.Context, companyID, customerID uuid.UUID, totalPoints int)
	// GetForCompany returns the customer's level for the company the
	// requester acts for.
	GetForCompany(ctx context.Context, requesterID, customerID uuid.UUID) (*model.CustomerLevel, error)
}

type levelService struct {
	levelRepo repository.CustomerLevelRepository
	userRepo  repository.UserRepository
	authz     Authorizer
	logger    *zap.Logger
}

func NewLevelService(
	levelRepo repository.CustomerLevelRepository,
	userRepo repository.UserRepository,
	authz Authorizer,
	logger *zap.Logger,
) LevelService {
	return &levelService{
		levelRepo: levelRepo,
		userRepo:  userRepo,
		authz:     authz,
		logger:    logger,
	}
}

func (s *levelService) Record(ctx context.Context, companyID, customerID uuid.UUID, totalPoints int) {
	if err := s.levelRepo.Upsert(ctx, companyID, customerID, totalPoints); err != nil {
		s.logger.Warn("customer level upsert failed",
			zap.String("company_id", companyID.String()),
			zap.String("user_id", customerID.String()),
			zap.Error(err))
	}
}

func (s *levelService) GetForCompany(ctx context.Context, requesterID, customerID uuid.UUID) (*model.CustomerLevel, error) {
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

	level, err := s.levelRepo.Get(ctx, *companyID, customerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLevelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load customer level: %w", err)
	}
	return level, nil
}
