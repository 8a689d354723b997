package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stempelwerk/loyalty/internal/model"
	"stempelwerk/loyalty/internal/notify"
	"stempelwerk/loyalty/internal/repository"
	jwtpkg "stempelwerk/loyalty/pkg/jwt"
)

// RedemptionService mints the token a card carries once full and handles the
// merchant-side scan that consumes it. Redeeming is the terminal transition
// of an instance; a redeemed card never mutates again.
type RedemptionService interface {
	RedemptionMinter
	Redeem(ctx context.Context, token string, scannerID uuid.UUID) (*model.CardInstance, error)
}

type redemptionService struct {
	userRepo   repository.UserRepository
	defRepo    repository.CardDefinitionRepository
	instRepo   repository.CardInstanceRepository
	jwtManager *jwtpkg.Manager
	authz      Authorizer
	sink       notify.Sink
	logger     *zap.Logger
}

func NewRedemptionService(
	userRepo repository.UserRepository,
	defRepo repository.CardDefinitionRepository,
	instRepo repository.CardInstanceRepository,
	jwtManager *jwtpkg.Manager,
	authz Authorizer,
	sink notify.Sink,
	logger *zap.Logger,
) RedemptionService {
	return &redemptionService{
		userRepo:   userRepo,
		defRepo:    defRepo,
		instRepo:   instRepo,
		jwtManager: jwtManager,
		authz:      authz,
		sink:       sink,
		logger:     logger,
	}
}

// Mint is called by the ledger the moment an instance fills. Not exposed over
// HTTP; a customer never asks for this token directly.
func (s *redemptionService) Mint(holderID, instanceID, definitionID uuid.UUID) (string, error) {
	return s.jwtManager.GenerateRedemptionToken(holderID, instanceID, definitionID)
}

func (s *redemptionService) Redeem(ctx context.Context, token string, scannerID uuid.UUID) (*model.CardInstance, error) {
	claims, err := s.jwtManager.Validate(token, jwtpkg.TokenTypeRedemption)
	if err != nil {
		return nil, ErrTokenMalformed
	}
	instanceID, err := uuid.Parse(claims.InstanceID)
	if err != nil {
		return nil, ErrTokenMalformed
	}
	holderID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrTokenMalformed
	}

	inst, err := s.instRepo.GetByID(ctx, instanceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInstanceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load instance: %w", err)
	}

	def := inst.Definition
	if def == nil {
		def, err = s.defRepo.GetByID(ctx, inst.DefinitionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDefinitionNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("load definition: %w", err)
		}
	}

	scanner, err := s.userRepo.GetByID(ctx, scannerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load scanner: %w", err)
	}
	if !scanner.Role.Can(model.ActionScanRedemption) || !s.authz.CanActFor(scanner, def.CompanyID) {
		return nil, ErrNotCardOwner
	}

	if inst.IsRedeemed {
		return nil, ErrTokenAlreadyUsed
	}
	// A redemption token only exists on full cards; a not-full instance
	// here means a forged or stale token.
	if !inst.IsFull {
		return nil, ErrCardNotFull
	}

	won, err := s.instRepo.MarkRedeemed(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("mark redeemed: %w", err)
	}
	if !won {
		return nil, ErrTokenAlreadyUsed
	}
	inst.IsRedeemed = true

	s.sink.Notify(holderID, notify.Event{
		Type: notify.EventRedeemSuccess,
		Data: "customer point card successfully redeemed",
	})

	return inst, nil
}
