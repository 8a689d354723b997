package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stempelwerk/loyalty/internal/model"
	"stempelwerk/loyalty/internal/repository"
)

// GrantResult is what one applied grant did to the customer's cards: the
// pre-existing open instance after mutation, and every instance created by
// overflow (each already carrying its redemption token when full).
type GrantResult struct {
	Updated *model.CardInstance   `json:"updated_card"`
	Created []*model.CardInstance `json:"new_cards"`
}

// RedemptionMinter mints the token stored on a card the moment it fills.
type RedemptionMinter interface {
	Mint(holderID, instanceID, definitionID uuid.UUID) (string, error)
}

// LedgerService is the point ledger engine: it lands an incoming grant across
// the customer's card instances for one definition, spilling overflow into
// newly created instances.
type LedgerService interface {
	ApplyGrant(ctx context.Context, customerID, definitionID uuid.UUID, pointCount int, issuerID uuid.UUID) (*GrantResult, error)
}

type ledgerService struct {
	defRepo  repository.CardDefinitionRepository
	instRepo repository.CardInstanceRepository
	minter   RedemptionMinter
	levels   LevelService
	locks    *keyedMutex
	logger   *zap.Logger
}

func NewLedgerService(
	defRepo repository.CardDefinitionRepository,
	instRepo repository.CardInstanceRepository,
	minter RedemptionMinter,
	levels LevelService,
	logger *zap.Logger,
) LedgerService {
	return &ledgerService{
		defRepo:  defRepo,
		instRepo: instRepo,
		minter:   minter,
		levels:   levels,
		locks:    newKeyedMutex(),
		logger:   logger,
	}
}

func (s *ledgerService) ApplyGrant(ctx context.Context, customerID, definitionID uuid.UUID, pointCount int, issuerID uuid.UUID) (*GrantResult, error) {
	if pointCount < 1 {
		return nil, ErrInvalidPointCount
	}

	// Two grants racing for the same pair would both find the same open
	// instance and fill it past capacity; different pairs stay independent.
	unlock := s.locks.Lock(customerID, definitionID)
	defer unlock()

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

	open, err := s.instRepo.FindOpen(ctx, customerID, definitionID)
	if err != nil {
		return nil, fmt.Errorf("find open instance: %w", err)
	}
	if open == nil {
		open = &model.CardInstance{
			ID:           uuid.New(),
			DefinitionID: definitionID,
			UserID:       customerID,
		}
		if err := s.instRepo.Create(ctx, open); err != nil {
			return nil, fmt.Errorf("create open instance: %w", err)
		}
	}

	current := open.PointCount()
	if current > def.Capacity {
		s.logger.Error("open instance over capacity",
			zap.String("instance_id", open.ID.String()),
			zap.Int("points", current),
			zap.Int("capacity", def.Capacity))
		return nil, ErrCapacityExceeded
	}

	total := current + pointCount
	fillCurrent := min(total, def.Capacity)

	appended := s.newEntries(open.ID, issuerID, fillCurrent-current)
	open.Points = append(open.Points, appended...)
	open.IsFull = fillCurrent == def.Capacity
	if open.IsFull {
		token, err := s.minter.Mint(customerID, open.ID, definitionID)
		if err != nil {
			return nil, fmt.Errorf("mint redemption token: %w", err)
		}
		open.RedemptionToken = &token
	}

	remaining := total - fillCurrent

	// Overflow loop. It runs one extra time with zero remaining points
	// whenever the previous card filled exactly to capacity, leaving the
	// customer with a fresh open card for the next grant.
	var created []*model.CardInstance
	lastFilledExactly := open.IsFull
	for remaining > 0 || lastFilledExactly {
		fill := min(remaining, def.Capacity)
		inst := &model.CardInstance{
			ID:           uuid.New(),
			DefinitionID: definitionID,
			UserID:       customerID,
		}
		inst.Points = s.newEntries(inst.ID, issuerID, fill)
		if fill == def.Capacity {
			inst.IsFull = true
			token, err := s.minter.Mint(customerID, inst.ID, definitionID)
			if err != nil {
				return nil, fmt.Errorf("mint redemption token: %w", err)
			}
			inst.RedemptionToken = &token
		}
		created = append(created, inst)
		remaining -= fill
		lastFilledExactly = fill == def.Capacity
	}

	if err := s.instRepo.SaveGrant(ctx, open, appended, created); err != nil {
		return nil, fmt.Errorf("save grant: %w", err)
	}

	s.recordLevel(ctx, def.CompanyID, customerID)

	return &GrantResult{Updated: open, Created: created}, nil
}

func (s *ledgerService) newEntries(instanceID, issuerID uuid.UUID, count int) []model.PointEntry {
	if count <= 0 {
		return nil
	}
	now := time.Now()
	entries := make([]model.PointEntry, count)
	for i := range entries {
		entries[i] = model.PointEntry{
			ID:         uuid.New(),
			InstanceID: instanceID,
			Value:      1,
			IssuerID:   issuerID,
			CreatedAt:  now,
		}
	}
	return entries
}

// recordLevel pushes the customer's new company-wide total to the tiering
// sink. Best-effort: a failure never rolls back the applied grant.
func (s *ledgerService) recordLevel(ctx context.Context, companyID, customerID uuid.UUID) {
	total, err := s.instRepo.TotalPointsForCompany(ctx, customerID, companyID)
	if err != nil {
		s.logger.Warn("compute customer total failed",
			zap.String("user_id", customerID.String()), zap.Error(err))
		return
	}
	s.levels.Record(ctx, companyID, customerID, total)
}
