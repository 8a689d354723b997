package service

import (
	"context"
	"encoding/json"
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

// GrantTokenService issues and redeems the signed tokens that carry a point
// award from an issuer to whoever scans them.
type GrantTokenService interface {
	Issue(ctx context.Context, issuerID, definitionID uuid.UUID, pointCount int) (string, error)
	Redeem(ctx context.Context, token string, holderID uuid.UUID) (*GrantResult, error)
}

// grantRecord is the single-use bookkeeping entry behind an issued token.
// Its presence in the state store, not the signature, decides whether the
// token is still redeemable; its fields are the authoritative payload.
type grantRecord struct {
	DefinitionID uuid.UUID `json:"definition_id"`
	IssuerID     uuid.UUID `json:"issuer_id"`
	PointCount   int       `json:"point_count"`
}

const grantKeyPrefix = "granttoken:"

type grantTokenService struct {
	userRepo   repository.UserRepository
	defRepo    repository.CardDefinitionRepository
	stateStore repository.StateStore
	jwtManager *jwtpkg.Manager
	ledger     LedgerService
	authz      Authorizer
	sink       notify.Sink
	logger     *zap.Logger
}

func NewGrantTokenService(
	userRepo repository.UserRepository,
	defRepo repository.CardDefinitionRepository,
	stateStore repository.StateStore,
	jwtManager *jwtpkg.Manager,
	ledger LedgerService,
	authz Authorizer,
	sink notify.Sink,
	logger *zap.Logger,
) GrantTokenService {
	return &grantTokenService{
		userRepo:   userRepo,
		defRepo:    defRepo,
		stateStore: stateStore,
		jwtManager: jwtManager,
		ledger:     ledger,
		authz:      authz,
		sink:       sink,
		logger:     logger,
	}
}

func (s *grantTokenService) Issue(ctx context.Context, issuerID, definitionID uuid.UUID, pointCount int) (string, error) {
	if pointCount < 1 {
		return "", ErrInvalidPointCount
	}

	issuer, err := s.userRepo.GetByID(ctx, issuerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load issuer: %w", err)
	}

	def, err := s.defRepo.GetByID(ctx, definitionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrDefinitionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load definition: %w", err)
	}
	if def.Deleted {
		return "", ErrDefinitionNotFound
	}

	if !issuer.Role.Can(model.ActionIssueGrant) || !s.authz.CanActFor(issuer, def.CompanyID) {
		return "", ErrNotAuthorized
	}

	token, claims, err := s.jwtManager.GenerateGrantToken(issuerID, definitionID, pointCount)
	if err != nil {
		return "", fmt.Errorf("sign grant token: %w", err)
	}

	record, err := json.Marshal(grantRecord{
		DefinitionID: definitionID,
		IssuerID:     issuerID,
		PointCount:   pointCount,
	})
	if err != nil {
		return "", fmt.Errorf("encode grant record: %w", err)
	}
	if err := s.stateStore.Set(ctx, grantKeyPrefix+claims.ID, record, s.jwtManager.GrantTokenTTL()); err != nil {
		return "", fmt.Errorf("store grant record: %w", err)
	}

	return token, nil
}

func (s *grantTokenService) Redeem(ctx context.Context, token string, holderID uuid.UUID) (*GrantResult, error) {
	claims, err := s.jwtManager.Validate(token, jwtpkg.TokenTypeGrant)
	if err != nil {
		return nil, ErrTokenMalformed
	}

	// Consume the bookkeeping record first and irrevocably. Exactly one
	// presentation of the token gets it back; an absent record means the
	// token was spent, which the caller must see distinct from a bad
	// signature.
	data, err := s.stateStore.GetDel(ctx, grantKeyPrefix+claims.ID)
	if err != nil {
		return nil, fmt.Errorf("consume grant record: %w", err)
	}
	if data == nil {
		return nil, ErrGrantAlreadyUsed
	}

	var record grantRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode grant record: %w", err)
	}

	result, err := s.ledger.ApplyGrant(ctx, holderID, record.DefinitionID, record.PointCount, record.IssuerID)
	if err != nil {
		return nil, err
	}

	s.sink.Notify(record.IssuerID, notify.Event{
		Type: notify.EventScanSuccess,
		Data: "grant token successfully scanned",
	})

	return result, nil
}
