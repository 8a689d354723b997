package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stempelwerk/loyalty/internal/model"
	"stempelwerk/loyalty/internal/notify"
	jwtpkg "stempelwerk/loyalty/pkg/jwt"
)

type redemptionFixture struct {
	service RedemptionService
	ledger  LedgerService
	sink    *fakeSink

	instRepo *fakeInstRepo
	def      *model.CardDefinition

	principal *model.User
	employee  *model.User
	stranger  *model.User

	customerID uuid.UUID
}

func newRedemptionFixture(t *testing.T) *redemptionFixture {
	t.Helper()

	companyID := uuid.New()
	principal := &model.User{ID: uuid.New(), Role: model.RoleOwner, CompanyID: &companyID}
	employee := &model.User{ID: uuid.New(), Role: model.RoleEmployee}
	employee.Employments = []model.Employment{{UserID: employee.ID, CompanyID: companyID, Verified: true}}
	stranger := &model.User{ID: uuid.New(), Role: model.RoleUser}

	defRepo := newFakeDefRepo()
	instRepo := newFakeInstRepo(defRepo)
	userRepo := newFakeUserRepo(principal, employee, stranger)

	def := &model.CardDefinition{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      "bakery",
		Capacity:  5,
		Discount:  model.Discount25,
	}
	require.NoError(t, defRepo.Create(context.Background(), def))

	jwtManager := jwtpkg.NewManager("test-key", "stempelwerk-test", time.Minute, time.Hour, time.Hour)
	sink := newFakeSink()
	service := NewRedemptionService(userRepo, defRepo, instRepo, jwtManager, NewAuthorizer(), sink, zap.NewNop())
	ledger := NewLedgerService(defRepo, instRepo, service, newFakeLevels(), zap.NewNop())

	return &redemptionFixture{
		service:    service,
		ledger:     ledger,
		sink:       sink,
		instRepo:   instRepo,
		def:        def,
		principal:  principal,
		employee:   employee,
		stranger:   stranger,
		customerID: uuid.New(),
	}
}

// fullCard fills a fresh card to capacity and returns it with its minted
// redemption token.
func (f *redemptionFixture) fullCard(t *testing.T) (*model.CardInstance, string) {
	t.Helper()

	result, err := f.ledger.ApplyGrant(context.Background(), f.customerID, f.def.ID, f.def.Capacity, f.principal.ID)
	require.NoError(t, err)
	require.True(t, result.Updated.IsFull)
	require.NotNil(t, result.Updated.RedemptionToken)
	return result.Updated, *result.Updated.RedemptionToken
}

func TestRedeemFullCard(t *testing.T) {
	f := newRedemptionFixture(t)
	card, token := f.fullCard(t)

	redeemed, err := f.service.Redeem(context.Background(), token, f.principal.ID)
	require.NoError(t, err)
	require.Equal(t, card.ID, redeemed.ID)
	require.True(t, redeemed.IsRedeemed)

	// The holder, not the scanner, gets the push event.
	events := f.sink.eventsFor(f.customerID)
	require.Len(t, events, 1)
	require.Equal(t, notify.EventRedeemSuccess, events[0].Type)
}

func TestRedeemFullCardByVerifiedEmployee(t *testing.T) {
	f := newRedemptionFixture(t)
	_, token := f.fullCard(t)

	_, err := f.service.Redeem(context.Background(), token, f.employee.ID)
	require.NoError(t, err)
}

func TestRedeemFullCardByStranger(t *testing.T) {
	f := newRedemptionFixture(t)
	_, token := f.fullCard(t)

	_, err := f.service.Redeem(context.Background(), token, f.stranger.ID)
	require.ErrorIs(t, err, ErrNotCardOwner)
}

func TestRedeemFullCardTwice(t *testing.T) {
	f := newRedemptionFixture(t)
	_, token := f.fullCard(t)
	ctx := context.Background()

	_, err := f.service.Redeem(ctx, token, f.principal.ID)
	require.NoError(t, err)

	_, err = f.service.Redeem(ctx, token, f.principal.ID)
	require.ErrorIs(t, err, ErrTokenAlreadyUsed)
}

func TestRedeemFullCardDoubleScanRace(t *testing.T) {
	f := newRedemptionFixture(t)
	_, token := f.fullCard(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Redeem(ctx, token, f.principal.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, alreadyUsed int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case err == ErrTokenAlreadyUsed:
			alreadyUsed++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, successes)
	require.Equal(t, 1, alreadyUsed)
}

func TestRedeemNotFullCard(t *testing.T) {
	f := newRedemptionFixture(t)
	ctx := context.Background()

	result, err := f.ledger.ApplyGrant(ctx, f.customerID, f.def.ID, 2, f.principal.ID)
	require.NoError(t, err)
	require.False(t, result.Updated.IsFull)

	// Forge a token for the accruing card; the state check must hold even
	// though no such token is ever minted in normal operation.
	jwtManager := jwtpkg.NewManager("test-key", "stempelwerk-test", time.Minute, time.Hour, time.Hour)
	token, err := jwtManager.GenerateRedemptionToken(f.customerID, result.Updated.ID, f.def.ID)
	require.NoError(t, err)

	_, err = f.service.Redeem(ctx, token, f.principal.ID)
	require.ErrorIs(t, err, ErrCardNotFull)
}

func TestRedeemUnknownInstance(t *testing.T) {
	f := newRedemptionFixture(t)

	jwtManager := jwtpkg.NewManager("test-key", "stempelwerk-test", time.Minute, time.Hour, time.Hour)
	token, err := jwtManager.GenerateRedemptionToken(f.customerID, uuid.New(), f.def.ID)
	require.NoError(t, err)

	_, err = f.service.Redeem(context.Background(), token, f.principal.ID)
	require.ErrorIs(t, err, ErrInstanceNotFound)
}

func TestRedeemMalformedToken(t *testing.T) {
	f := newRedemptionFixture(t)

	_, err := f.service.Redeem(context.Background(), "garbage", f.principal.ID)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestRedeemTokenSignedWithOtherKey(t *testing.T) {
	f := newRedemptionFixture(t)
	card, _ := f.fullCard(t)

	other := jwtpkg.NewManager("other-key", "stempelwerk-test", time.Minute, time.Hour, time.Hour)
	forged, err := other.GenerateRedemptionToken(f.customerID, card.ID, f.def.ID)
	require.NoError(t, err)

	_, err = f.service.Redeem(context.Background(), forged, f.principal.ID)
	require.ErrorIs(t, err, ErrTokenMalformed)
}
