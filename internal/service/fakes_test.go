package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stempelwerk/loyalty/internal/model"
	"stempelwerk/loyalty/internal/notify"
)

// In-memory stand-ins for the repositories, good enough to drive the
// services without a database.

type fakeDefRepo struct {
	mu   sync.Mutex
	defs map[uuid.UUID]*model.CardDefinition
}

func newFakeDefRepo() *fakeDefRepo {
	return &fakeDefRepo{defs: make(map[uuid.UUID]*model.CardDefinition)}
}

func (r *fakeDefRepo) Create(_ context.Context, def *model.CardDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[def.ID] = def
	return nil
}

func (r *fakeDefRepo) GetByID(_ context.Context, id uuid.UUID) (*model.CardDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	def, ok := r.defs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *def
	return &copied, nil
}

func (r *fakeDefRepo) ListByCompany(_ context.Context, companyID uuid.UUID) ([]model.CardDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CardDefinition
	for _, def := range r.defs {
		if def.CompanyID == companyID && !def.Deleted {
			out = append(out, *def)
		}
	}
	return out, nil
}

func (r *fakeDefRepo) CountByCompany(_ context.Context, companyID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, def := range r.defs {
		if def.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (r *fakeDefRepo) Update(_ context.Context, def *model.CardDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[def.ID] = def
	return nil
}

func (r *fakeDefRepo) MarkDeleted(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if def, ok := r.defs[id]; ok {
		def.Deleted = true
	}
	return nil
}

func (r *fakeDefRepo) HardDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.defs, id)
	return nil
}

type fakeInstRepo struct {
	mu        sync.Mutex
	instances map[uuid.UUID]*model.CardInstance
	defs      *fakeDefRepo
}

func newFakeInstRepo(defs *fakeDefRepo) *fakeInstRepo {
	return &fakeInstRepo{instances: make(map[uuid.UUID]*model.CardInstance), defs: defs}
}

func (r *fakeInstRepo) Create(_ context.Context, inst *model.CardInstance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances[inst.ID] = inst
	return nil
}

func (r *fakeInstRepo) GetByID(_ context.Context, id uuid.UUID) (*model.CardInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *inst
	if def, ok := r.defs.defs[inst.DefinitionID]; ok {
		d := *def
		copied.Definition = &d
	}
	return &copied, nil
}

func (r *fakeInstRepo) FindOpen(_ context.Context, userID, definitionID uuid.UUID) (*model.CardInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inst := range r.instances {
		if inst.UserID == userID && inst.DefinitionID == definitionID && !inst.IsFull {
			return inst, nil
		}
	}
	return nil, nil
}

func (r *fakeInstRepo) ListByUser(_ context.Context, userID uuid.UUID, redeemed *bool) ([]model.CardInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CardInstance
	for _, inst := range r.instances {
		if inst.UserID != userID || inst.DefinitionDeleted {
			continue
		}
		if redeemed != nil && inst.IsRedeemed != *redeemed {
			continue
		}
		out = append(out, *inst)
	}
	return out, nil
}

func (r *fakeInstRepo) SaveGrant(_ context.Context, updated *model.CardInstance, _ []model.PointEntry, created []*model.CardInstance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances[updated.ID] = updated
	for _, inst := range created {
		r.instances[inst.ID] = inst
	}
	return nil
}

func (r *fakeInstRepo) MarkRedeemed(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[id]
	if !ok || inst.IsRedeemed {
		return false, nil
	}
	inst.IsRedeemed = true
	return true, nil
}

func (r *fakeInstRepo) AnyByDefinition(_ context.Context, definitionID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inst := range r.instances {
		if inst.DefinitionID == definitionID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInstRepo) MarkOrphanedByDefinition(_ context.Context, definitionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inst := range r.instances {
		if inst.DefinitionID == definitionID {
			inst.DefinitionDeleted = true
		}
	}
	return nil
}

func (r *fakeInstRepo) TotalPointsByDefinition(_ context.Context, definitionID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, inst := range r.instances {
		if inst.DefinitionID == definitionID {
			total += len(inst.Points)
		}
	}
	return total, nil
}

func (r *fakeInstRepo) TotalPointsForCompany(_ context.Context, userID, companyID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, inst := range r.instances {
		if inst.UserID != userID {
			continue
		}
		def, ok := r.defs.defs[inst.DefinitionID]
		if !ok || def.CompanyID != companyID {
			continue
		}
		for _, p := range inst.Points {
			total += p.Value
		}
	}
	return total, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type fakeCompanyRepo struct {
	companies map[uuid.UUID]*model.Company
}

func newFakeCompanyRepo(ids ...uuid.UUID) *fakeCompanyRepo {
	r := &fakeCompanyRepo{companies: make(map[uuid.UUID]*model.Company)}
	for _, id := range ids {
		r.companies[id] = &model.Company{ID: id}
	}
	return r
}

func (r *fakeCompanyRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Company, error) {
	company, ok := r.companies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return company, nil
}

type fakeLevels struct {
	mu       sync.Mutex
	recorded map[string]int
}

func newFakeLevels() *fakeLevels {
	return &fakeLevels{recorded: make(map[string]int)}
}

func (l *fakeLevels) Record(_ context.Context, companyID, customerID uuid.UUID, totalPoints int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recorded[companyID.String()+"/"+customerID.String()] = totalPoints
}

func (l *fakeLevels) GetForCompany(context.Context, uuid.UUID, uuid.UUID) (*model.CustomerLevel, error) {
	return nil, ErrLevelNotFound
}

func (l *fakeLevels) total(companyID, customerID uuid.UUID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recorded[companyID.String()+"/"+customerID.String()]
}

type fakeSink struct {
	mu     sync.Mutex
	events map[uuid.UUID][]notify.Event
}

func newFakeSink() *fakeSink {
	return &fakeSink{events: make(map[uuid.UUID][]notify.Event)}
}

func (s *fakeSink) Notify(userID uuid.UUID, event notify.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[userID] = append(s.events[userID], event)
}

func (s *fakeSink) eventsFor(userID uuid.UUID) []notify.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[userID]
}

// staticMinter stamps predictable tokens so ledger tests can assert a token
// was minted without a signing key.
type staticMinter struct{}

func (staticMinter) Mint(_, instanceID, _ uuid.UUID) (string, error) {
	return fmt.Sprintf("redemption-%s", instanceID), nil
}
