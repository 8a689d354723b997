package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stempelwerk/loyalty/internal/model"
)

type pgCardDefinitionRepository struct {
	db *gorm.DB
}

func NewPGCardDefinitionRepository(db *gorm.DB) CardDefinitionRepository {
	return &pgCardDefinitionRepository{db: db}
}

func (r *pgCardDefinitionRepository) Create(ctx context.Context, def *model.CardDefinition) error {
	return r.db.WithContext(ctx).Create(def).Error
}

func (r *pgCardDefinitionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CardDefinition, error) {
	var def model.CardDefinition
	if err := r.db.WithContext(ctx).First(&def, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *pgCardDefinitionRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]model.CardDefinition, error) {
	var defs []model.CardDefinition
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND deleted = false", companyID).
		Order("created_at ASC").
		Find(&defs).Error
	if err != nil {
		return nil, err
	}
	return defs, nil
}

func (r *pgCardDefinitionRepository) CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CardDefinition{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}

func (r *pgCardDefinitionRepository) Update(ctx context.Context, def *model.CardDefinition) error {
	return r.db.WithContext(ctx).Save(def).Error
}

func (r *pgCardDefinitionRepository) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.CardDefinition{}).
		Where("id = ?", id).
		UpdateColumn("deleted", true).
		Error
}

func (r *pgCardDefinitionRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CardDefinition{}, "id = ?", id).Error
}
