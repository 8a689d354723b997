package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stempelwerk/loyalty/internal/model"
)

type pgCardInstanceRepository struct {
	db *gorm.DB
}

func NewPGCardInstanceRepository(db *gorm.DB) CardInstanceRepository {
	return &pgCardInstanceRepository{db: db}
}

func preloadPoints(db *gorm.DB) *gorm.DB {
	return db.Order("point_entries.created_at ASC")
}

func (r *pgCardInstanceRepository) Create(ctx context.Context, inst *model.CardInstance) error {
	return r.db.WithContext(ctx).Create(inst).Error
}

func (r *pgCardInstanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CardInstance, error) {
	var inst model.CardInstance
	err := r.db.WithContext(ctx).
		Preload("Points", preloadPoints).
		Preload("Definition").
		First(&inst, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *pgCardInstanceRepository) FindOpen(ctx context.Context, userID, definitionID uuid.UUID) (*model.CardInstance, error) {
	var inst model.CardInstance
	err := r.db.WithContext(ctx).
		Preload("Points", preloadPoints).
		Where("user_id = ? AND definition_id = ? AND is_full = false", userID, definitionID).
		First(&inst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *pgCardInstanceRepository) ListByUser(ctx context.Context, userID uuid.UUID, redeemed *bool) ([]model.CardInstance, error) {
	q := r.db.WithContext(ctx).
		Preload("Points", preloadPoints).
		Preload("Definition").
		Where("user_id = ? AND definition_deleted = false", userID)
	if redeemed != nil {
		q = q.Where("is_redeemed = ?", *redeemed)
	}

	var instances []model.CardInstance
	if err := q.Order("created_at ASC").Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *pgCardInstanceRepository) SaveGrant(ctx context.Context, updated *model.CardInstance, appended []model.PointEntry, created []*model.CardInstance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.CardInstance{}).
			Where("id = ?", updated.ID).
			Updates(map[string]interface{}{
				"is_full":          updated.IsFull,
				"redemption_token": updated.RedemptionToken,
			}).Error; err != nil {
			return err
		}
		if len(appended) > 0 {
			if err := tx.Create(&appended).Error; err != nil {
				return err
			}
		}
		for _, inst := range created {
			if err := tx.Create(inst).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *pgCardInstanceRepository) MarkRedeemed(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.CardInstance{}).
		Where("id = ? AND is_redeemed = false", id).
		UpdateColumn("is_redeemed", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *pgCardInstanceRepository) AnyByDefinition(ctx context.Context, definitionID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CardInstance{}).
		Where("definition_id = ?", definitionID).
		Count(&count).Error
	return count > 0, err
}

func (r *pgCardInstanceRepository) MarkOrphanedByDefinition(ctx context.Context, definitionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.CardInstance{}).
		Where("definition_id = ?", definitionID).
		UpdateColumn("definition_deleted", true).
		Error
}

func (r *pgCardInstanceRepository) TotalPointsByDefinition(ctx context.Context, definitionID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.PointEntry{}).
		Joins("JOIN card_instances ON card_instances.id = point_entries.instance_id").
		Where("card_instances.definition_id = ?", definitionID).
		Count(&total).Error
	return int(total), err
}

func (r *pgCardInstanceRepository) TotalPointsForCompany(ctx context.Context, userID, companyID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.PointEntry{}).
		Select("COALESCE(SUM(point_entries.value), 0)").
		Joins("JOIN card_instances ON card_instances.id = point_entries.instance_id").
		Joins("JOIN card_definitions ON card_definitions.id = card_instances.definition_id").
		Where("card_instances.user_id = ? AND card_definitions.company_id = ?", userID, companyID).
		Scan(&total).Error
	return int(total), err
}
