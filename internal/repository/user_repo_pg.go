package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stempelwerk/loyalty/internal/model"
)

type pgUserRepository struct {
	db *gorm.DB
}

func NewPGUserRepository(db *gorm.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Employments").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

type pgCompanyRepository struct {
	db *gorm.DB
}

func NewPGCompanyRepository(db *gorm.DB) CompanyRepository {
	return &pgCompanyRepository{db: db}
}

func (r *pgCompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var company model.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

type pgCustomerLevelRepository struct {
	db *gorm.DB
}

func NewPGCustomerLevelRepository(db *gorm.DB) CustomerLevelRepository {
	return &pgCustomerLevelRepository{db: db}
}

func (r *pgCustomerLevelRepository) Upsert(ctx context.Context, companyID, userID uuid.UUID, totalPoints int) error {
	level := model.CustomerLevel{
		CompanyID:   companyID,
		UserID:      userID,
		TotalPoints: totalPoints,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "company_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_points", "updated_at"}),
	}).Create(&level).Error
}

func (r *pgCustomerLevelRepository) Get(ctx context.Context, companyID, userID uuid.UUID) (*model.CustomerLevel, error) {
	var level model.CustomerLevel
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		First(&level).Error
	if err != nil {
		return nil, err
	}
	return &level, nil
}
