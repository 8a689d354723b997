package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email     string         `gorm:"type:varchar(255);not null" json:"email"`
	Name      string         `gorm:"type:varchar(100)" json:"name"`
	Role      Role           `gorm:"type:smallint;not null;default:1" json:"role"`
	CompanyID *uuid.UUID     `gorm:"type:uuid" json:"company_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Employments []Employment `gorm:"foreignKey:UserID" json:"employments,omitempty"`
}

func (User) TableName() string { return "users" }

// Employment links a user to a company as counter staff. An invitation that
// has not been accepted yet leaves Verified false and confers no authority.
type Employment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Verified  bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Employment) TableName() string { return "employments" }
