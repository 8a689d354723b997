package model

import (
	"time"

	"github.com/google/uuid"
)

// Discount is the reward tier a full card buys, in percent.
type Discount int

const (
	Discount25  Discount = 25
	Discount50  Discount = 50
	Discount75  Discount = 75
	Discount100 Discount = 100
)

func (d Discount) Valid() bool {
	switch d {
	case Discount25, Discount50, Discount75, Discount100:
		return true
	}
	return false
}

const (
	MinCapacity = 1
	MaxCapacity = 20
)

// CardDefinition is a merchant's reward card template. Once customer
// instances reference it, deletion only sets the Deleted flag; the instances
// keep accruing history but the card disappears from issuance.
type CardDefinition struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Capacity    int       `gorm:"not null" json:"capacity"`
	Discount    Discount  `gorm:"type:smallint;not null" json:"discount"`
	Deleted     bool      `gorm:"not null;default:false" json:"deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (CardDefinition) TableName() string { return "card_definitions" }
