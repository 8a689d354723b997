package model

import (
	"time"

	"github.com/google/uuid"
)

// CardInstance is one customer's concrete copy of a definition. Overflow can
// leave a customer with several instances per definition; at most one of them
// is open (not full) at any time.
type CardInstance struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DefinitionID      uuid.UUID `gorm:"type:uuid;not null;index:idx_card_instances_user_definition" json:"definition_id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index:idx_card_instances_user_definition,priority:1" json:"user_id"`
	IsFull            bool      `gorm:"not null;default:false" json:"is_full"`
	IsRedeemed        bool      `gorm:"not null;default:false" json:"is_redeemed"`
	RedemptionToken   *string   `gorm:"type:text" json:"redemption_token,omitempty"`
	DefinitionDeleted bool      `gorm:"not null;default:false" json:"definition_deleted"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Points     []PointEntry    `gorm:"foreignKey:InstanceID" json:"points"`
	Definition *CardDefinition `gorm:"foreignKey:DefinitionID" json:"definition,omitempty"`
}

func (CardInstance) TableName() string { return "card_instances" }

// PointCount is the fill level of the instance (number of entries, not the
// summed values).
func (c *CardInstance) PointCount() int { return len(c.Points) }

// PointEntry is a single appended point. Entries are never mutated or
// reordered after creation.
type PointEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	InstanceID uuid.UUID `gorm:"type:uuid;not null;index" json:"instance_id"`
	Value      int       `gorm:"not null;default:1" json:"value"`
	IssuerID   uuid.UUID `gorm:"type:uuid;not null" json:"issuer_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (PointEntry) TableName() string { return "point_entries" }
