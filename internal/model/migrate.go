package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for all models and creates custom indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Employment{},
		&Company{},
		&CustomerLevel{},
		&CardDefinition{},
		&CardInstance{},
		&PointEntry{},
	); err != nil {
		return err
	}

	// One verified employment per (user, company).
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_employments_user_company " +
			"ON employments (user_id, company_id)",
	).Error; err != nil {
		return err
	}

	// At most one open instance per (user, definition); full and redeemed
	// instances are unconstrained.
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_card_instances_single_open " +
			"ON card_instances (user_id, definition_id) WHERE is_full = false",
	).Error
}
