package bootstrap

import (
	"anoa.com/dailyguessr/internal/entity"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.ParticipantScore{},
	)
}
