package repository

import (
	"gorm.io/gorm"

	"github.com/hearthside/mailroom/interfaces"
	"github.com/hearthside/mailroom/internal/models"
)

type Repositories struct {
	ProfileRepository      interfaces.ProfileRepository
	ChildRepository        interfaces.ChildRepository
	UpdateRepository       interfaces.UpdateRepository
	RecipientRepository    interfaces.RecipientRepository
	MemoryRepository       interfaces.MemoryRepository
	ResponseRepository     interfaces.ResponseRepository
	InboundEventRepository interfaces.InboundEventRepository
}

func InitRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		ProfileRepository:      NewProfileRepository(db),
		ChildRepository:        NewChildRepository(db),
		UpdateRepository:       NewUpdateRepository(db),
		RecipientRepository:    NewRecipientRepository(db),
		MemoryRepository:       NewMemoryRepository(db),
		ResponseRepository:     NewResponseRepository(db),
		InboundEventRepository: NewInboundEventRepository(db),
	}
}

func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.Child{},
		&models.Update{},
		&models.Recipient{},
		&models.Memory{},
		&models.Response{},
		&models.InboundEvent{},
	)
}
