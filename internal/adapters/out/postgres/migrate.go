package postgres

import (
	"dormeal/internal/adapters/out/postgres/accountrepo"
	"dormeal/internal/adapters/out/postgres/orderrepo"
	"dormeal/internal/adapters/out/postgres/outboxrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables owned by this service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&orderrepo.OrderDTO{}, &outboxrepo.OrderEventDTO{}, &accountrepo.AccountDTO{})
}
