// Package outboxrepo stores order status changes in the order_events table
// until the relay job publishes them.
package outboxrepo

import (
	"context"
	"time"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderEventDTO is one order_events row. It doubles as the transition audit trail.
type OrderEventDTO struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Event       string     `gorm:"size:32;not null"`
	Payload     string     `gorm:"type:text;not null"`
	OccurredAt  time.Time  `gorm:"not null"`
	PublishedAt *time.Time `gorm:"index"`
}

func (OrderEventDTO) TableName() string {
	return "order_events"
}

// Append inserts messages on db, which is expected to be the caller's transaction.
func Append(ctx context.Context, db *gorm.DB, messages []ports.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}
	rows := make([]OrderEventDTO, 0, len(messages))
	for _, m := range messages {
		rows = append(rows, OrderEventDTO{
			OrderID:    m.OrderID.Bytes(),
			Event:      m.Event,
			Payload:    string(m.Payload),
			OccurredAt: m.OccurredAt.UTC(),
		})
	}
	return db.WithContext(ctx).Create(&rows).Error
}

// GormOutboxRepository implements ports.OutboxRepository.
type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

func (r *GormOutboxRepository) Pending(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var rows []OrderEventDTO
	if err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("id").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		orderID, err := kernel.UUIDFromBytes(row.OrderID[:])
		if err != nil {
			return nil, err
		}
		out = append(out, ports.OutboxMessage{
			ID:         row.ID,
			OrderID:    orderID,
			Event:      row.Event,
			Payload:    []byte(row.Payload),
			OccurredAt: row.OccurredAt.UTC(),
		})
	}
	return out, nil
}

func (r *GormOutboxRepository) MarkPublished(ctx context.Context, ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&OrderEventDTO{}).
		Where("id IN ? AND published_at IS NULL", ids).
		Update("published_at", at.UTC()).Error
}
