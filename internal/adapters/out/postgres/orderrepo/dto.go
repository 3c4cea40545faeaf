// Package orderrepo maps the Order aggregate to the orders table and
// implements compare-and-update on the version column.
package orderrepo

import (
	"time"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders row. idx_orders_available serves ListAvailable's keyset scan.
type OrderDTO struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey"`
	SchoolID     uuid.UUID   `gorm:"type:uuid;not null;index:idx_orders_available,priority:1"`
	RestaurantID uuid.UUID   `gorm:"type:uuid;not null"`
	ConsumerID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	CarrierID    *uuid.UUID  `gorm:"type:uuid;index"`
	Snapshot     SnapshotDTO `gorm:"type:text;not null;serializer:json"`
	HandoffCode  string      `gorm:"type:char(4);not null"`
	Status       int         `gorm:"not null;index:idx_orders_available,priority:2"`
	Attempt      int         `gorm:"not null"`
	CreatedAt    time.Time   `gorm:"not null;autoCreateTime:false;index:idx_orders_available,priority:3"`
	ClaimedAt    *time.Time
	RetrievedAt  *time.Time
	ResolvedAt   *time.Time
	Version      int64 `gorm:"not null"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// SnapshotDTO is the frozen menu snapshot stored as a JSON document.
type SnapshotDTO struct {
	RestaurantName string            `json:"restaurantName"`
	Lines          []SnapshotLineDTO `json:"lines"`
}

type SnapshotLineDTO struct {
	ItemID         string              `json:"itemId"`
	Name           string              `json:"name"`
	UnitPriceCents int64               `json:"unitPriceCents"`
	Quantity       int                 `json:"quantity"`
	Options        []SnapshotOptionDTO `json:"options"`
}

type SnapshotOptionDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
}

func fromRecord(r order.Record) OrderDTO {
	var carrierID *uuid.UUID
	if r.CarrierID != nil {
		raw := r.CarrierID.Bytes()
		carrierID = &raw
	}

	return OrderDTO{
		ID:           r.ID.Bytes(),
		SchoolID:     r.SchoolID.Bytes(),
		RestaurantID: r.RestaurantID.Bytes(),
		ConsumerID:   r.ConsumerID.Bytes(),
		CarrierID:    carrierID,
		Snapshot:     fromSnapshot(r.Snapshot),
		HandoffCode:  r.HandoffCode,
		Status:       int(r.Status),
		Attempt:      r.Attempt,
		CreatedAt:    r.CreatedAt,
		ClaimedAt:    r.ClaimedAt,
		RetrievedAt:  r.RetrievedAt,
		ResolvedAt:   r.ResolvedAt,
		Version:      r.Version,
	}
}

func fromSnapshot(s order.MenuSnapshot) SnapshotDTO {
	lines := s.Lines()
	dto := SnapshotDTO{RestaurantName: s.RestaurantName(), Lines: make([]SnapshotLineDTO, 0, len(lines))}
	for _, line := range lines {
		var options []SnapshotOptionDTO
		if line.Options != nil {
			options = make([]SnapshotOptionDTO, 0, len(line.Options))
		}
		for _, opt := range line.Options {
			options = append(options, SnapshotOptionDTO{ID: opt.ID, Name: opt.Name, PriceCents: opt.Price.Cents()})
		}
		dto.Lines = append(dto.Lines, SnapshotLineDTO{
			ItemID:         line.ItemID,
			Name:           line.Name,
			UnitPriceCents: line.UnitPrice.Cents(),
			Quantity:       line.Quantity,
			Options:        options,
		})
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	ids, err := parseIDs(dto.ID, dto.SchoolID, dto.RestaurantID, dto.ConsumerID)
	if err != nil {
		return nil, err
	}

	var carrierID *kernel.UUID
	if dto.CarrierID != nil {
		cID, carrierErr := kernel.UUIDFromBytes(dto.CarrierID[:])
		if carrierErr != nil {
			return nil, carrierErr
		}
		carrierID = &cID
	}

	snapshot, err := toSnapshot(ids[2], dto.Snapshot)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Record{
		ID:           ids[0],
		SchoolID:     ids[1],
		RestaurantID: ids[2],
		ConsumerID:   ids[3],
		Snapshot:     snapshot,
		HandoffCode:  dto.HandoffCode,
		Status:       order.Status(dto.Status),
		CarrierID:    carrierID,
		Attempt:      dto.Attempt,
		CreatedAt:    dto.CreatedAt,
		ClaimedAt:    dto.ClaimedAt,
		RetrievedAt:  dto.RetrievedAt,
		ResolvedAt:   dto.ResolvedAt,
		Version:      dto.Version,
	})
}

func toSnapshot(restaurantID kernel.UUID, dto SnapshotDTO) (order.MenuSnapshot, error) {
	lines := make([]order.SnapshotLine, 0, len(dto.Lines))
	for _, l := range dto.Lines {
		unit, err := kernel.NewMoney(l.UnitPriceCents)
		if err != nil {
			return order.MenuSnapshot{}, err
		}
		var options []order.SnapshotOption
		if l.Options != nil {
			options = make([]order.SnapshotOption, 0, len(l.Options))
		}
		for _, o := range l.Options {
			price, priceErr := kernel.NewMoney(o.PriceCents)
			if priceErr != nil {
				return order.MenuSnapshot{}, priceErr
			}
			options = append(options, order.SnapshotOption{ID: o.ID, Name: o.Name, Price: price})
		}
		lines = append(lines, order.SnapshotLine{
			ItemID:    l.ItemID,
			Name:      l.Name,
			UnitPrice: unit,
			Quantity:  l.Quantity,
			Options:   options,
		})
	}
	return order.NewMenuSnapshot(restaurantID, dto.RestaurantName, lines)
}

func parseIDs(raw ...uuid.UUID) ([]kernel.UUID, error) {
	out := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromBytes(r[:])
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
