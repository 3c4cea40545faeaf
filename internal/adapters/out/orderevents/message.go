// Package orderevents encodes order status changes for the outbox and the broker.
package orderevents

import (
	"encoding/json"
	"time"

	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/ports"
)

// StatusChangedMessage is the JSON value published on the order-changed topic.
// The message key is the order id.
type StatusChangedMessage struct {
	OrderID    string    `json:"orderId"`
	SchoolID   string    `json:"schoolId"`
	ConsumerID string    `json:"consumerId"`
	CarrierID  *string   `json:"carrierId,omitempty"`
	Event      string    `json:"event"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	ActorID    string    `json:"actorId"`
	ActorRole  string    `json:"actorRole"`
	Attempt    int       `json:"attempt"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewStatusChangedMessage maps a domain event to its wire shape.
func NewStatusChangedMessage(ev order.StatusChanged) StatusChangedMessage {
	var carrierID *string
	if ev.CarrierID != nil {
		id := ev.CarrierID.String()
		carrierID = &id
	}
	return StatusChangedMessage{
		OrderID:    ev.OrderID.String(),
		SchoolID:   ev.SchoolID.String(),
		ConsumerID: ev.ConsumerID.String(),
		CarrierID:  carrierID,
		Event:      ev.Event.String(),
		From:       ev.From.String(),
		To:         ev.To.String(),
		ActorID:    ev.ActorID.String(),
		ActorRole:  ev.ActorRole.String(),
		Attempt:    ev.Attempt,
		OccurredAt: ev.OccurredAt.UTC(),
	}
}

// Encode renders a domain event as an outbox message without an id.
func Encode(ev order.StatusChanged) (ports.OutboxMessage, error) {
	payload, err := json.Marshal(NewStatusChangedMessage(ev))
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	return ports.OutboxMessage{
		OrderID:    ev.OrderID,
		Event:      ev.Event.String(),
		Payload:    payload,
		OccurredAt: ev.OccurredAt.UTC(),
	}, nil
}

// Decode parses a payload produced by Encode.
func Decode(payload []byte) (StatusChangedMessage, error) {
	var msg StatusChangedMessage
	err := json.Unmarshal(payload, &msg)
	return msg, err
}
