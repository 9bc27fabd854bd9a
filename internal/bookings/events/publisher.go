package events

import (
	"context"
	"time"

	"fleetbook/pkg/kafka"
	"fleetbook/pkg/logger"
	"fleetbook/pkg/model"
)

const (
	TypeReservationCreated   = "booking.reservation.created"
	TypeReservationConfirmed = "booking.reservation.confirmed"

	publishTimeout = 5 * time.Second
)

// ReservationEvent is the payload downstream consumers receive when a
// reservation is created or confirmed.
type ReservationEvent struct {
	ReservationID string    `json:"reservation_id"`
	OrderID       string    `json:"order_id,omitempty"`
	VehicleID     string    `json:"vehicle_id"`
	UserID        string    `json:"user_id,omitempty"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher emits booking lifecycle events. Publication is fire and
// forget: a broker outage must never fail a booking.
type Publisher interface {
	ReservationCreated(reservation *model.Reservation, order *model.Order)
	ReservationConfirmed(reservation *model.Reservation)
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *kafkaPublisher) ReservationCreated(reservation *model.Reservation, order *model.Order) {
	event := ReservationEvent{
		ReservationID: reservation.ID,
		OrderID:       order.ID,
		VehicleID:     reservation.VehicleID,
		UserID:        order.UserID,
		StartTime:     reservation.StartTime,
		EndTime:       reservation.EndTime,
		Status:        reservation.Status,
		OccurredAt:    time.Now().UTC(),
	}
	p.publish(TypeReservationCreated, reservation.ID, event)
}

func (p *kafkaPublisher) ReservationConfirmed(reservation *model.Reservation) {
	event := ReservationEvent{
		ReservationID: reservation.ID,
		OrderID:       reservation.OrderID,
		VehicleID:     reservation.VehicleID,
		StartTime:     reservation.StartTime,
		EndTime:       reservation.EndTime,
		Status:        model.ReservationConfirmed,
		OccurredAt:    time.Now().UTC(),
	}
	p.publish(TypeReservationConfirmed, reservation.ID, event)
}

func (p *kafkaPublisher) publish(eventType, key string, payload any) {
	msg, err := kafka.NewMessage(key, eventType, payload)
	if err != nil {
		p.log.Error("Failed to build booking event", "event_type", eventType, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"event_id", msg.GetEventID(),
			"key", key,
			"error", err,
		)
		return
	}

	p.log.Debug("Booking event published", "event_type", eventType, "event_id", msg.GetEventID())
}

// NopPublisher drops events. Used when no events topic is configured and
// in tests that do not assert on events.
type NopPublisher struct{}

func (NopPublisher) ReservationCreated(*model.Reservation, *model.Order) {}

func (NopPublisher) ReservationConfirmed(*model.Reservation) {}
