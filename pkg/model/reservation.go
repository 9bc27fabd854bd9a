package model

import "time"

const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
)

// Reservation is a time-slot hold on one vehicle. It is the unit that
// enforces the no-double-booking invariant: at most one confirmed or
// unexpired pending reservation may cover any buffered interval on a
// vehicle.
type Reservation struct {
	ID             string     `json:"id,omitempty" bson:"_id,omitempty"`
	VehicleID      string     `json:"vehicle_id" bson:"vehicle_id"`
	StartTime      time.Time  `json:"start_time" bson:"start_time"`
	EndTime        time.Time  `json:"end_time" bson:"end_time"`
	Status         string     `json:"status" bson:"status"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	OrderID        string     `json:"order_id,omitempty" bson:"order_id,omitempty"`
	GatewayOrderID string     `json:"gateway_order_id,omitempty" bson:"gateway_order_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
}
