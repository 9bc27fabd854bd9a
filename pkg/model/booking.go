package model

import "time"

// BookingRequest is the client payload for a booking attempt. Vehicle and
// store existence plus pricing are validated by the caller before the core
// is invoked; the amount here is a precomputed total in minor units.
type BookingRequest struct {
	VehicleID   string    `json:"vehicle_id" validate:"required,mongodb"`
	StoreID     string    `json:"store_id" validate:"required,mongodb"`
	UserID      string    `json:"user_id" validate:"required,mongodb"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	TotalAmount int64     `json:"total_amount" validate:"required,gt=0"`
	Currency    string    `json:"currency" validate:"omitempty,iso4217"`
}

// BookingResult is returned to the caller after the hold is committed and
// the gateway order created. GatewayOrderID is what the payment page needs
// to open the checkout.
type BookingResult struct {
	OrderID        string `json:"order_id"`
	ReservationID  string `json:"reservation_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
}
