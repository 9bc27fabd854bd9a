package model

import "time"

const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderOngoing   = "ongoing"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"

	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Order is the user-facing rental transaction. The booking core only ever
// writes the pending and confirmed/paid states; ongoing, completed,
// cancelled and refunded belong to the rental-lifecycle service.
type Order struct {
	ID               string    `json:"id,omitempty" bson:"_id,omitempty"`
	UserID           string    `json:"user_id" bson:"user_id"`
	VehicleID        string    `json:"vehicle_id" bson:"vehicle_id"`
	StoreID          string    `json:"store_id" bson:"store_id"`
	StartTime        time.Time `json:"start_time" bson:"start_time"`
	EndTime          time.Time `json:"end_time" bson:"end_time"`
	TotalAmount      int64     `json:"total_amount" bson:"total_amount"`
	Currency         string    `json:"currency" bson:"currency"`
	Status           string    `json:"status" bson:"status"`
	PaymentStatus    string    `json:"payment_status" bson:"payment_status"`
	ReservationID    string    `json:"reservation_id,omitempty" bson:"reservation_id,omitempty"`
	GatewayOrderID   string    `json:"gateway_order_id,omitempty" bson:"gateway_order_id,omitempty"`
	GatewayPaymentID string    `json:"gateway_payment_id,omitempty" bson:"gateway_payment_id,omitempty"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}
