package model

// Vehicle is a read-only projection of the fleet directory. The booking
// core never mutates vehicles except for the denormalized
// current_reservation_id pointer, which is best-effort display metadata
// and never consulted for availability decisions.
type Vehicle struct {
	ID                   string `json:"id,omitempty" bson:"_id,omitempty"`
	StoreID              string `json:"store_id" bson:"store_id"`
	Name                 string `json:"name" bson:"name"`
	PricePerDay          int64  `json:"price_per_day" bson:"price_per_day"`
	CurrentReservationID string `json:"current_reservation_id,omitempty" bson:"current_reservation_id,omitempty"`
}
