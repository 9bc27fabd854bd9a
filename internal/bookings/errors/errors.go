package errors

import "errors"

var (
	ErrReservationNotFound = errors.New("reservation not found")

	ErrOrderNotFound = errors.New("order not found")

	ErrVehicleNotFound = errors.New("vehicle not found")

	ErrInvalidID = errors.New("invalid ID format")

	ErrDuplicateSlot = errors.New("identical reservation slot already exists")
)
