package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "fleetbook/internal/bookings/errors"
	"fleetbook/internal/bookings/events"
	"fleetbook/internal/bookings/repository"
	"fleetbook/internal/bookings/validator"
	"fleetbook/pkg/config"
	mongotx "fleetbook/pkg/db/mongo"
	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/gateway"
	"fleetbook/pkg/model"
	"fleetbook/pkg/retry"

	"github.com/google/uuid"
)

type BookingService interface {
	// AttemptBooking places a hold on the vehicle for the requested window
	// and creates the paired order plus a payment-gateway order. At most
	// one of any set of concurrent overlapping attempts succeeds.
	AttemptBooking(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
}

type bookingService struct {
	reservations repository.ReservationRepository
	orders       repository.OrderRepository
	vehicles     repository.VehicleRepository
	gateway      gateway.Gateway
	events       events.Publisher
	validator    *validator.BookingValidator
	cfg          *config.Config
}

func NewBookingService(
	reservations repository.ReservationRepository,
	orders repository.OrderRepository,
	vehicles repository.VehicleRepository,
	gw gateway.Gateway,
	publisher events.Publisher,
	bookingValidator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		reservations: reservations,
		orders:       orders,
		vehicles:     vehicles,
		gateway:      gw,
		events:       publisher,
		validator:    bookingValidator,
		cfg:          cfg,
	}
}

func (s *bookingService) AttemptBooking(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error) {
	s.applyDefaults(req)
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	var reservation *model.Reservation
	var order *model.Order

	// Only storage-level write conflicts are retried. A visible overlap is
	// a business conflict; retrying cannot change its outcome.
	opts := retry.Options{MaxAttempts: s.cfg.BookingMaxTxRetries}
	exhausted, holdErr := retry.WithRetries(ctx, opts, mongotx.IsTransient, func(ctx context.Context) error {
		res, ord, err := s.holdSlot(ctx, req)
		if err != nil {
			return err
		}
		reservation, order = res, ord
		return nil
	})
	if holdErr != nil {
		return nil, s.classifyHoldError(holdErr, exhausted, req)
	}

	s.cfg.Log.Info("Reservation hold committed",
		"reservation_id", reservation.ID,
		"order_id", order.ID,
		"vehicle_id", req.VehicleID,
		"start_time", req.StartTime,
		"end_time", req.EndTime,
	)
	s.events.ReservationCreated(reservation, order)

	// The gateway call is deliberately outside the transaction: it must not
	// block the hold's atomicity, and gateway failure must not roll the
	// hold back. The pending reservation self-heals via expiry if payment
	// never completes.
	gatewayOrder, err := s.gateway.CreateOrder(ctx, req.TotalAmount, req.Currency, uuid.New().String())
	if err != nil {
		s.cfg.Log.Error("Payment gateway order creation failed",
			"order_id", order.ID,
			"reservation_id", reservation.ID,
			"error", err,
		)
		return nil, apperrors.GatewayFailure("Payment order could not be created", err).WithDetails(map[string]any{
			"order_id":       order.ID,
			"reservation_id": reservation.ID,
		})
	}

	s.linkGatewayOrder(ctx, reservation, order, gatewayOrder.ID)
	s.updateVehiclePointer(ctx, req.VehicleID, reservation.ID)

	return &model.BookingResult{
		OrderID:        order.ID,
		ReservationID:  reservation.ID,
		GatewayOrderID: gatewayOrder.ID,
		Amount:         gatewayOrder.Amount,
		Currency:       gatewayOrder.Currency,
	}, nil
}

// holdSlot runs the transactional read-check-write: reject when the
// buffered window overlaps an active reservation, otherwise insert the
// reservation/order pair and link them.
func (s *bookingService) holdSlot(ctx context.Context, req *model.BookingRequest) (*model.Reservation, *model.Order, error) {
	var reservation *model.Reservation
	var order *model.Order

	err := s.reservations.ExecuteTransaction(ctx, func(sessCtx context.Context) error {
		now := time.Now().UTC()
		bufferedStart := req.StartTime.Add(-s.cfg.BookingBuffer)
		bufferedEnd := req.EndTime.Add(s.cfg.BookingBuffer)

		existing, err := s.reservations.FindActiveOverlap(sessCtx, req.VehicleID, bufferedStart, bufferedEnd, now)
		if err != nil {
			return apperrors.Internal("Failed to check vehicle availability", err)
		}
		if existing != nil {
			return apperrors.SlotUnavailable(fmt.Sprintf(
				"Vehicle is reserved around the requested window (%s - %s, including turnaround buffer)",
				existing.StartTime.Format(time.RFC3339),
				existing.EndTime.Format(time.RFC3339),
			))
		}

		expiry := now.Add(s.cfg.BookingHoldTimeout)
		reservation = &model.Reservation{
			VehicleID: req.VehicleID,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Status:    model.ReservationPending,
			ExpiresAt: &expiry,
		}
		if err := s.reservations.Create(sessCtx, reservation); err != nil {
			return err
		}

		order = &model.Order{
			UserID:        req.UserID,
			VehicleID:     req.VehicleID,
			StoreID:       req.StoreID,
			StartTime:     req.StartTime,
			EndTime:       req.EndTime,
			TotalAmount:   req.TotalAmount,
			Currency:      req.Currency,
			Status:        model.OrderPending,
			PaymentStatus: model.PaymentPending,
			ReservationID: reservation.ID,
		}
		if err := s.orders.Create(sessCtx, order); err != nil {
			return apperrors.Internal("Failed to create order", err)
		}

		if err := s.reservations.SetOrderID(sessCtx, reservation.ID, order.ID); err != nil {
			return apperrors.Internal("Failed to link reservation to order", err)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return reservation, order, nil
}

func (s *bookingService) classifyHoldError(err error, exhausted bool, req *model.BookingRequest) error {
	if exhausted {
		s.cfg.Log.Warn("Booking retry bound exhausted",
			"vehicle_id", req.VehicleID,
			"max_attempts", s.cfg.BookingMaxTxRetries,
			"error", err,
		)
		return apperrors.RetriesExhausted("Booking could not be completed under contention, please retry", err)
	}
	// The unique slot index only rejects byte-identical windows; treat that
	// as the slot being taken.
	if errors.Is(err, bookingserrors.ErrDuplicateSlot) || mongotx.IsDuplicate(err) {
		return apperrors.SlotUnavailable("An identical reservation already exists for this vehicle and window")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	s.cfg.Log.Error("Booking transaction failed", "vehicle_id", req.VehicleID, "error", err)
	return apperrors.Internal("Failed to create booking", err)
}

// linkGatewayOrder persists the gateway order id onto both rows. Best
// effort: the slot is already held, so a failure is logged and left for
// reconciliation rather than surfaced to the caller.
func (s *bookingService) linkGatewayOrder(ctx context.Context, reservation *model.Reservation, order *model.Order, gatewayOrderID string) {
	if err := s.orders.SetGatewayOrderID(ctx, order.ID, gatewayOrderID); err != nil {
		s.cfg.Log.Error("Failed to link gateway order to order",
			"order_id", order.ID,
			"gateway_order_id", gatewayOrderID,
			"error", err,
		)
	}
	if err := s.reservations.SetGatewayOrderID(ctx, reservation.ID, gatewayOrderID); err != nil {
		s.cfg.Log.Error("Failed to link gateway order to reservation",
			"reservation_id", reservation.ID,
			"gateway_order_id", gatewayOrderID,
			"error", err,
		)
	}
}

// updateVehiclePointer refreshes the denormalized availability pointer.
// Eventually-consistent display metadata only.
func (s *bookingService) updateVehiclePointer(ctx context.Context, vehicleID, reservationID string) {
	if err := s.vehicles.SetCurrentReservation(ctx, vehicleID, reservationID); err != nil {
		s.cfg.Log.Warn("Failed to update vehicle reservation pointer",
			"vehicle_id", vehicleID,
			"reservation_id", reservationID,
			"error", err,
		)
	}
}

func (s *bookingService) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Order ID cannot be empty")
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrOrderNotFound) {
			return nil, apperrors.NotFoundWithID("Order", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid order ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve order", err)
	}

	return order, nil
}

func (s *bookingService) applyDefaults(req *model.BookingRequest) {
	if req.Currency == "" {
		req.Currency = config.DefaultCurrency
	}
}
