package service

import (
	"context"
	"errors"

	bookingserrors "fleetbook/internal/bookings/errors"
	"fleetbook/internal/bookings/events"
	"fleetbook/internal/bookings/repository"
	"fleetbook/pkg/config"
	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/gateway"
	"fleetbook/pkg/model"
)

// ReconcilerService advances a booking to confirmed/paid state. Both entry
// points are idempotent: a replayed confirmation or webhook observes the
// already-final state and succeeds without touching anything.
type ReconcilerService interface {
	ConfirmBooking(ctx context.Context, reservationID string) error
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type reconcilerService struct {
	reservations repository.ReservationRepository
	orders       repository.OrderRepository
	events       events.Publisher
	cfg          *config.Config
}

func NewReconcilerService(
	reservations repository.ReservationRepository,
	orders repository.OrderRepository,
	publisher events.Publisher,
	cfg *config.Config,
) ReconcilerService {
	return &reconcilerService{
		reservations: reservations,
		orders:       orders,
		events:       publisher,
		cfg:          cfg,
	}
}

// ConfirmBooking is the synchronous confirmation path, called after a
// payment-success redirect. Already-confirmed and already-expired
// reservations are a successful no-op.
func (s *reconcilerService) ConfirmBooking(ctx context.Context, reservationID string) error {
	if reservationID == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	confirmed, err := s.reservations.Confirm(ctx, reservationID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid reservation ID format")
		}
		return apperrors.Internal("Failed to confirm reservation", err)
	}

	if !confirmed {
		s.cfg.Log.Info("Confirmation was a no-op, reservation not pending",
			"reservation_id", reservationID,
		)
		return nil
	}

	s.cfg.Log.Info("Reservation confirmed", "reservation_id", reservationID)
	s.publishConfirmed(ctx, reservationID)
	return nil
}

// HandleWebhook applies a gateway settlement notification. Fails closed on
// a bad signature; everything after that is idempotent.
func (s *reconcilerService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if !gateway.VerifySignature(payload, signature, s.cfg.GatewayWebhookSecret) {
		s.cfg.Log.Warn("Webhook rejected, signature mismatch")
		return apperrors.SignatureInvalid("Webhook signature verification failed")
	}

	event, err := gateway.ParseWebhook(payload)
	if err != nil {
		return apperrors.InvalidInput("Malformed webhook payload")
	}

	if !event.IsSettlement() {
		s.cfg.Log.Debug("Ignoring non-settlement webhook event", "event", event.Event)
		return nil
	}

	gatewayOrderID := event.GatewayOrderID()
	if gatewayOrderID == "" {
		s.cfg.Log.Warn("Settlement webhook missing gateway order id", "event", event.Event)
		return nil
	}

	order, err := s.orders.FindByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrOrderNotFound) {
			// Unknown order: either a foreign delivery or the linkage step
			// never ran. Acknowledge so the gateway stops redelivering.
			s.cfg.Log.Warn("Webhook for unknown gateway order", "gateway_order_id", gatewayOrderID)
			return nil
		}
		return apperrors.Internal("Failed to look up order for webhook", err)
	}

	if order.PaymentStatus == model.PaymentPaid {
		s.cfg.Log.Info("Webhook replay ignored, order already paid",
			"order_id", order.ID,
			"gateway_order_id", gatewayOrderID,
		)
		return nil
	}

	paymentID := event.Payload.Payment.Entity.ID

	var transitioned bool
	err = s.reservations.ExecuteTransaction(ctx, func(sessCtx context.Context) error {
		paid, err := s.orders.MarkPaid(sessCtx, order.ID, paymentID)
		if err != nil {
			return apperrors.Internal("Failed to mark order paid", err)
		}
		if !paid {
			// A concurrent delivery won the race; nothing left to do.
			return nil
		}

		if _, err := s.reservations.ConfirmByGatewayOrderID(sessCtx, gatewayOrderID); err != nil {
			return apperrors.Internal("Failed to confirm reservation from webhook", err)
		}

		transitioned = true
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Webhook reconciliation failed",
			"order_id", order.ID,
			"gateway_order_id", gatewayOrderID,
			"error", err,
		)
		return err
	}

	if !transitioned {
		return nil
	}

	s.cfg.Log.Info("Order reconciled from webhook",
		"order_id", order.ID,
		"gateway_order_id", gatewayOrderID,
		"gateway_payment_id", paymentID,
	)
	s.publishConfirmed(ctx, order.ReservationID)
	return nil
}

func (s *reconcilerService) publishConfirmed(ctx context.Context, reservationID string) {
	if reservationID == "" {
		return
	}
	reservation, err := s.reservations.FindByID(ctx, reservationID)
	if err != nil {
		s.cfg.Log.Warn("Could not load reservation for confirmation event",
			"reservation_id", reservationID,
			"error", err,
		)
		return
	}
	s.events.ReservationConfirmed(reservation)
}
