package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "fleetbook/internal/bookings/errors"
	"fleetbook/pkg/config"
	mongotx "fleetbook/pkg/db/mongo"
	"fleetbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	ReservationCollection = "Reservations"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	// FindActiveOverlap returns a reservation on the vehicle whose interval
	// intersects the buffered window and which still holds its slot:
	// confirmed, or pending with an unexpired hold. Nil when the window is
	// free.
	FindActiveOverlap(ctx context.Context, vehicleID string, bufferedStart, bufferedEnd, now time.Time) (*model.Reservation, error)
	SetOrderID(ctx context.Context, reservationID, orderID string) error
	SetGatewayOrderID(ctx context.Context, reservationID, gatewayOrderID string) error
	// Confirm flips a pending reservation to confirmed and drops its
	// expiry. Returns false without error when no pending reservation
	// matched (already confirmed, or expired and removed).
	Confirm(ctx context.Context, reservationID string) (bool, error)
	ConfirmByGatewayOrderID(ctx context.Context, gatewayOrderID string) (bool, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		collection: db.Collection(ReservationCollection),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction. A SessionContext cannot be wrapped without breaking
// transaction semantics, so it is returned unchanged with a no-op cancel.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	reservation.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, reservation)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", bookingserrors.ErrDuplicateSlot, reservation.VehicleID)
		}
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		reservation.ID = oid.Hex()
	}
	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var reservation model.Reservation
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}

	return &reservation, nil
}

func (r *mongoReservationRepository) FindActiveOverlap(ctx context.Context, vehicleID string, bufferedStart, bufferedEnd, now time.Time) (*model.Reservation, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	// Strict bounds: a reservation ending exactly at the buffered start
	// (or starting exactly at the buffered end) does not collide.
	filter := bson.M{
		"vehicle_id": vehicleID,
		"start_time": bson.M{"$lt": bufferedEnd},
		"end_time":   bson.M{"$gt": bufferedStart},
		"$or": []bson.M{
			{"status": model.ReservationConfirmed},
			{
				"status":     model.ReservationPending,
				"expires_at": bson.M{"$gt": now},
			},
		},
	}

	var reservation model.Reservation
	err := r.collection.FindOne(ctx, filter).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check for overlapping reservations: %w", err)
	}

	return &reservation, nil
}

func (r *mongoReservationRepository) SetOrderID(ctx context.Context, reservationID, orderID string) error {
	return r.setField(ctx, reservationID, "order_id", orderID)
}

func (r *mongoReservationRepository) SetGatewayOrderID(ctx context.Context, reservationID, gatewayOrderID string) error {
	return r.setField(ctx, reservationID, "gateway_order_id", gatewayOrderID)
}

func (r *mongoReservationRepository) setField(ctx context.Context, reservationID, field, value string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(reservationID)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, reservationID)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{field: value}},
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation %s: %w", field, err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrReservationNotFound
	}

	return nil
}

func (r *mongoReservationRepository) Confirm(ctx context.Context, reservationID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(reservationID)
	if err != nil {
		return false, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, reservationID)
	}

	return r.confirm(ctx, bson.M{
		"_id":    objectID,
		"status": model.ReservationPending,
	})
}

func (r *mongoReservationRepository) ConfirmByGatewayOrderID(ctx context.Context, gatewayOrderID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	return r.confirm(ctx, bson.M{
		"gateway_order_id": gatewayOrderID,
		"status":           model.ReservationPending,
	})
}

// confirm conditionally advances pending -> confirmed. Clearing expires_at
// removes the document from the TTL index: confirmed reservations never
// expire.
func (r *mongoReservationRepository) confirm(ctx context.Context, filter bson.M) (bool, error) {
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{
		"$set":   bson.M{"status": model.ReservationConfirmed},
		"$unset": bson.M{"expires_at": ""},
	})
	if err != nil {
		return false, fmt.Errorf("failed to confirm reservation: %w", err)
	}

	return result.ModifiedCount > 0, nil
}

func (r *mongoReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
