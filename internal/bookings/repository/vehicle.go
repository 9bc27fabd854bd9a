package repository

import (
	"context"
	"errors"
	"fmt"

	bookingserrors "fleetbook/internal/bookings/errors"
	"fleetbook/pkg/config"
	"fleetbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	VehicleCollection = "Vehicles"
)

// VehicleRepository is a read-only view of the fleet directory, plus the
// denormalized current-reservation pointer. The pointer is display
// metadata; availability decisions never read it.
type VehicleRepository interface {
	FindByID(ctx context.Context, id string) (*model.Vehicle, error)
	SetCurrentReservation(ctx context.Context, vehicleID, reservationID string) error
}

type mongoVehicleRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoVehicleRepository(cfg *config.Config) VehicleRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoVehicleRepository{
		cfg:        cfg,
		collection: db.Collection(VehicleCollection),
	}
}

func (r *mongoVehicleRepository) FindByID(ctx context.Context, id string) (*model.Vehicle, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var vehicle model.Vehicle
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&vehicle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to find vehicle: %w", err)
	}

	return &vehicle, nil
}

func (r *mongoVehicleRepository) SetCurrentReservation(ctx context.Context, vehicleID, reservationID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, vehicleID)
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"current_reservation_id": reservationID}},
	)
	if err != nil {
		return fmt.Errorf("failed to update vehicle reservation pointer: %w", err)
	}

	return nil
}
