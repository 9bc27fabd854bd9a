package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "fleetbook/internal/bookings/errors"
	"fleetbook/pkg/config"
	"fleetbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	OrderCollection = "Orders"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Order, error)
	SetGatewayOrderID(ctx context.Context, orderID, gatewayOrderID string) error
	// MarkPaid flips a pending-payment order to confirmed/paid and records
	// the gateway payment id. Returns false without error when the order
	// was already paid, which is how webhook replays become no-ops.
	MarkPaid(ctx context.Context, orderID, gatewayPaymentID string) (bool, error)
}

type mongoOrderRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoOrderRepository(cfg *config.Config) OrderRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoOrderRepository{
		cfg:        cfg,
		collection: db.Collection(OrderCollection),
	}
}

func (r *mongoOrderRepository) Create(ctx context.Context, order *model.Order) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	order.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid.Hex()
	}
	return nil
}

func (r *mongoOrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var order model.Order
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	return &order, nil
}

func (r *mongoOrderRepository) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Order, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var order model.Order
	err := r.collection.FindOne(ctx, bson.M{"gateway_order_id": gatewayOrderID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by gateway order id: %w", err)
	}

	return &order, nil
}

func (r *mongoOrderRepository) SetGatewayOrderID(ctx context.Context, orderID, gatewayOrderID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, orderID)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"gateway_order_id": gatewayOrderID}},
	)
	if err != nil {
		return fmt.Errorf("failed to update order gateway_order_id: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrOrderNotFound
	}

	return nil
}

func (r *mongoOrderRepository) MarkPaid(ctx context.Context, orderID, gatewayPaymentID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return false, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, orderID)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":            objectID,
			"payment_status": model.PaymentPending,
		},
		bson.M{"$set": bson.M{
			"status":             model.OrderConfirmed,
			"payment_status":     model.PaymentPaid,
			"gateway_payment_id": gatewayPaymentID,
		}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark order paid: %w", err)
	}

	return result.ModifiedCount > 0, nil
}
