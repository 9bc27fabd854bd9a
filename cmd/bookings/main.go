package main

import (
	"fleetbook/internal/bookings/events"
	"fleetbook/internal/bookings/handler"
	"fleetbook/internal/bookings/repository"
	"fleetbook/internal/bookings/service"
	"fleetbook/internal/bookings/validator"
	"fleetbook/pkg/app"
	"fleetbook/pkg/config"
	"fleetbook/pkg/gateway"
	"fleetbook/pkg/kafka"
	kafkaconfig "fleetbook/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")

	serverApp := app.NewApplication(cfg)
	bookingHandler := initHandler(cfg, serverApp)
	serverApp.SetApp(bookingHandler)
	serverApp.Run()
}

func initHandler(cfg *config.Config, serverApp *app.Application) *handler.BookingHandler {
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	orderRepo := repository.NewMongoOrderRepository(cfg)
	vehicleRepo := repository.NewMongoVehicleRepository(cfg)

	gw := gateway.NewHTTPGateway(gateway.Config{
		BaseURL:   cfg.GatewayBaseURL,
		KeyID:     cfg.GatewayKeyID,
		KeySecret: cfg.GatewayKeySecret,
		Timeout:   cfg.GatewayTimeout,
	}, cfg.Log)

	publisher := initPublisher(cfg, serverApp)
	bookingValidator := validator.NewBookingValidator(cfg.Log)

	bookingService := service.NewBookingService(
		reservationRepo,
		orderRepo,
		vehicleRepo,
		gw,
		publisher,
		bookingValidator,
		cfg,
	)
	reconcilerService := service.NewReconcilerService(
		reservationRepo,
		orderRepo,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking services initialized", "database", cfg.MongoDatabaseName)
	return handler.NewBookingHandler(bookingService, reconcilerService, cfg.Log)
}

func initPublisher(cfg *config.Config, serverApp *app.Application) events.Publisher {
	if cfg.BookingEventsTopic == "" {
		cfg.Log.Info("Booking event publication disabled, no topic configured")
		return events.NopPublisher{}
	}

	producer, err := kafka.NewProducer(kafkaconfig.Load(), cfg.BookingEventsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
	}
	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})

	cfg.Log.Info("Booking event publication enabled", "topic", cfg.BookingEventsTopic)
	return events.NewKafkaPublisher(producer, cfg.Log)
}
