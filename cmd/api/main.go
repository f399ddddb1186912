package main

import (
	"context"

	audithandler "ticketbooking/internal/audit/handler"
	auditrepo "ticketbooking/internal/audit/repository"
	authhandler "ticketbooking/internal/auth/handler"
	authmw "ticketbooking/internal/auth/middleware"
	authrepo "ticketbooking/internal/auth/repository"
	authservice "ticketbooking/internal/auth/service"
	"ticketbooking/internal/auth/session"
	authvalidator "ticketbooking/internal/auth/validator"
	blogcache "ticketbooking/internal/blogs/cache"
	bloghandler "ticketbooking/internal/blogs/handler"
	blogrepo "ticketbooking/internal/blogs/repository"
	blogservice "ticketbooking/internal/blogs/service"
	"ticketbooking/internal/bookings/events"
	bookinghandler "ticketbooking/internal/bookings/handler"
	bookingrepo "ticketbooking/internal/bookings/repository"
	bookingservice "ticketbooking/internal/bookings/service"
	bookingvalidator "ticketbooking/internal/bookings/validator"
	"ticketbooking/internal/health"
	hotelhandler "ticketbooking/internal/hotels/handler"
	hotelrepo "ticketbooking/internal/hotels/repository"
	hotelservice "ticketbooking/internal/hotels/service"
	hotelvalidator "ticketbooking/internal/hotels/validator"
	"ticketbooking/pkg/app"
	"ticketbooking/pkg/config"
	"ticketbooking/pkg/contracts"
	kafka_config "ticketbooking/pkg/kafka/config"
	"ticketbooking/pkg/tracing"
)

const ServiceName = "ticketbooking-api"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	shutdownTracing, err := tracing.Setup(ServiceName, cfg.JaegerEndpoint, cfg.Environment)
	if err != nil {
		cfg.Log.Fatal("Failed to initialise tracing", "error", err)
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if kafkaCfg.Enabled() {
		kafkaCfg.LogConfiguration(cfg.Log.Info)
	}
	publisher, err := events.NewPublisher(kafkaCfg, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create booking event publisher", "error", err)
	}

	cfg.Log.Info("Starting ticket booking API")
	users := authrepo.NewMongoUserRepository(cfg)
	auth := authservice.NewAuthService(users, session.NewStore(cfg), authvalidator.NewAuthValidator(cfg.Log), cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		health.NewHealthHandler(health.MongoPinger(cfg.Client.Mongo), health.RedisPinger(cfg.Client.Redis), cfg.Log),
		authmw.Session(auth, cfg.SessionCookieName, cfg.Log),
		initHandlers(cfg, auth, users, publisher)...,
	)
	serverApp.OnShutdown(func(ctx context.Context) {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close booking event publisher", "error", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			cfg.Log.Error("Failed to flush traces", "error", err)
		}
	})
	serverApp.Run()
}

func initHandlers(cfg *config.Config, auth authservice.AuthService, users authrepo.UserRepository, publisher events.Publisher) []contracts.Handler {
	hotels := hotelrepo.NewMongoHotelRepository(cfg)
	hotelService := hotelservice.NewHotelService(hotels, hotelvalidator.NewHotelValidator(cfg.Log), cfg)

	bookingService := bookingservice.NewBookingService(
		bookingrepo.NewMongoBookingRepository(cfg),
		bookingrepo.NewBookingLockRepository(cfg),
		hotels,
		users,
		bookingvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)

	blogService := blogservice.NewBlogService(
		blogrepo.NewMongoBlogRepository(cfg),
		users,
		blogcache.New(cfg.Client.Redis, cfg.BlogCacheTTL),
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)
	return []contracts.Handler{
		authhandler.NewAuthHandler(auth, cfg),
		hotelhandler.NewHotelHandler(hotelService, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
		bookinghandler.NewManagerHandler(bookingService, cfg.Log),
		bloghandler.NewBlogHandler(blogService, cfg.Log),
		audithandler.NewEventHandler(auditrepo.NewMongoEventRepository(cfg), cfg.Log),
	}
}
