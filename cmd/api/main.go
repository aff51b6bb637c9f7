package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Azure/go-amqp"

	"github.com/rafaelmaranon/Availo/common/env"
	"github.com/rafaelmaranon/Availo/common/logger"
	"github.com/rafaelmaranon/Availo/common/rabbitmq"
	"github.com/rafaelmaranon/Availo/common/telemetry"
	"github.com/rafaelmaranon/Availo/internal/configs"
	"github.com/rafaelmaranon/Availo/internal/location"
	"github.com/rafaelmaranon/Availo/internal/matcher"
	"github.com/rafaelmaranon/Availo/internal/negotiation"
	"github.com/rafaelmaranon/Availo/internal/seed"
	"github.com/rafaelmaranon/Availo/internal/store"
)

const (
	serviceName    = "availo-api"
	serviceVersion = "1.0.0"
)

type Config struct {
	Repo         store.Repository
	Matcher      *matcher.Live
	Negotiations *negotiation.Manager
	Locations    *location.Service
	Seeder       *seed.Seeder
	RabbitConn   *amqp.Conn
}

func main() {
	logger.InitDefault(serviceName)
	logger.Info("Starting Availo API", "version", serviceVersion)

	shutdown, err := telemetry.InitTracer(serviceName, serviceVersion)
	if err != nil {
		logger.Error("Failed to initialize tracer", "error", err)
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				logger.Error("Failed to shutdown tracer", "error", err)
			}
		}()
	}

	// Re-init so the OTLP log handler picks up the provider telemetry set.
	if err := logger.Init(serviceName, env.Bool("DEVELOPMENT")); err != nil {
		logger.Error("Failed to initialize logger", "error", err)
	}

	var app Config

	switch backend := env.Get("STORE_BACKEND", "memory"); backend {
	case "mongo":
		logger.Info("Connecting to MongoDB...")
		client, err := configs.ConnectMongo()
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", "error", err)
		}
		defer func() {
			if err := configs.CloseMongo(client); err != nil {
				logger.Error("Error closing MongoDB connection", "error", err)
			}
		}()
		app.Repo = store.NewMongoRepo(client, configs.GetMongoConfig().Database)
	case "memory":
		logger.Info("Using in-memory store")
		app.Repo = store.NewMemoryRepo()
	default:
		logger.Fatal("Unknown store backend", "backend", backend)
	}

	// Geo lookups are an enrichment; the service runs fine without Redis.
	if redisClient, err := configs.ConnectRedis(); err != nil {
		logger.Warn("Redis unavailable, nearby lookups disabled", "error", err)
	} else {
		defer redisClient.Close()
		app.Locations = location.NewService(redisClient)
		stopGeoSync := app.startGeoSync(context.Background())
		defer stopGeoSync()
	}

	// Same for event publishing.
	if conn, err := rabbitmq.ConnectSimple(env.RabbitMQURL()); err != nil {
		logger.Warn("RabbitMQ unavailable, event publishing disabled", "error", err)
	} else {
		defer func() {
			if err := conn.Close(); err != nil {
				logger.Error("Error closing RabbitMQ connection", "error", err)
			}
		}()
		app.RabbitConn = conn
	}

	app.Matcher = matcher.NewLive(app.Repo)
	if err := app.Matcher.Start(context.Background()); err != nil {
		logger.Fatal("Failed to start matcher", "error", err)
	}
	defer app.Matcher.Stop()

	app.Negotiations = negotiation.NewManager(app.Repo, negotiation.Config{
		UniquePairs: env.Bool("NEGOTIATION_UNIQUE_PAIRS"),
	})
	app.Seeder = seed.NewSeeder(app.Repo)

	webPort := env.Get("WEB_PORT", "80")
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", webPort),
		Handler: app.routes(),
	}

	go func() {
		logger.Info("Starting HTTP server", "port", webPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
