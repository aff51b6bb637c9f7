package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	commonMiddleware "github.com/rafaelmaranon/Availo/common/middleware"
)

func (app *Config) routes() http.Handler {
	mux := chi.NewRouter()

	// Request ID must be first to inject into all logs
	mux.Use(commonMiddleware.RequestID)
	mux.Use(commonMiddleware.Logger)
	mux.Use(commonMiddleware.Recovery)
	mux.Use(commonMiddleware.PrometheusMetrics(serviceName))

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	mux.Use(middleware.Heartbeat("/ping"))

	mux.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, serviceName+".http",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})

	mux.Get("/health/live", app.Liveness)
	mux.Get("/health/ready", app.Readiness)

	mux.Handle("/metrics", promhttp.Handler())

	mux.Post("/seeking", app.CreateSeeking)
	mux.Get("/seeking", app.GetSeekingDrivers)
	mux.Post("/offering", app.CreateOffering)
	mux.Get("/offering", app.GetOfferingDrivers)
	mux.Get("/offering/nearby", app.NearbyOfferings)

	mux.Get("/matches", app.GetMatches)

	mux.Post("/negotiation", app.StartNegotiation)
	mux.Post("/negotiation/message", app.AddNegotiationMessage)
	mux.Get("/negotiation/driver/{driver_id}/{role}", app.GetNegotiationsForDriver)
	mux.Put("/negotiation/status", app.UpdateNegotiationStatus)

	mux.Post("/demo/seed", app.SeedDemoData)

	return mux
}
