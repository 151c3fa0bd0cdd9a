package main

import (
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/mmynk/splitbill/internal/config"
	"github.com/mmynk/splitbill/internal/metrics"
	"github.com/mmynk/splitbill/internal/middleware"
	"github.com/mmynk/splitbill/internal/service"
	"github.com/mmynk/splitbill/internal/storage"
	"github.com/mmynk/splitbill/pkg/api"
)

// newRouter mounts the Connect services plus health and metrics endpoints.
func newRouter(cfg *config.Config, store storage.Store, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", m.Handler())

	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(m),
	)

	billPath, billHandler := api.NewBillServiceHandler(service.NewBillService(store, m, cfg.MeID), interceptors)
	r.Mount(billPath, billHandler)

	friendPath, friendHandler := api.NewFriendServiceHandler(service.NewFriendService(store), interceptors)
	r.Mount(friendPath, friendHandler)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
	})
	return c.Handler(r)
}
