package api

import (
	"net/http"
	"shipment-savings-service/internal/api/handlers"
	"shipment-savings-service/internal/services"

	"github.com/go-chi/chi/v5"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
func NewRouter(pipeline *services.RowPipeline) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)

	savings := &handlers.SavingsHandler{Pipeline: pipeline}

	r.Get("/health", handlers.Health)
	r.Post("/savings", savings.Compute)

	return r
}
