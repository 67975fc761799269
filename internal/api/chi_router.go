// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/wheretoeat/internal/middleware"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil middleware config uses the defaults.
func NewRouter(handler *Handler, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: chiMW}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, req, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	// Health endpoints skip the rate limiter so probes are never throttled.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Route("/picks", func(r chi.Router) {
			r.Post("/", router.handler.CreatePick)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", router.handler.GetPick)
				r.Post("/veto", router.handler.VetoPick)
				r.Post("/spin", router.handler.SpinPick)
				r.Post("/choose", router.handler.ChoosePick)
				r.Post("/save", router.handler.SavePickCandidate)
			})
		})

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", router.handler.ListRestaurants)
			r.Post("/", router.handler.CreateRestaurant)
			r.Get("/{id}", router.handler.GetRestaurant)
			r.Put("/{id}", router.handler.UpdateRestaurant)
			r.Delete("/{id}", router.handler.DeleteRestaurant)
		})

		r.Get("/visits", router.handler.ListVisits)
		r.Put("/visits/{id}/rating", router.handler.RateVisit)

		r.Get("/nearby", router.handler.Nearby)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
