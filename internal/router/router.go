// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains for the
// termbase API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"termbase/internal/handlers"
	"termbase/internal/middleware"
)

// New creates the Chi router. A nil limiter disables rate limiting of
// term registration.
func New(terms *handlers.Terms, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.SecureHeaders)

		r.Route("/terms", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if limiter != nil {
					r.Use(limiter.Middleware)
				}
				r.Post("/", terms.Register)
			})
			r.Get("/{id}", terms.Get)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", terms.Categories)
			r.Get("/{id}/terms", terms.CategoryTerms)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
