// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the termbase JSON API.
// Handlers decode requests, call the term service and map its errors to
// HTTP status codes.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"termbase/internal/models"
	"termbase/internal/term"
)

// CategoryTree lists the category taxonomy as a tree.
type CategoryTree interface {
	Tree(ctx context.Context) ([]models.Category, error)
}

// Terms groups the term and category API handlers.
type Terms struct {
	service    *term.Service
	categories CategoryTree
}

// NewTerms creates the term API handler group.
func NewTerms(service *term.Service, categories CategoryTree) *Terms {
	return &Terms{service: service, categories: categories}
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// Register handles POST /api/terms.
func (h *Terms) Register(w http.ResponseWriter, r *http.Request) {
	var req term.RegisterRequest
	if msg := decodeJSON(w, r, &req); msg != "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
		return
	}
	if msg := validateRegister(req); msg != "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, "register term", err)
		return
	}

	w.Header().Set("Location", "/api/terms/"+resp.Term.ID.String())
	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /api/terms/{id}.
func (h *Terms) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "term not found"})
		return
	}

	resp, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get term", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Categories handles GET /api/categories.
func (h *Terms) Categories(w http.ResponseWriter, r *http.Request) {
	tree, err := h.categories.Tree(r.Context())
	if err != nil {
		writeServiceError(w, r, "list categories", err)
		return
	}
	if tree == nil {
		tree = []models.Category{}
	}
	writeJSON(w, http.StatusOK, tree)
}

// CategoryTerms handles GET /api/categories/{id}/terms.
func (h *Terms) CategoryTerms(w http.ResponseWriter, r *http.Request) {
	terms, err := h.service.ListByCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "list category terms", err)
		return
	}
	writeJSON(w, http.StatusOK, terms)
}

// decodeJSON reads a size-limited JSON body into dst. It returns a
// client-facing message when the body is unusable.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) string {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return "request body is too large."
		case errors.Is(err, io.EOF):
			return "request body is empty."
		default:
			return "request body is not valid JSON: " + err.Error()
		}
	}
	if dec.More() {
		return "request body must contain a single JSON object."
	}
	return ""
}

// writeServiceError maps term service errors onto HTTP statuses.
// Unexpected errors are logged and hidden from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, term.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, term.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		slog.Error("request failed", "op", op, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("write json response", "error", err)
	}
}
