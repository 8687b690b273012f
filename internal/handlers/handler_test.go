// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides in-memory collaborators for the term API
// handler tests, so they run without PostgreSQL or Valkey.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"termbase/internal/models"
	"termbase/internal/store"
	"termbase/internal/term"
)

// memCategories implements term.Categories and CategoryTree.
type memCategories struct {
	cats    []models.Category
	treeErr error
}

func (m *memCategories) FindByID(_ context.Context, id string) (*models.Category, error) {
	for _, c := range m.cats {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCategories) Tree(_ context.Context) ([]models.Category, error) {
	if m.treeErr != nil {
		return nil, m.treeErr
	}
	return store.BuildTree(m.cats), nil
}

// memRepo implements term.Repository and term.Writer. Writes are not
// staged; handler tests only need the happy path and injected failures.
type memRepo struct {
	mu       sync.Mutex
	terms    map[uuid.UUID]models.Term
	tags     map[string]models.Tag
	links    []models.TermTag
	writeErr error
}

func newMemRepo() *memRepo {
	return &memRepo{terms: map[uuid.UUID]models.Term{}, tags: map[string]models.Tag{}}
}

func (m *memRepo) InTx(_ context.Context, fn func(w term.Writer) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m)
}

func (m *memRepo) CreateTerm(_ context.Context, t *models.Term) (*models.Term, error) {
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	created := *t
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	m.terms[created.ID] = created
	return &created, nil
}

func (m *memRepo) FindOrCreateTag(_ context.Context, name string) (*models.Tag, error) {
	if tag, ok := m.tags[name]; ok {
		return &tag, nil
	}
	tag := models.Tag{ID: uuid.New(), Name: name}
	m.tags[name] = tag
	return &tag, nil
}

func (m *memRepo) LinkTag(_ context.Context, termID, tagID uuid.UUID) error {
	m.links = append(m.links, models.TermTag{ID: uuid.New(), TermID: termID, TagID: tagID})
	return nil
}

func (m *memRepo) FindTerm(_ context.Context, id uuid.UUID) (*models.Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.terms[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *memRepo) TagNames(_ context.Context, termID uuid.UUID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := []string{}
	for _, l := range m.links {
		if l.TermID != termID {
			continue
		}
		for _, tag := range m.tags {
			if tag.ID == l.TagID {
				names = append(names, tag.Name)
			}
		}
	}
	return names, nil
}

func (m *memRepo) ListTerms(_ context.Context, categoryID string) ([]models.Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Term
	for _, t := range m.terms {
		if t.CategoryID == categoryID {
			out = append(out, t)
		}
	}
	return out, nil
}

var errDatabaseDown = errors.New("database down")

// testEnv holds the handler under test and its fakes.
type testEnv struct {
	Categories *memCategories
	Repo       *memRepo
	Terms      *Terms
	Router     chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	grp := "GRP001"
	cats := &memCategories{cats: []models.Category{
		{ID: "GRP001", Type: "TECH", Group: "Development", Name: "Development", Depth: 1},
		{ID: "CAT001", Type: "TECH", Group: "Development", Name: "Backend", ParentID: &grp, Depth: 2},
	}}
	repo := newMemRepo()
	h := NewTerms(term.NewService(cats, repo), cats)

	r := chi.NewRouter()
	r.Post("/api/terms", h.Register)
	r.Get("/api/terms/{id}", h.Get)
	r.Get("/api/categories", h.Categories)
	r.Get("/api/categories/{id}/terms", h.CategoryTerms)

	return &testEnv{Categories: cats, Repo: repo, Terms: h, Router: r}
}

// do sends a request through the router and returns the recorder.
func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	e.Router.ServeHTTP(rr, req)
	return rr
}
