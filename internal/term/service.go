// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package term implements glossary term registration: it validates the
// target category, persists the term, and find-or-creates and links the
// term's hashtag-style tags in one transaction.
package term

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"termbase/internal/models"
	"termbase/internal/slug"
)

var (
	// ErrNotFound is returned when a referenced category or term does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned when a request breaks a business rule,
	// such as targeting a category that is not a leaf sub-category.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Categories resolves categories by id. Implementations return nil, nil
// for an unknown id.
type Categories interface {
	FindByID(ctx context.Context, id string) (*models.Category, error)
}

// Writer performs the writes of a single registration.
type Writer interface {
	CreateTerm(ctx context.Context, t *models.Term) (*models.Term, error)
	FindOrCreateTag(ctx context.Context, name string) (*models.Tag, error)
	LinkTag(ctx context.Context, termID, tagID uuid.UUID) error
}

// Repository is the term persistence boundary. InTx runs fn against a
// Writer whose writes commit together or not at all. The read methods
// return nil (or an empty slice) for unknown ids.
type Repository interface {
	InTx(ctx context.Context, fn func(w Writer) error) error
	FindTerm(ctx context.Context, id uuid.UUID) (*models.Term, error)
	TagNames(ctx context.Context, termID uuid.UUID) ([]string, error)
	ListTerms(ctx context.Context, categoryID string) ([]models.Term, error)
}

// RegisterRequest carries the input of a term registration. Tags is the
// raw '#'-delimited tag string, e.g. "#java#backend".
type RegisterRequest struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Definition string `json:"definition"`
	Example    string `json:"example"`
	Tags       string `json:"tags"`
}

// RegisterResponse is a persisted term together with its tag names and category.
type RegisterResponse struct {
	Term     *models.Term     `json:"term"`
	Tags     []string         `json:"tags"`
	Category *models.Category `json:"category"`
}

// Service registers and reads glossary terms.
type Service struct {
	categories Categories
	repo       Repository
}

// NewService creates a Service.
func NewService(categories Categories, repo Repository) *Service {
	return &Service{categories: categories, repo: repo}
}

// Register creates a term under a leaf category and links its tags.
// It returns ErrNotFound when the category does not exist and
// ErrInvalidArgument when the category is not at depth 2. The term, any
// new tags and all links are written in one transaction.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	category, err := s.leafCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	names := ParseTags(req.Tags)

	var (
		created *models.Term
		tags    = make([]string, 0, len(names))
	)
	err = s.repo.InTx(ctx, func(w Writer) error {
		var err error
		created, err = w.CreateTerm(ctx, &models.Term{
			CategoryID: category.ID,
			Name:       req.Name,
			Slug:       slug.Generate(req.Name),
			Definition: req.Definition,
			Example:    req.Example,
		})
		if err != nil {
			return err
		}

		for _, name := range names {
			tag, err := w.FindOrCreateTag(ctx, name)
			if err != nil {
				return err
			}
			if err := w.LinkTag(ctx, created.ID, tag.ID); err != nil {
				return err
			}
			tags = append(tags, tag.Name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("register term: %w", err)
	}

	slog.Info("term registered",
		"term_id", created.ID,
		"category_id", category.ID,
		"tags", len(tags),
	)

	return &RegisterResponse{Term: created, Tags: tags, Category: category}, nil
}

// Get returns a registered term with its tag names and category.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*RegisterResponse, error) {
	t, err := s.repo.FindTerm(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: term %s", ErrNotFound, id)
	}

	tags, err := s.repo.TagNames(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}

	category, err := s.categories.FindByID(ctx, t.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("%w: category %q", ErrNotFound, t.CategoryID)
	}

	return &RegisterResponse{Term: t, Tags: tags, Category: category}, nil
}

// ListByCategory returns the terms registered under a category.
func (s *Service) ListByCategory(ctx context.Context, categoryID string) ([]models.Term, error) {
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("%w: category %q", ErrNotFound, categoryID)
	}

	terms, err := s.repo.ListTerms(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	if terms == nil {
		terms = []models.Term{}
	}
	return terms, nil
}

// leafCategory resolves id and checks that terms may attach to it.
func (s *Service) leafCategory(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("%w: category %q", ErrNotFound, id)
	}
	if !category.AcceptsTerms() {
		return nil, fmt.Errorf("%w: category %q has depth %d, terms require depth %d",
			ErrInvalidArgument, id, category.Depth, models.LeafDepth)
	}
	return category, nil
}
