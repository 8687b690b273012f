package term

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"termbase/internal/database"
	"termbase/internal/models"
	"termbase/internal/store"
)

// SQLRepository is the PostgreSQL-backed Repository.
type SQLRepository struct {
	db       *sql.DB
	terms    *store.TermStore
	termTags *store.TermTagStore
}

// NewSQLRepository returns a Repository over db.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{
		db:       db,
		terms:    store.NewTermStore(db),
		termTags: store.NewTermTagStore(db),
	}
}

// InTx runs fn with a Writer bound to a fresh transaction.
func (r *SQLRepository) InTx(ctx context.Context, fn func(w Writer) error) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(&txWriter{
			terms:    store.NewTermStore(tx),
			tags:     store.NewTagStore(tx),
			termTags: store.NewTermTagStore(tx),
		})
	})
}

// FindTerm implements Repository.
func (r *SQLRepository) FindTerm(ctx context.Context, id uuid.UUID) (*models.Term, error) {
	return r.terms.FindByID(ctx, id)
}

// TagNames implements Repository.
func (r *SQLRepository) TagNames(ctx context.Context, termID uuid.UUID) ([]string, error) {
	return r.termTags.TagNames(ctx, termID)
}

// ListTerms implements Repository.
func (r *SQLRepository) ListTerms(ctx context.Context, categoryID string) ([]models.Term, error) {
	return r.terms.ListByCategory(ctx, categoryID)
}

type txWriter struct {
	terms    *store.TermStore
	tags     *store.TagStore
	termTags *store.TermTagStore
}

func (w *txWriter) CreateTerm(ctx context.Context, t *models.Term) (*models.Term, error) {
	return w.terms.Create(ctx, t)
}

func (w *txWriter) FindOrCreateTag(ctx context.Context, name string) (*models.Tag, error) {
	tag, _, err := w.tags.FindOrCreate(ctx, name)
	return tag, err
}

func (w *txWriter) LinkTag(ctx context.Context, termID, tagID uuid.UUID) error {
	_, err := w.termTags.Create(ctx, termID, tagID)
	return err
}
