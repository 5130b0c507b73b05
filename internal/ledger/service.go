// Package ledger implements the expense tracking workflows on top of an
// injected storage repository.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/csvio"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
)

// Ledger errors.
var (
	ErrEmptyCategoryName = errors.New("category name cannot be empty")
	ErrCategoryExists    = errors.New("a category with this name already exists")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrProtectedCategory = common.ErrProtectedCategory
)

// Service runs ledger workflows against a storage repository.
type Service struct {
	store service.Storage
	loc   *time.Location
	now   func() time.Time
	rng   *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithLocation sets the time zone used for calendar arithmetic.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRand sets the random source used for demo data.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// NewService creates a ledger service.
func NewService(store service.Storage, opts ...Option) *Service {
	s := &Service{
		store: store,
		loc:   time.Local,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(uint64(s.now().UnixNano()), 0x7461_6c6c_79))
	}
	return s
}

// Now returns the current time in the service's location.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// Location returns the service's time zone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Init seeds the default categories into an empty ledger and makes sure the
// Uncategorized category exists.
func (s *Service) Init(ctx context.Context) error {
	categories, err := s.store.GetCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	if len(categories) == 0 {
		for _, cat := range model.DefaultCategories() {
			if err := s.store.CreateCategory(ctx, &cat); err != nil {
				return fmt.Errorf("failed to seed category %q: %w", cat.Name, err)
			}
			categories = append(categories, cat)
		}
		slog.Info("Seeded default categories", "count", len(categories))
	}

	for _, cat := range categories {
		if cat.IsUncategorized() {
			return nil
		}
	}

	if _, err := ensureUncategorized(ctx, s.store); err != nil {
		return err
	}
	return nil
}

// ensureUncategorized returns the sentinel category, creating it if needed.
func ensureUncategorized(ctx context.Context, store service.Storage) (*model.Category, error) {
	existing, err := store.GetCategoryByName(ctx, model.UncategorizedName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", model.UncategorizedName, err)
	}
	if existing != nil {
		return existing, nil
	}

	cat := model.Uncategorized()
	if err := store.CreateCategory(ctx, &cat); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", model.UncategorizedName, err)
	}
	return &cat, nil
}

// Importer returns a CSV importer writing into the ledger's repository.
func (s *Service) Importer() *csvio.Importer {
	return csvio.NewImporter(s.store, s.loc)
}
