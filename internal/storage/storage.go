package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/drstein77/inventory/internal/catalog"
	"github.com/drstein77/inventory/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrNoKeeper = errors.New("no database configured")
)

// Log is the subset of the logger storage writes to.
type Log interface {
	Info(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// MemoryStorage guards a catalog for concurrent readers and writers and
// mirrors every change into the keeper when one is configured.
type MemoryStorage struct {
	mx sync.RWMutex

	catalog *catalog.Catalog[float64]
	keeper  Keeper
	log     Log
}

// Keeper interface for database operations
type Keeper interface {
	GetAllItems(context.Context) ([]models.Item, error)
	ReplaceItems(context.Context, []models.Item) error
	Ping(context.Context) bool
	Close() bool
}

// NewMemoryStorage prefers the keeper's contents over seed. An empty keeper is
// filled with seed instead.
func NewMemoryStorage(ctx context.Context, seed *catalog.Catalog[float64], keeper Keeper, log Log) (*MemoryStorage, error) {
	s := &MemoryStorage{
		catalog: seed,
		keeper:  keeper,
		log:     log,
	}
	if keeper == nil {
		return s, nil
	}

	stored, err := keeper.GetAllItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	if len(stored) > 0 {
		s.catalog = catalog.New(stored...)
		log.Info("Catalog loaded from database", zap.Int("count", len(stored)))
		return s, nil
	}

	if err := keeper.ReplaceItems(ctx, seed.Items()); err != nil {
		return nil, fmt.Errorf("seed database: %w", err)
	}
	log.Info("Database seeded", zap.Int("count", seed.Len()))
	return s, nil
}

// Items returns a copy of every item in catalog order.
func (s *MemoryStorage) Items() []models.Item {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.catalog.Items()
}

// Item returns the item at position i.
func (s *MemoryStorage) Item(i int) (models.Item, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	if i < 0 || i >= s.catalog.Len() {
		return models.Item{}, fmt.Errorf("item %d: %w", i, ErrNotFound)
	}
	return s.catalog.At(i), nil
}

// Lines renders the display lines under the read lock.
func (s *MemoryStorage) Lines() []string {
	s.mx.RLock()
	defer s.mx.RUnlock()
	var lines []string
	for line := range s.catalog.Lines() {
		lines = append(lines, line)
	}
	return lines
}

// Filter returns copies of items priced above minPrice, optionally limited to
// one category.
func (s *MemoryStorage) Filter(minPrice float64, category *catalog.Category) []models.Item {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.catalog.Filter(func(item models.Item) bool {
		if category != nil && item.Category != *category {
			return false
		}
		return item.Price > minPrice
	}).Items()
}

// Counts tallies items per category, including empty ones.
func (s *MemoryStorage) Counts() catalog.Counts {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.catalog.CountByCategory()
}

// Scaled returns copies of the items with every price multiplied by factor.
// The stored catalog is not changed.
func (s *MemoryStorage) Scaled(factor float64) []models.Item {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.catalog.ScalePrices(factor).Items()
}

// Summary reports the item count, the number of non-empty categories and the
// price total.
func (s *MemoryStorage) Summary() models.ProcessResponse {
	s.mx.RLock()
	defer s.mx.RUnlock()
	categories := 0
	for _, n := range s.catalog.CountByCategory() {
		if n > 0 {
			categories++
		}
	}
	return models.ProcessResponse{
		TotalItems:      s.catalog.Len(),
		TotalCategories: categories,
		TotalPrice:      s.catalog.Total(),
	}
}

// ApplyDiscount discounts a category and persists the result. The in-memory
// catalog is rolled back if the keeper rejects the change.
func (s *MemoryStorage) ApplyDiscount(ctx context.Context, category catalog.Category, percentage float64) (int, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	before := s.catalog.Items()
	n, err := catalog.ApplyDiscount(s.catalog, category, percentage)
	if err != nil {
		return 0, err
	}
	if err := s.persist(ctx); err != nil {
		s.catalog = catalog.New(before...)
		return 0, err
	}
	s.log.Info("Discount applied",
		zap.Stringer("category", category),
		zap.Float64("percentage", percentage),
		zap.Int("items", n))
	return n, nil
}

// Add validates and appends items, all or nothing. The batch is staged on a
// copy and only swapped in once the keeper accepts it.
func (s *MemoryStorage) Add(ctx context.Context, items ...models.Item) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	next := catalog.New(s.catalog.Items()...)
	for i, item := range items {
		if err := next.Add(item); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	if total := next.Total(); math.IsInf(total, 0) {
		return fmt.Errorf("%w: catalog total overflows", catalog.ErrInvalidPrice)
	}

	prev := s.catalog
	s.catalog = next
	if err := s.persist(ctx); err != nil {
		s.catalog = prev
		return err
	}
	s.log.Info("Items added", zap.Int("count", len(items)), zap.Int("total", s.catalog.Len()))
	return nil
}

// Ping reports keeper health.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	if s.keeper == nil {
		return ErrNoKeeper
	}
	if !s.keeper.Ping(ctx) {
		return errors.New("database ping failed")
	}
	return nil
}

// Close releases the keeper, if any.
func (s *MemoryStorage) Close() {
	if s.keeper != nil {
		s.keeper.Close()
	}
}

// persist must be called with the write lock held.
func (s *MemoryStorage) persist(ctx context.Context) error {
	if s.keeper == nil {
		return nil
	}
	if err := s.keeper.ReplaceItems(ctx, s.catalog.Items()); err != nil {
		s.log.Error("Failed to persist catalog", zap.Error(err))
		return fmt.Errorf("persist catalog: %w", err)
	}
	return nil
}
