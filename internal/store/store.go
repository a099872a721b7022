// Package store owns the item and category collections and writes a full
// snapshot of a collection to its Backend after every change.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/idilsaglam/shelf/internal/model"
)

// Storage keys. A format change needs a new key and a one-off migration.
const (
	ItemsKey      = "collectibles_data_items_v1"
	CategoriesKey = "collectibles_data_cats_v1"
)

// ErrPersist wraps every failed snapshot write. The in-memory change is kept;
// the next successful write brings storage back in line.
var ErrPersist = errors.New("persist snapshot")

// Store is the single source of truth for items and categories.
type Store struct {
	mu         sync.RWMutex
	items      []model.Item
	categories []model.CategoryDef
	version    uint64

	backend Backend
	log     *zap.Logger
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load fallbacks.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now, used for the seed items' timestamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

func newStore(opts []Option) *Store {
	s := &Store{log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New returns an in-memory store seeded with the defaults and no backend.
func New(opts ...Option) *Store {
	s := newStore(opts)
	s.items = model.InitialItems(s.now())
	s.categories = model.DefaultCategories()
	return s
}

// Load reads both collections from b. A missing or unreadable key falls back to
// the default data for that collection; the bad value stays in storage until the
// next write replaces it.
func Load(ctx context.Context, b Backend, opts ...Option) *Store {
	s := newStore(opts)
	s.backend = b

	items, ok := loadCollection[model.Item](ctx, b, ItemsKey, s.log)
	if !ok {
		items = model.InitialItems(s.now())
	}
	cats, ok := loadCollection[model.CategoryDef](ctx, b, CategoriesKey, s.log)
	if !ok {
		cats = model.DefaultCategories()
	}
	s.items = items
	s.categories = cats
	return s
}

func loadCollection[T any](ctx context.Context, b Backend, key string, log *zap.Logger) ([]T, bool) {
	raw, found, err := b.Get(ctx, key)
	if err != nil {
		log.Warn("read snapshot failed, using defaults", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !found {
		log.Debug("no snapshot, using defaults", zap.String("key", key))
		return nil, false
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Warn("corrupt snapshot, using defaults", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if out == nil {
		log.Warn("null snapshot, using defaults", zap.String("key", key))
		return nil, false
	}
	return out, true
}

// Version increases by one on every mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Items returns a copy of all items in storage order.
func (s *Store) Items() []model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items, nil)
}

// Categories returns a copy of the categories in display order.
func (s *Store) Categories() []model.CategoryDef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.CategoryDef(nil), s.categories...)
}

// Item returns the first item with the given id.
func (s *Store) Item(id string) (model.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it.Clone(), true
		}
	}
	return model.Item{}, false
}

// Category returns the category with the given id.
func (s *Store) Category(id string) (model.CategoryDef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.CategoryDef{}, false
}

// CategoryByType resolves an item's category field. Orphaned types return false.
func (s *Store) CategoryByType(t string) (model.CategoryDef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.Type == t {
			return c, true
		}
	}
	return model.CategoryDef{}, false
}

// ItemsByCategory returns the items whose category is t, in storage order.
func (s *Store) ItemsByCategory(t string) []model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items, func(it model.Item) bool { return it.Category == t })
}

// Counts maps category type to item count. Empty categories are absent.
func (s *Store) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int)
	for _, it := range s.items {
		counts[it.Category]++
	}
	return counts
}

// AddItem puts item at the front. Ids and categories are not checked.
func (s *Store) AddItem(ctx context.Context, item model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]model.Item{item.Clone()}, s.items...)
	return s.itemsChanged(ctx)
}

// RemoveItem drops every item with the given id.
func (s *Store) RemoveItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]model.Item, 0, len(s.items))
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return s.itemsChanged(ctx)
}

// UpdateItem merges patch into every item with the given id.
func (s *Store) UpdateItem(ctx context.Context, id string, patch model.ItemPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == id {
			s.items[i] = patch.Apply(it)
		}
	}
	return s.itemsChanged(ctx)
}

// ToggleCompleted flips the completed flag of every item with the given id.
func (s *Store) ToggleCompleted(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Completed = !s.items[i].Completed
		}
	}
	return s.itemsChanged(ctx)
}

// AddCategory appends c to the display order.
func (s *Store) AddCategory(ctx context.Context, c model.CategoryDef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, c)
	return s.categoriesChanged(ctx)
}

// RemoveCategory drops the category. Its items stay, pointing at a type that no
// longer resolves.
func (s *Store) RemoveCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]model.CategoryDef, 0, len(s.categories))
	for _, c := range s.categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.categories = kept
	return s.categoriesChanged(ctx)
}

// UpdateCategory merges patch into the category with the given id.
func (s *Store) UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.categories {
		if c.ID == id {
			s.categories[i] = patch.Apply(c)
		}
	}
	return s.categoriesChanged(ctx)
}

// Save writes both collections. Mutators already write through; this is for
// checkpointing a store that was built in memory or whose last write failed.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.persist(ctx, ItemsKey, s.items); err != nil {
		return err
	}
	return s.persist(ctx, CategoriesKey, s.categories)
}

// Attach sets the backend later mutations write to. It does not write.
func (s *Store) Attach(b Backend) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backend = b
}

func (s *Store) itemsChanged(ctx context.Context) error {
	s.version++
	return s.persist(ctx, ItemsKey, s.items)
}

func (s *Store) categoriesChanged(ctx context.Context) error {
	s.version++
	return s.persist(ctx, CategoriesKey, s.categories)
}

// persist must be called with s.mu held.
func (s *Store) persist(ctx context.Context, key string, v any) error {
	if s.backend == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrPersist, key, err)
	}
	if err := s.backend.Put(ctx, key, b); err != nil {
		return fmt.Errorf("%w %s: %w", ErrPersist, key, err)
	}
	return nil
}

func cloneItems(in []model.Item, keep func(model.Item) bool) []model.Item {
	out := make([]model.Item, 0, len(in))
	for _, it := range in {
		if keep == nil || keep(it) {
			out = append(out, it.Clone())
		}
	}
	return out
}
