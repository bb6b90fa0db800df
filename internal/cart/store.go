// Package cart owns the visitor's line items. The store is the only writer;
// other components read through Items/Count/Total or subscribe to updates.
package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"storefront/internal/platform/broadcast"
	"storefront/internal/storage"
)

type Store struct {
	mu     sync.RWMutex
	kv     storage.Store
	items  []Item
	count  *broadcast.Broadcaster[int]
	total  *broadcast.Broadcaster[int64]
	logger *slog.Logger
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore loads the persisted cart and merges duplicate lines. A missing or
// unreadable cart starts empty.
func NewStore(ctx context.Context, kv storage.Store, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		count:  broadcast.New[int](),
		total:  broadcast.New[int64](),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	loaded := s.load(ctx)
	merged, changed := mergeLines(loaded)
	s.items = merged
	if changed {
		s.persist(ctx, merged)
	}
	s.publish(merged)
	return s
}

func (s *Store) load(ctx context.Context) []Item {
	raw := storage.GetOrEmpty(ctx, s.kv, storage.KeyCartItems)
	if raw == "" {
		return nil
	}
	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable persisted cart", "error", err)
		return nil
	}
	return items
}

// Add merges item into an existing line or appends it. Quantity defaults to 1.
// Items without a product id are ignored.
func (s *Store) Add(ctx context.Context, item Item) {
	item.ProductID = strings.TrimSpace(item.ProductID)
	if item.ProductID == "" {
		return
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(item.key()); idx >= 0 {
		s.items[idx].Quantity += item.Quantity
	} else {
		s.items = append(s.items, item.clone())
	}
	s.commit(ctx, s.items)
}

// Remove drops the line matching productID and variant. With a nil variant
// every line of the product is removed.
func (s *Store) Remove(ctx context.Context, productID string, variant *VariantKey) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	k := keyOf(productID, variant)
	kept := s.items[:0:0]
	for _, it := range s.items {
		if variant == nil && it.key().productID == productID {
			continue
		}
		if variant != nil && it.key() == k {
			continue
		}
		kept = append(kept, it)
	}
	s.items = kept
	s.commit(ctx, s.items)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.commit(ctx, s.items)
}

// Items returns a defensive copy of the lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

// Count is the sum of all quantities.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return countOf(s.items)
}

// Total is the sum of unit price times quantity.
func (s *Store) Total() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalOf(s.items)
}

// Snapshot returns items, count and total read under one lock.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Items: cloneItems(s.items), Count: countOf(s.items), Total: totalOf(s.items)}
}

// SubscribeCount streams the count, starting with the current value.
func (s *Store) SubscribeCount() (<-chan int, func()) {
	return s.count.Subscribe()
}

// SubscribeTotal streams the total, starting with the current value.
func (s *Store) SubscribeTotal() (<-chan int64, func()) {
	return s.total.Subscribe()
}

func (s *Store) indexOf(k lineKey) int {
	for i, it := range s.items {
		if it.key() == k {
			return i
		}
	}
	return -1
}

// commit persists and republishes; callers hold s.mu so updates are
// published in mutation order.
func (s *Store) commit(ctx context.Context, items []Item) {
	s.persist(ctx, items)
	s.publish(items)
}

func (s *Store) persist(ctx context.Context, items []Item) {
	if items == nil {
		items = []Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode cart", "error", err)
		return
	}
	if err := s.kv.Set(ctx, storage.KeyCartItems, string(raw)); err != nil {
		s.logger.WarnContext(ctx, "failed to persist cart", "error", err)
	}
}

func (s *Store) publish(items []Item) {
	s.count.Publish(countOf(items))
	s.total.Publish(totalOf(items))
}
