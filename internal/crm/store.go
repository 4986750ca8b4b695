// Package crm holds the sales desk's in-memory relational store: sales reps,
// clients, products, orders and pending-order notes, the mutations that keep
// references between them consistent, CSV import, and read-only views.
//
// Every committed mutation is followed by a full snapshot write to the
// persistence channel. Readers always see either the state before a
// mutation or the state after it.
package crm

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/starford/salesdesk/internal/models"
	"github.com/starford/salesdesk/internal/storage"
)

// DefaultSnapshotKey is the persistence key the store reads and writes.
const DefaultSnapshotKey = "sales-dashboard-spa-data"

// errNoChange aborts a replace without committing or writing a snapshot.
var errNoChange = errors.New("crm: no change")

// Store is the single source of truth for CRM data. It is safe for
// concurrent use; mutations are serialized.
type Store struct {
	mu   sync.RWMutex
	data models.Dataset

	provider storage.Provider
	key      string
	logger   *slog.Logger
	now      func() time.Time
	loc      *time.Location

	lastImport time.Time // guarded by mu

	onChange   []func(Change)
	onSnapshot []func(size int, err error)
}

// Option configures a Store.
type Option func(*Store)

// WithSnapshotKey overrides DefaultSnapshotKey.
func WithSnapshotKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock sets the time source used for ids and the "today" view.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the location whose calendar date defines "today".
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// WithChangeHook registers fn to run after every committed mutation.
func WithChangeHook(fn func(Change)) Option {
	return func(s *Store) { s.onChange = append(s.onChange, fn) }
}

// WithSnapshotHook registers fn to run after every snapshot write attempt.
// fn runs with the store locked and must not call back into it.
func WithSnapshotHook(fn func(size int, err error)) Option {
	return func(s *Store) { s.onSnapshot = append(s.onSnapshot, fn) }
}

// Open initializes a store from the snapshot under the configured key. When
// no snapshot exists the seed dataset is loaded and written back. When the
// snapshot cannot be read or decoded the store falls back to the seed
// dataset in memory and leaves the stored blob alone until the next
// mutation.
func Open(ctx context.Context, provider storage.Provider, opts ...Option) (*Store, error) {
	s := &Store{
		provider: provider,
		key:      DefaultSnapshotKey,
		logger:   slog.Default(),
		now:      time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, err := provider.Get(ctx, s.key)
	switch {
	case errors.Is(err, storage.ErrNotExist):
		s.logger.Info("crm: no snapshot, loading seed data", slog.String("key", s.key))
		s.data = models.SeedDataset()
		s.mu.Lock()
		s.persistLocked(ctx)
		s.mu.Unlock()
	case err != nil:
		s.logger.Warn("crm: snapshot read failed, loading seed data",
			slog.String("key", s.key), slog.String("error", err.Error()))
		s.data = models.SeedDataset()
	default:
		d, decErr := models.DecodeDataset(raw)
		if decErr != nil {
			s.logger.Warn("crm: snapshot corrupt, loading seed data",
				slog.String("key", s.key), slog.String("error", decErr.Error()))
			d = models.SeedDataset()
		}
		s.data = d
	}

	s.logger.Info("crm: store ready",
		slog.Int("reps", len(s.data.SalesReps)),
		slog.Int("clients", len(s.data.Clients)),
		slog.Int("products", len(s.data.Products)),
		slog.Int("orders", len(s.data.Orders)))
	return s, nil
}

// Reps returns all sales reps in insertion order.
func (s *Store) Reps() []models.SalesRep {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.SalesReps)
}

// Clients returns all clients in insertion order.
func (s *Store) Clients() []models.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.Clients)
}

// Products returns all products in insertion order.
func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.Products)
}

// Orders returns all orders in insertion order.
func (s *Store) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.Orders)
}

// PendingNotes returns the pending-order notes.
func (s *Store) PendingNotes() []models.PendingOrderNote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.PendingOrders)
}

// Rep looks up a sales rep by id.
func (s *Store) Rep(id string) (models.SalesRep, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.data.SalesReps, func(r models.SalesRep) bool { return r.ID == id })
	if i < 0 {
		return models.SalesRep{}, false
	}
	return s.data.SalesReps[i], true
}

// Client looks up a client by id.
func (s *Store) Client(id string) (models.Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findClient(s.data.Clients, id)
}

// Product looks up a product by id.
func (s *Store) Product(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findProduct(s.data.Products, id)
}

// Order looks up an order by id.
func (s *Store) Order(id string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.data.Orders, func(o models.Order) bool { return o.ID == id })
	if i < 0 {
		return models.Order{}, false
	}
	return s.data.Orders[i], true
}

// ClientName resolves a client id to its name, or models.UnknownClientName.
func (s *Store) ClientName(id string) string {
	if c, ok := s.Client(id); ok {
		return c.Name
	}
	return models.UnknownClientName
}

// ProductDetails resolves a product id, or returns models.UnknownProduct.
func (s *Store) ProductDetails(id string) models.Product {
	if p, ok := s.Product(id); ok {
		return p
	}
	return models.UnknownProduct
}

// Dataset returns a copy of the whole store.
func (s *Store) Dataset() models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Dataset{
		SalesReps:     slices.Clone(s.data.SalesReps),
		Clients:       slices.Clone(s.data.Clients),
		Products:      slices.Clone(s.data.Products),
		Orders:        slices.Clone(s.data.Orders),
		PendingOrders: slices.Clone(s.data.PendingOrders),
	}
}

// Snapshot returns the encoded form of the current state, exactly as it is
// written to the persistence channel.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.EncodeDataset(s.data)
}

// replace runs mutate against a shallow copy of the dataset and, on success,
// publishes the copy and writes the snapshot. mutate must assign fresh
// slices for any collection it changes. Returning errNoChange (or any other
// error) leaves the store untouched.
func (s *Store) replace(ctx context.Context, mutate func(next *models.Dataset) (Change, error)) (Change, error) {
	s.mu.Lock()
	next := s.data
	change, err := mutate(&next)
	if err != nil {
		s.mu.Unlock()
		return Change{}, err
	}
	s.data = next
	size, perr := s.persistLocked(ctx)
	s.mu.Unlock()

	for _, fn := range s.onChange {
		fn(change)
	}
	s.logger.Debug("crm: committed",
		slog.String("change", string(change.Kind)),
		slog.Int("snapshot_bytes", size),
		slog.Bool("persisted", perr == nil))
	return change, nil
}

// persistLocked writes the full dataset under the snapshot key. Failures are
// logged and reported to snapshot hooks; they never undo the mutation.
func (s *Store) persistLocked(ctx context.Context) (int, error) {
	raw, err := models.EncodeDataset(s.data)
	if err == nil {
		err = s.provider.Put(ctx, s.key, raw)
	}
	if err != nil {
		s.logger.Warn("crm: snapshot write failed", slog.String("key", s.key), slog.String("error", err.Error()))
	}
	for _, fn := range s.onSnapshot {
		fn(len(raw), err)
	}
	return len(raw), err
}

func findClient(clients []models.Client, id string) (models.Client, bool) {
	i := slices.IndexFunc(clients, func(c models.Client) bool { return c.ID == id })
	if i < 0 {
		return models.Client{}, false
	}
	return clients[i], true
}

func findProduct(products []models.Product, id string) (models.Product, bool) {
	i := slices.IndexFunc(products, func(p models.Product) bool { return p.ID == id })
	if i < 0 {
		return models.Product{}, false
	}
	return products[i], true
}
