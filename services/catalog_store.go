package services

import (
	"sync"

	"storefront/models"
	"storefront/utils"

	"github.com/shopspring/decimal"
)

// CatalogStore holds the selection, cart and name of one session. Every
// mutation is applied under the store lock and is visible to the next read.
type CatalogStore struct {
	mu       sync.Mutex
	currency string

	version   uint64
	selection *models.Item
	cart      []models.Item
	inCart    map[int]struct{}
	name      string

	subs map[string]*Subscription
}

func NewCatalogStore(currency string) *CatalogStore {
	if currency == "" {
		currency = utils.DefaultCurrency
	}
	return &CatalogStore{
		currency: currency,
		cart:     []models.Item{},
		inCart:   make(map[int]struct{}),
		subs:     make(map[string]*Subscription),
	}
}

// SelectItem replaces the selection. nil clears it.
func (s *CatalogStore) SelectItem(item *models.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection = copyItem(item)
	s.publishLocked()
}

// AddToCart appends item unless an item with the same ID is already in the
// cart. The first add of an ID wins; it reports whether the cart changed.
func (s *CatalogStore) AddToCart(item models.Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inCart[item.ID]; ok {
		cartAdds.WithLabelValues("duplicate").Inc()
		return false
	}
	s.inCart[item.ID] = struct{}{}
	s.cart = append(s.cart, item)
	cartAdds.WithLabelValues("added").Inc()

	s.publishLocked()
	return true
}

func (s *CatalogStore) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.name = name
	s.publishLocked()
}

func (s *CatalogStore) Selection() *models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItem(s.selection)
}

func (s *CatalogStore) Cart() []models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.cart)
}

func (s *CatalogStore) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *CatalogStore) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *CatalogStore) CartSummary() models.CartSummary {
	return Summarize(s.Cart(), s.currency)
}

// Summarize totals items rounded to whole cents, so the result does not
// depend on insertion order.
func Summarize(items []models.Item, currency string) models.CartSummary {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(utils.RoundCents(item.Price))
	}
	if items == nil {
		items = []models.Item{}
	}
	return models.CartSummary{
		Items:        items,
		Count:        len(items),
		TotalCents:   utils.ToCents(total),
		Total:        total,
		TotalDisplay: utils.FormatAmount(currency, total),
	}
}

// Subscribe registers a consumer and seeds it with the current snapshot. A
// second registration under the same name replaces the first.
func (s *CatalogStore) Subscribe(consumer string) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.subs[consumer]; ok {
		prev.close()
	}
	sub := &Subscription{
		store:    s,
		consumer: consumer,
		snapshot: s.snapshotLocked(),
		updates:  make(chan struct{}, 1),
	}
	s.subs[consumer] = sub
	return sub
}

func (s *CatalogStore) Consumers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.subs))
	for name := range s.subs {
		names = append(names, name)
	}
	return names
}

// Close drops every consumer registration.
func (s *CatalogStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, sub := range s.subs {
		sub.close()
		delete(s.subs, name)
	}
}

func (s *CatalogStore) unsubscribe(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.subs[sub.consumer]; ok && cur == sub {
		delete(s.subs, sub.consumer)
	}
	sub.close()
}

func (s *CatalogStore) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		Version:   s.version,
		Selection: copyItem(s.selection),
		Cart:      copyItems(s.cart),
		Name:      s.name,
	}
}

func (s *CatalogStore) publishLocked() {
	s.version++
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, sub := range s.subs {
		sub.set(snap)
	}
}

// Subscription is one consumer's view of a store. Updates carries at most one
// pending signal; Snapshot always returns the latest state.
type Subscription struct {
	store    *CatalogStore
	consumer string

	mu       sync.Mutex
	snapshot models.Snapshot
	updates  chan struct{}
	closed   bool
}

func (sub *Subscription) Consumer() string { return sub.consumer }

func (sub *Subscription) Snapshot() models.Snapshot {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.snapshot
}

// Updates is closed when the subscription ends.
func (sub *Subscription) Updates() <-chan struct{} {
	return sub.updates
}

func (sub *Subscription) Close() {
	sub.store.unsubscribe(sub)
}

func (sub *Subscription) set(snap models.Snapshot) {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.closed {
		return
	}
	sub.snapshot = snap
	select {
	case sub.updates <- struct{}{}:
	default:
	}
}

func (sub *Subscription) close() {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.updates)
}

func copyItem(item *models.Item) *models.Item {
	if item == nil {
		return nil
	}
	c := *item
	return &c
}

func copyItems(items []models.Item) []models.Item {
	out := make([]models.Item, len(items))
	copy(out, items)
	return out
}
