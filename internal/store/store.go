package store

import (
	"fmt"
	"sync"

	"copytrade/internal/domain"
	"copytrade/internal/ports"
)

// Store is the single shared owner of the four entity collections, keyed by
// opaque ids. All access goes through View and Update so a whole task's reads
// and writes observe one consistent snapshot of every collection.
//
// The store is volatile; nothing is persisted across restarts.
type Store struct {
	logger ports.Logger

	mu           sync.RWMutex
	users        map[string]*domain.User
	trades       map[string]*domain.Trade
	relations    map[string]*domain.CopyRelation
	copiedTrades map[string]*domain.CopiedTrade
}

// Config holds configuration for the in-memory store.
type Config struct {
	Logger ports.Logger
}

// New creates an empty store.
func New(cfg Config) (*Store, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for store")
	}
	return &Store{
		logger:       cfg.Logger,
		users:        make(map[string]*domain.User),
		trades:       make(map[string]*domain.Trade),
		relations:    make(map[string]*domain.CopyRelation),
		copiedTrades: make(map[string]*domain.CopiedTrade),
	}, nil
}

// Tx provides read access to the collections for the duration of one View or
// Update call. It must not escape the callback.
type Tx struct {
	s *Store
}

// WriteTx extends Tx with mutation access.
type WriteTx struct {
	Tx
}

// View runs fn inside a shared critical section. Any number of Views may run
// concurrently.
func (s *Store) View(fn func(tx *Tx)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&Tx{s: s})
}

// Update runs fn inside an exclusive critical section. The callback sees a
// consistent snapshot of all collections and no other reader or writer runs
// until it returns.
func (s *Store) Update(fn func(tx *WriteTx)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&WriteTx{Tx{s: s}})
}

// All getters return copies so callers never alias store-owned state outside
// the critical section. A missing id yields nil, not an error.

// User retrieves a user by id.
func (tx *Tx) User(id string) *domain.User {
	u, ok := tx.s.users[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

// Trade retrieves a trade by id.
func (tx *Tx) Trade(id string) *domain.Trade {
	t, ok := tx.s.trades[id]
	if !ok {
		return nil
	}
	cp := *t
	return &cp
}

// CopyRelation retrieves a copy relation by id.
func (tx *Tx) CopyRelation(id string) *domain.CopyRelation {
	r, ok := tx.s.relations[id]
	if !ok {
		return nil
	}
	cp := *r
	return &cp
}

// CopiedTrade retrieves a copied trade by id.
func (tx *Tx) CopiedTrade(id string) *domain.CopiedTrade {
	c, ok := tx.s.copiedTrades[id]
	if !ok {
		return nil
	}
	cp := *c
	return &cp
}

// Users lists users matching the predicate; a nil predicate matches all.
func (tx *Tx) Users(match func(*domain.User) bool) []*domain.User {
	res := make([]*domain.User, 0, len(tx.s.users))
	for _, u := range tx.s.users {
		if match == nil || match(u) {
			cp := *u
			res = append(res, &cp)
		}
	}
	return res
}

// Trades lists trades matching the predicate; a nil predicate matches all.
func (tx *Tx) Trades(match func(*domain.Trade) bool) []*domain.Trade {
	res := make([]*domain.Trade, 0, len(tx.s.trades))
	for _, t := range tx.s.trades {
		if match == nil || match(t) {
			cp := *t
			res = append(res, &cp)
		}
	}
	return res
}

// CopyRelations lists copy relations matching the predicate; a nil predicate
// matches all.
func (tx *Tx) CopyRelations(match func(*domain.CopyRelation) bool) []*domain.CopyRelation {
	res := make([]*domain.CopyRelation, 0, len(tx.s.relations))
	for _, r := range tx.s.relations {
		if match == nil || match(r) {
			cp := *r
			res = append(res, &cp)
		}
	}
	return res
}

// CopiedTrades lists copied trades matching the predicate; a nil predicate
// matches all.
func (tx *Tx) CopiedTrades(match func(*domain.CopiedTrade) bool) []*domain.CopiedTrade {
	res := make([]*domain.CopiedTrade, 0, len(tx.s.copiedTrades))
	for _, c := range tx.s.copiedTrades {
		if match == nil || match(c) {
			cp := *c
			res = append(res, &cp)
		}
	}
	return res
}

// PutUser inserts or replaces a user.
func (tx *WriteTx) PutUser(u *domain.User) {
	cp := *u
	tx.s.users[u.ID] = &cp
}

// PutTrade inserts or replaces a trade.
func (tx *WriteTx) PutTrade(t *domain.Trade) {
	cp := *t
	tx.s.trades[t.ID] = &cp
}

// PutCopyRelation inserts or replaces a copy relation.
func (tx *WriteTx) PutCopyRelation(r *domain.CopyRelation) {
	cp := *r
	tx.s.relations[r.ID] = &cp
}

// PutCopiedTrade inserts or replaces a copied trade.
func (tx *WriteTx) PutCopiedTrade(c *domain.CopiedTrade) {
	cp := *c
	tx.s.copiedTrades[c.ID] = &cp
}
