package app

import (
	"context"

	"copytrade/internal/domain"
	"copytrade/internal/store"
)

// Traders lists all accounts flagged as traders.
func (s *TradingService) Traders(ctx context.Context) []*domain.User {
	var res []*domain.User
	s.store.View(func(tx *store.Tx) {
		res = tx.Users(func(u *domain.User) bool { return u.IsTrader })
	})
	return res
}

// User fetches a single user by id. Returns nil when not found.
func (s *TradingService) User(ctx context.Context, id string) *domain.User {
	var res *domain.User
	s.store.View(func(tx *store.Tx) {
		res = tx.User(id)
	})
	return res
}

// Users lists all accounts.
func (s *TradingService) Users(ctx context.Context) []*domain.User {
	var res []*domain.User
	s.store.View(func(tx *store.Tx) {
		res = tx.Users(nil)
	})
	return res
}

// Trades lists trades, optionally filtered by trader. An empty traderID
// matches all trades.
func (s *TradingService) Trades(ctx context.Context, traderID string) []*domain.Trade {
	var res []*domain.Trade
	s.store.View(func(tx *store.Tx) {
		if traderID == "" {
			res = tx.Trades(nil)
			return
		}
		res = tx.Trades(func(t *domain.Trade) bool { return t.TraderID == traderID })
	})
	return res
}

// OpenTrades lists all trades still open.
func (s *TradingService) OpenTrades(ctx context.Context) []*domain.Trade {
	var res []*domain.Trade
	s.store.View(func(tx *store.Tx) {
		res = tx.Trades(func(t *domain.Trade) bool { return t.IsOpen() })
	})
	return res
}

// MyCopyRelations lists a follower's active copy relations.
func (s *TradingService) MyCopyRelations(ctx context.Context, followerID string) []*domain.CopyRelation {
	var res []*domain.CopyRelation
	s.store.View(func(tx *store.Tx) {
		res = tx.CopyRelations(func(r *domain.CopyRelation) bool {
			return r.FollowerID == followerID && r.Active
		})
	})
	return res
}

// MyCopiedTrades lists all copied trades generated for a follower.
func (s *TradingService) MyCopiedTrades(ctx context.Context, followerID string) []*domain.CopiedTrade {
	var res []*domain.CopiedTrade
	s.store.View(func(tx *store.Tx) {
		res = tx.CopiedTrades(func(c *domain.CopiedTrade) bool {
			return c.FollowerID == followerID
		})
	})
	return res
}
