package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"copytrade/config"
	"copytrade/internal/domain"
	"copytrade/internal/ports"
	"copytrade/internal/store"
	"copytrade/internal/workflow"
)

// startingBalance is the paper balance every new account begins with.
const startingBalance = 10000.0

// TradingService orchestrates the copy-trading operations: workflow-driven
// mutations, direct mutations and read queries, all against the shared
// domain store.
type TradingService struct {
	cfg    *config.Config
	logger ports.Logger
	store  *store.Store

	// Compiled once at construction and shared read-only across calls.
	createTrade *workflow.Process[tradeContext]
	copyTrader  *workflow.Process[copyContext]
}

// NewTradingService creates a new application service instance, compiling
// both workflow definitions. A build failure is fatal to startup.
func NewTradingService(cfg *config.Config, logger ports.Logger, st *store.Store) (*TradingService, error) {
	if cfg == nil || logger == nil || st == nil {
		return nil, fmt.Errorf("missing required dependencies for TradingService")
	}

	s := &TradingService{cfg: cfg, logger: logger, store: st}
	var err error
	if s.createTrade, err = workflow.Build(createTradeDefinition(), logger); err != nil {
		return nil, fmt.Errorf("failed to compile create-trade workflow: %w", err)
	}
	if s.copyTrader, err = workflow.Build(copyTraderDefinition(), logger); err != nil {
		return nil, fmt.Errorf("failed to compile copy-trader workflow: %w", err)
	}
	return s, nil
}

// RegisterUser creates a new account with the standard starting balance.
func (s *TradingService) RegisterUser(ctx context.Context, username string, isTrader bool) (*domain.User, error) {
	user := &domain.User{
		ID:        uuid.NewString(),
		Username:  username,
		Balance:   startingBalance,
		IsTrader:  isTrader,
		CreatedAt: time.Now().UTC(),
	}
	s.store.Update(func(tx *store.WriteTx) {
		tx.PutUser(user)
	})
	s.logger.Info(ctx, "User registered", map[string]interface{}{"userID": user.ID, "username": username, "isTrader": isTrader})
	return user, nil
}

// CloseTrade closes an open trade at the given exit price and propagates the
// closing event to every copied trade, each recomputing PNL with its own
// quantity. Closing is one-way; a second close leaves the trade untouched.
// Returns nil, nil when the trade does not exist.
func (s *TradingService) CloseTrade(ctx context.Context, tradeID string, exitPrice float64) (*domain.Trade, error) {
	op := "CloseTrade"
	var (
		closed     *domain.Trade
		propagated int
	)
	s.store.Update(func(tx *store.WriteTx) {
		trade := tx.Trade(tradeID)
		if trade == nil {
			return
		}
		if trade.Close(exitPrice, time.Now().UTC()) {
			tx.PutTrade(trade)
			for _, ct := range tx.CopiedTrades(func(ct *domain.CopiedTrade) bool { return ct.OriginalTradeID == tradeID }) {
				if ct.CloseFrom(trade) {
					tx.PutCopiedTrade(ct)
					propagated++
				}
			}
		}
		closed = trade
	})
	if closed == nil {
		s.logger.Warn(ctx, op+": trade not found", map[string]interface{}{"tradeID": tradeID})
		return nil, nil
	}
	s.logger.Info(ctx, op+": trade closed", map[string]interface{}{
		"tradeID":      tradeID,
		"exitPrice":    exitPrice,
		"copiedClosed": propagated,
	})
	return closed, nil
}

// StopCopying deactivates a copy relation and decrements the trader's
// follower count, floored at zero. Deactivation is one-way. Returns nil, nil
// when the relation does not exist.
func (s *TradingService) StopCopying(ctx context.Context, relationID string) (*domain.CopyRelation, error) {
	op := "StopCopying"
	var rel *domain.CopyRelation
	s.store.Update(func(tx *store.WriteTx) {
		rel = tx.CopyRelation(relationID)
		if rel == nil {
			return
		}
		rel.Active = false
		tx.PutCopyRelation(rel)
		if trader := tx.User(rel.TraderID); trader != nil {
			if trader.FollowersCount > 0 {
				trader.FollowersCount--
			}
			tx.PutUser(trader)
		}
	})
	if rel == nil {
		s.logger.Warn(ctx, op+": relation not found", map[string]interface{}{"relationID": relationID})
		return nil, nil
	}
	s.logger.Info(ctx, op+": relation deactivated", map[string]interface{}{"relationID": relationID, "traderID": rel.TraderID})
	return rel, nil
}
