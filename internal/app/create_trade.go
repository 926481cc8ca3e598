package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"copytrade/internal/domain"
	"copytrade/internal/ports"
	"copytrade/internal/store"
	"copytrade/internal/workflow"
)

// CreateTradeInput carries the caller-supplied fields for a new trade.
type CreateTradeInput struct {
	TraderID   string
	Symbol     string
	Direction  domain.TradeDirection
	EntryPrice float64
	Quantity   float64
}

// tradeContext is the mutable execution context threaded through the
// create-trade workflow. Each run exclusively owns one instance; the store
// handle is the only shared state it reaches.
type tradeContext struct {
	store *store.Store

	traderID   string
	symbol     string
	direction  domain.TradeDirection
	entryPrice float64
	quantity   float64

	tradeID string
	valid   bool
	errMsg  string
}

// createTradeDefinition wires the create-trade graph: validate the input,
// branch on validity, insert the trade, then fan it out to every active
// follower of the trader.
func createTradeDefinition() workflow.Definition[tradeContext] {
	return workflow.Definition[tradeContext]{
		Name:  "create-trade",
		Start: "Validate Trade Input",
		Nodes: []workflow.Node[tradeContext]{
			workflow.Task("Validate Trade Input", "Is Valid", func(c *tradeContext) {
				switch {
				case c.quantity <= 0:
					c.errMsg = "Invalid quantity"
				case c.entryPrice <= 0:
					c.errMsg = "Invalid price"
				default:
					c.valid = true
				}
			}),
			workflow.Gateway("Is Valid", func(c *tradeContext) string {
				if c.valid {
					return "Yes"
				}
				return "No"
			}, map[string]string{"Yes": "Create Trade Record", "No": "Reject"}),
			// Terminal node for the No branch; the validation message is
			// already on the context.
			workflow.Task("Reject", "", func(*tradeContext) {}),
			workflow.Task("Create Trade Record", "Copy Trade To Followers", func(c *tradeContext) {
				trade := &domain.Trade{
					ID:         uuid.NewString(),
					TraderID:   c.traderID,
					Symbol:     c.symbol,
					Direction:  c.direction,
					EntryPrice: c.entryPrice,
					Quantity:   c.quantity,
					Status:     domain.StatusOpen,
					CreatedAt:  time.Now().UTC(),
				}
				c.store.Update(func(tx *store.WriteTx) {
					tx.PutTrade(trade)
				})
				c.tradeID = trade.ID
			}),
			workflow.Task("Copy Trade To Followers", "", func(c *tradeContext) {
				// One critical section so the fan-out sees a consistent
				// relation set.
				c.store.Update(func(tx *store.WriteTx) {
					relations := tx.CopyRelations(func(r *domain.CopyRelation) bool {
						return r.TraderID == c.traderID && r.Active
					})
					for _, rel := range relations {
						tx.PutCopiedTrade(&domain.CopiedTrade{
							ID:              uuid.NewString(),
							OriginalTradeID: c.tradeID,
							FollowerID:      rel.FollowerID,
							Quantity:        c.quantity * rel.CopyRatio,
							Status:          domain.StatusOpen,
						})
					}
				})
			}),
		},
	}
}

// CreateTrade runs the create-trade workflow. Validation failures surface as
// ports.ErrInvalidRequest; on success the trade is re-read from the store,
// which is the source of truth, rather than trusted from the context.
func (s *TradingService) CreateTrade(ctx context.Context, in CreateTradeInput) (*domain.Trade, error) {
	c := &tradeContext{
		store:      s.store,
		traderID:   in.TraderID,
		symbol:     in.Symbol,
		direction:  in.Direction,
		entryPrice: in.EntryPrice,
		quantity:   in.Quantity,
	}

	res, err := s.createTrade.Run(ctx, c)
	if err != nil {
		s.logger.Error(ctx, err, "create-trade workflow failed", map[string]interface{}{"traderID": in.TraderID})
		return nil, err
	}

	if res.tradeID == "" {
		msg := res.errMsg
		if msg == "" {
			msg = "trade creation failed"
		}
		s.logger.Warn(ctx, "create-trade rejected", map[string]interface{}{"traderID": in.TraderID, "reason": msg})
		return nil, fmt.Errorf("%w: %s", ports.ErrInvalidRequest, msg)
	}

	var trade *domain.Trade
	s.store.View(func(tx *store.Tx) {
		trade = tx.Trade(res.tradeID)
	})
	if trade == nil {
		return nil, fmt.Errorf("trade %q missing after workflow completion", res.tradeID)
	}
	s.logger.Info(ctx, "Trade created", map[string]interface{}{"tradeID": trade.ID, "traderID": in.TraderID, "symbol": in.Symbol})
	return trade, nil
}
