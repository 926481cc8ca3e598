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

// CopyTraderInput carries the caller-supplied fields for a new copy relation.
type CopyTraderInput struct {
	FollowerID string
	TraderID   string
	CopyRatio  float64
}

// copyContext is the mutable execution context threaded through the
// copy-trader workflow.
type copyContext struct {
	store *store.Store

	followerID string
	traderID   string
	copyRatio  float64

	relationID string
	valid      bool
	errMsg     string
}

// copyTraderDefinition wires the copy-trader graph: validate the ratio,
// branch on validity, create the active relation, then bump the trader's
// follower count.
func copyTraderDefinition() workflow.Definition[copyContext] {
	return workflow.Definition[copyContext]{
		Name:  "copy-trader",
		Start: "Validate Copy Request",
		Nodes: []workflow.Node[copyContext]{
			workflow.Task("Validate Copy Request", "Is Valid", func(c *copyContext) {
				if c.copyRatio <= 0.01 || c.copyRatio > 1.0 {
					c.errMsg = "Invalid copy ratio"
					return
				}
				c.valid = true
			}),
			workflow.Gateway("Is Valid", func(c *copyContext) string {
				if c.valid {
					return "Yes"
				}
				return "No"
			}, map[string]string{"Yes": "Create Copy Relation", "No": "Reject"}),
			workflow.Task("Reject", "", func(*copyContext) {}),
			workflow.Task("Create Copy Relation", "Update Follower Count", func(c *copyContext) {
				relation := &domain.CopyRelation{
					ID:         uuid.NewString(),
					FollowerID: c.followerID,
					TraderID:   c.traderID,
					CopyRatio:  c.copyRatio,
					Active:     true,
					CreatedAt:  time.Now().UTC(),
				}
				c.store.Update(func(tx *store.WriteTx) {
					tx.PutCopyRelation(relation)
				})
				c.relationID = relation.ID
			}),
			workflow.Task("Update Follower Count", "", func(c *copyContext) {
				c.store.Update(func(tx *store.WriteTx) {
					trader := tx.User(c.traderID)
					if trader == nil {
						return
					}
					trader.FollowersCount++
					tx.PutUser(trader)
				})
			}),
		},
	}
}

// CopyTrader runs the copy-trader workflow. Ratio validation failures surface
// as ports.ErrInvalidRequest; on success the relation is re-read from the
// store.
func (s *TradingService) CopyTrader(ctx context.Context, in CopyTraderInput) (*domain.CopyRelation, error) {
	c := &copyContext{
		store:      s.store,
		followerID: in.FollowerID,
		traderID:   in.TraderID,
		copyRatio:  in.CopyRatio,
	}

	res, err := s.copyTrader.Run(ctx, c)
	if err != nil {
		s.logger.Error(ctx, err, "copy-trader workflow failed", map[string]interface{}{"traderID": in.TraderID, "followerID": in.FollowerID})
		return nil, err
	}

	if res.relationID == "" {
		msg := res.errMsg
		if msg == "" {
			msg = "copy failed"
		}
		s.logger.Warn(ctx, "copy-trader rejected", map[string]interface{}{"followerID": in.FollowerID, "reason": msg})
		return nil, fmt.Errorf("%w: %s", ports.ErrInvalidRequest, msg)
	}

	var relation *domain.CopyRelation
	s.store.View(func(tx *store.Tx) {
		relation = tx.CopyRelation(res.relationID)
	})
	if relation == nil {
		return nil, fmt.Errorf("copy relation %q missing after workflow completion", res.relationID)
	}
	s.logger.Info(ctx, "Copy relation created", map[string]interface{}{"relationID": relation.ID, "followerID": in.FollowerID, "traderID": in.TraderID})
	return relation, nil
}
