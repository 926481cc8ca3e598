package domain

import "time"

// CopyRelation is a standing instruction that a follower's account mirrors a
// trader's new trades at a fixed ratio. Deactivation is one-way; a stopped
// relation is never reactivated.
type CopyRelation struct {
	ID         string    `json:"id"`
	FollowerID string    `json:"followerId"`
	TraderID   string    `json:"traderId"`
	CopyRatio  float64   `json:"copyRatio"` // Fraction of the original quantity, in (0.01, 1.0].
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CopiedTrade is the follower-side position generated from a trader's trade
// via an active copy relation. Quantity is fixed at creation time from the
// relation's ratio and is never recomputed.
type CopiedTrade struct {
	ID              string      `json:"id"`
	OriginalTradeID string      `json:"originalTradeId"`
	FollowerID      string      `json:"followerId"`
	Quantity        float64     `json:"quantity"`
	PNL             *float64    `json:"pnl"`
	Status          TradeStatus `json:"status"`
}

// CloseFrom mirrors the original trade's closing event, recomputing PNL with
// the copied quantity. It is a no-op unless the original is closed and the
// copied trade is still open.
func (c *CopiedTrade) CloseFrom(original *Trade) bool {
	if c.Status == StatusClosed || original == nil || original.ExitPrice == nil {
		return false
	}
	pnl := ClosePNL(original.Direction, original.EntryPrice, *original.ExitPrice, c.Quantity)
	c.PNL = &pnl
	c.Status = StatusClosed
	return true
}
