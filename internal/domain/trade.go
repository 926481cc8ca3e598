package domain

import "time"

// Trade represents a position opened by a trader.
// ExitPrice, PNL and ClosedAt are set together, exactly when the trade closes.
type Trade struct {
	ID         string         `json:"id"`
	TraderID   string         `json:"traderId"`
	Symbol     string         `json:"symbol"` // Trading pair (e.g., "BTC/USD")
	Direction  TradeDirection `json:"direction"`
	EntryPrice float64        `json:"entryPrice"`
	ExitPrice  *float64       `json:"exitPrice"`
	Quantity   float64        `json:"quantity"`
	PNL        *float64       `json:"pnl"`
	Status     TradeStatus    `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
	ClosedAt   *time.Time     `json:"closedAt"`
}

// IsOpen checks if the trade status is open.
func (t *Trade) IsOpen() bool {
	return t.Status == StatusOpen
}

// Close transitions an open trade to Closed at the given exit price, applying
// the direction sign rule to PNL. Closing is one-way: an already closed trade
// is left untouched and Close reports false.
func (t *Trade) Close(exitPrice float64, at time.Time) bool {
	if !t.IsOpen() {
		return false
	}
	pnl := ClosePNL(t.Direction, t.EntryPrice, exitPrice, t.Quantity)
	t.ExitPrice = &exitPrice
	t.PNL = &pnl
	t.Status = StatusClosed
	t.ClosedAt = &at
	return true
}
