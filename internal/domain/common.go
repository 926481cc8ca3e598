package domain

// TradeDirection represents the side of a trade (Long or Short).
type TradeDirection string

const (
	Long  TradeDirection = "Long"
	Short TradeDirection = "Short"
)

// TradeStatus represents the lifecycle state of a trade or copied trade.
type TradeStatus string

const (
	StatusOpen   TradeStatus = "Open"
	StatusClosed TradeStatus = "Closed"
)

// ClosePNL computes the signed profit for closing a position of the given
// direction: Long profits when exit > entry, Short when entry > exit.
func ClosePNL(direction TradeDirection, entryPrice, exitPrice, quantity float64) float64 {
	if direction == Short {
		return (entryPrice - exitPrice) * quantity
	}
	return (exitPrice - entryPrice) * quantity
}
