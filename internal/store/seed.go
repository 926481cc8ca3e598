package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"copytrade/internal/domain"
)

// SeedData describes the users and trades installed at bootstrap. Trades with
// an exit price are stored closed, with PNL derived from the direction rule.
type SeedData struct {
	Users  []SeedUser  `yaml:"users"`
	Trades []SeedTrade `yaml:"trades"`
}

// SeedUser is one bootstrap account.
type SeedUser struct {
	ID             string  `yaml:"id"`
	Username       string  `yaml:"username"`
	Balance        float64 `yaml:"balance"`
	TotalPNL       float64 `yaml:"total_pnl"`
	WinRate        float64 `yaml:"win_rate"`
	FollowersCount int     `yaml:"followers_count"`
	IsTrader       bool    `yaml:"is_trader"`
}

// SeedTrade is one bootstrap trade.
type SeedTrade struct {
	ID         string   `yaml:"id"`
	TraderID   string   `yaml:"trader_id"`
	Symbol     string   `yaml:"symbol"`
	Direction  string   `yaml:"direction"`
	EntryPrice float64  `yaml:"entry_price"`
	Quantity   float64  `yaml:"quantity"`
	ExitPrice  *float64 `yaml:"exit_price"`
}

// DefaultSeed returns the built-in sample data set: two traders with an
// audience, one fresh investor, one open and one closed trade.
func DefaultSeed() SeedData {
	exit := 2380.0
	return SeedData{
		Users: []SeedUser{
			{ID: "trader1", Username: "AlphaTrader", Balance: 100000, TotalPNL: 15420.50, WinRate: 0.72, FollowersCount: 156, IsTrader: true},
			{ID: "trader2", Username: "CryptoKing", Balance: 250000, TotalPNL: 42350, WinRate: 0.68, FollowersCount: 312, IsTrader: true},
			{ID: "user1", Username: "NewInvestor", Balance: 10000, TotalPNL: 520, WinRate: 0.65, FollowersCount: 0, IsTrader: false},
		},
		Trades: []SeedTrade{
			{ID: "trade1", TraderID: "trader1", Symbol: "BTC/USD", Direction: "Long", EntryPrice: 42500, Quantity: 0.5},
			{ID: "trade2", TraderID: "trader2", Symbol: "ETH/USD", Direction: "Long", EntryPrice: 2250, Quantity: 5, ExitPrice: &exit},
		},
	}
}

// LoadSeed reads a YAML seed file.
func LoadSeed(path string) (SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SeedData{}, fmt.Errorf("failed to read seed file '%s': %w", path, err)
	}
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return SeedData{}, fmt.Errorf("failed to parse seed file '%s': %w", path, err)
	}
	return data, nil
}

// ApplySeed installs the seed data in one critical section.
func (s *Store) ApplySeed(data SeedData) error {
	now := time.Now().UTC()
	trades := make([]*domain.Trade, 0, len(data.Trades))
	for _, st := range data.Trades {
		var direction domain.TradeDirection
		switch st.Direction {
		case string(domain.Long), "":
			direction = domain.Long
		case string(domain.Short):
			direction = domain.Short
		default:
			return fmt.Errorf("seed trade '%s': unknown direction '%s'", st.ID, st.Direction)
		}
		trade := &domain.Trade{
			ID:         st.ID,
			TraderID:   st.TraderID,
			Symbol:     st.Symbol,
			Direction:  direction,
			EntryPrice: st.EntryPrice,
			Quantity:   st.Quantity,
			Status:     domain.StatusOpen,
			CreatedAt:  now,
		}
		if st.ExitPrice != nil {
			trade.Close(*st.ExitPrice, now)
		}
		trades = append(trades, trade)
	}

	s.Update(func(tx *WriteTx) {
		for _, su := range data.Users {
			tx.PutUser(&domain.User{
				ID:             su.ID,
				Username:       su.Username,
				Balance:        su.Balance,
				TotalPNL:       su.TotalPNL,
				WinRate:        su.WinRate,
				FollowersCount: su.FollowersCount,
				IsTrader:       su.IsTrader,
				CreatedAt:      now,
			})
		}
		for _, t := range trades {
			tx.PutTrade(t)
		}
	})
	s.logger.Info(context.Background(), "Seed data applied", map[string]interface{}{
		"users":  len(data.Users),
		"trades": len(data.Trades),
	})
	return nil
}
