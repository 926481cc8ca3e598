package domain

import "time"

// User is a platform account. Traders publish trades that followers can copy.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Balance        float64   `json:"balance"`
	TotalPNL       float64   `json:"totalPnl"`
	WinRate        float64   `json:"winRate"`
	FollowersCount int       `json:"followersCount"` // Tracks the number of active copy relations targeting this user.
	IsTrader       bool      `json:"isTrader"`
	CreatedAt      time.Time `json:"createdAt"`
}
