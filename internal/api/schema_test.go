package api

import (
	"context"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copytrade/config"
	"copytrade/internal/app"
	"copytrade/internal/store"
)

// mockLogger is a no-op ports.Logger implementation.
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func newTestSchema(t *testing.T) graphql.Schema {
	t.Helper()
	logger := &mockLogger{}
	st, err := store.New(store.Config{Logger: logger})
	require.NoError(t, err)
	require.NoError(t, st.ApplySeed(store.DefaultSeed()))
	svc, err := app.NewTradingService(&config.Config{}, logger, st)
	require.NoError(t, err)
	schema, err := NewSchema(svc, logger)
	require.NoError(t, err)
	return schema
}

func execute(t *testing.T, schema graphql.Schema, query string) *graphql.Result {
	t.Helper()
	return graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: query,
		Context:       context.Background(),
	})
}

func TestQueryTraders(t *testing.T) {
	schema := newTestSchema(t)

	res := execute(t, schema, `{ traders { id username isTrader followersCount } }`)
	require.False(t, res.HasErrors(), "unexpected errors: %v", res.Errors)

	data := res.Data.(map[string]interface{})
	traders := data["traders"].([]interface{})
	require.Len(t, traders, 2)
	for _, raw := range traders {
		trader := raw.(map[string]interface{})
		assert.True(t, trader["isTrader"].(bool))
	}
}

func TestQueryUser(t *testing.T) {
	schema := newTestSchema(t)

	res := execute(t, schema, `{ user(id: "trader1") { username balance } }`)
	require.False(t, res.HasErrors(), "unexpected errors: %v", res.Errors)

	user := res.Data.(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, "AlphaTrader", user["username"])

	// Unknown ids resolve to null, not to an error.
	res = execute(t, schema, `{ user(id: "nope") { username } }`)
	require.False(t, res.HasErrors(), "unexpected errors: %v", res.Errors)
	assert.Nil(t, res.Data.(map[string]interface{})["user"])
}

func TestQueryTradesAndOpenTrades(t *testing.T) {
	schema := newTestSchema(t)

	res := execute(t, schema, `{ trades { id status } openTrades { id } }`)
	require.False(t, res.HasErrors(), "unexpected errors: %v", res.Errors)

	data := res.Data.(map[string]interface{})
	assert.Len(t, data["trades"].([]interface{}), 2)

	open := data["openTrades"].([]interface{})
	require.Len(t, open, 1)
	assert.Equal(t, "trade1", open[0].(map[string]interface{})["id"])

	res = execute(t, schema, `{ trades(traderId: "trader2") { id pnl } }`)
	require.False(t, res.HasErrors(), "unexpected errors: %v", res.Errors)
	trades := res.Data.(map[string]interface{})["trades"].([]interface{})
	require.Len(t, trades, 1)
	assert.InDelta(t, 650.0, trades[0].(map[string]interface{})["pnl"].(float64), 1e-9)
}

func TestMutationRegisterUser(t *testing.T) {
	schema := newTestSchema(t)

	res := execute(t, schema, `mutation { registerUser(username: "NewInvestor", isTrader: false) { id username balance isTrader } }`)
	require.False(t, res.HasErrors(), "unexpected errors: %v", res.Errors)

	user := res.Data.(map[string]interface{})["registerUser"].(map[string]interface{})
	assert.NotEmpty(t, user["id"])
	assert.Equal(t, "NewInvestor", user["username"])
	assert.Equal(t, 10000.0, user["balance"])
	assert.False(t, user["isTrader"].(bool))
}

func TestMutationCreateTrade(t *testing.T) {
	schema := newTestSchema(t)

	res := execute(t, schema, `mutation {
		createTrade(input: {traderId: "trader1", symbol: "SOL/USD", direction: SHORT, entryPrice: 150.0, quantity: 10.0}) {
			id symbol direction status exitPrice pnl
		}
	}`)
	require.False(t, res.HasErrors(), "unexpected errors: %v", res.Errors)

	trade := res.Data.(map[string]interface{})["createTrade"].(map[string]interface{})
	assert.NotEmpty(t, trade["id"])
	assert.Equal(t, "SOL/USD", trade["symbol"])
	assert.Equal(t, "SHORT", trade["direction"])
	assert.Equal(t, "OPEN", trade["status"])
	assert.Nil(t, trade["exitPrice"])
	assert.Nil(t, trade["pnl"])
}

func TestMutationCreateTradeInvalid(t *testing.T) {
	schema := newTestSchema(t)

	res := execute(t, schema, `mutation {
		createTrade(input: {traderId: "trader1", symbol: "SOL/USD", direction: LONG, entryPrice: 150.0, quantity: 0.0}) { id }
	}`)
	require.True(t, res.HasErrors())
	assert.Contains(t, res.Errors[0].Message, "Invalid quantity")
}

func TestMutationCloseTrade(t *testing.T) {
	schema := newTestSchema(t)

	res := execute(t, schema, `mutation { closeTrade(tradeId: "trade1", exitPrice: 46000.0) { id status exitPrice pnl } }`)
	require.False(t, res.HasErrors(), "unexpected errors: %v", res.Errors)

	trade := res.Data.(map[string]interface{})["closeTrade"].(map[string]interface{})
	assert.Equal(t, "CLOSED", trade["status"])
	assert.Equal(t, 46000.0, trade["exitPrice"])
	// trade1 is Long 0.5 @ 42500.
	assert.InDelta(t, 1750.0, trade["pnl"].(float64), 1e-9)

	// Unknown trades resolve to null, not to an error.
	res = execute(t, schema, `mutation { closeTrade(tradeId: "nope", exitPrice: 1.0) { id } }`)
	require.False(t, res.HasErrors(), "unexpected errors: %v", res.Errors)
	assert.Nil(t, res.Data.(map[string]interface{})["closeTrade"])
}

func TestMutationCopyTraderAndStop(t *testing.T) {
	schema := newTestSchema(t)

	res := execute(t, schema, `mutation {
		copyTrader(input: {followerId: "user1", traderId: "trader1", copyRatio: 0.5}) { id active copyRatio }
	}`)
	require.False(t, res.HasErrors(), "unexpected errors: %v", res.Errors)

	rel := res.Data.(map[string]interface{})["copyTrader"].(map[string]interface{})
	relationID := rel["id"].(string)
	assert.True(t, rel["active"].(bool))
	assert.Equal(t, 0.5, rel["copyRatio"])

	res = execute(t, schema, `{ myCopyRelations(followerId: "user1") { id } }`)
	require.False(t, res.HasErrors(), "unexpected errors: %v", res.Errors)
	require.Len(t, res.Data.(map[string]interface{})["myCopyRelations"].([]interface{}), 1)

	res = execute(t, schema, `mutation { stopCopying(relationId: "`+relationID+`") { id active } }`)
	require.False(t, res.HasErrors(), "unexpected errors: %v", res.Errors)
	stopped := res.Data.(map[string]interface{})["stopCopying"].(map[string]interface{})
	assert.False(t, stopped["active"].(bool))

	res = execute(t, schema, `{ myCopyRelations(followerId: "user1") { id } }`)
	require.False(t, res.HasErrors(), "unexpected errors: %v", res.Errors)
	assert.Empty(t, res.Data.(map[string]interface{})["myCopyRelations"].([]interface{}))
}

func TestMutationCopyTraderInvalidRatio(t *testing.T) {
	schema := newTestSchema(t)

	res := execute(t, schema, `mutation {
		copyTrader(input: {followerId: "user1", traderId: "trader1", copyRatio: 0.01}) { id }
	}`)
	require.True(t, res.HasErrors())
	assert.Contains(t, res.Errors[0].Message, "Invalid copy ratio")
}
