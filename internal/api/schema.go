package api

import (
	"errors"
	"fmt"

	"github.com/graphql-go/graphql"

	"copytrade/internal/app"
	"copytrade/internal/domain"
	"copytrade/internal/ports"
)

// NewSchema builds the GraphQL schema exposing the query/mutation surface
// over the trading service. Field names and shapes follow the public API:
// ids are opaque strings minted by the core, not-found lookups resolve to
// null, and business validation failures surface as GraphQL errors.
func NewSchema(svc *app.TradingService, logger ports.Logger) (graphql.Schema, error) {
	directionEnum := graphql.NewEnum(graphql.EnumConfig{
		Name: "TradeDirection",
		Values: graphql.EnumValueConfigMap{
			"LONG":  &graphql.EnumValueConfig{Value: domain.Long},
			"SHORT": &graphql.EnumValueConfig{Value: domain.Short},
		},
	})

	statusEnum := graphql.NewEnum(graphql.EnumConfig{
		Name: "TradeStatus",
		Values: graphql.EnumValueConfigMap{
			"OPEN":   &graphql.EnumValueConfig{Value: domain.StatusOpen},
			"CLOSED": &graphql.EnumValueConfig{Value: domain.StatusClosed},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"username":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"balance":        &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"totalPnl":       &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"winRate":        &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"followersCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"isTrader":       &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"createdAt":      &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	tradeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Trade",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"traderId":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"symbol":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"direction":  &graphql.Field{Type: graphql.NewNonNull(directionEnum)},
			"entryPrice": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"exitPrice":  &graphql.Field{Type: graphql.Float},
			"quantity":   &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"pnl":        &graphql.Field{Type: graphql.Float},
			"status":     &graphql.Field{Type: graphql.NewNonNull(statusEnum)},
			"createdAt":  &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"closedAt":   &graphql.Field{Type: graphql.DateTime},
		},
	})

	copyRelationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CopyRelation",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"followerId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"traderId":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"copyRatio":  &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"active":     &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"createdAt":  &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	copiedTradeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CopiedTrade",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"originalTradeId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"followerId":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"quantity":        &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"pnl":             &graphql.Field{Type: graphql.Float},
			"status":          &graphql.Field{Type: graphql.NewNonNull(statusEnum)},
		},
	})

	createTradeInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateTradeInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"traderId":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"symbol":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"direction":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(directionEnum)},
			"entryPrice": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"quantity":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	copyTraderInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CopyTraderInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"followerId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"traderId":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"copyRatio":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	// internalErr hides wiring defects behind a generic failure; business
	// validation errors pass through verbatim.
	internalErr := func(p graphql.ResolveParams, err error, op string) error {
		if errors.Is(err, ports.ErrInvalidRequest) {
			return err
		}
		logger.Error(p.Context, err, op+" failed")
		return fmt.Errorf("internal error")
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"traders": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.Traders(p.Context), nil
				},
			},
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					u := svc.User(p.Context, id)
					if u == nil {
						return nil, nil
					}
					return u, nil
				},
			},
			"users": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.Users(p.Context), nil
				},
			},
			"trades": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(tradeType))),
				Args: graphql.FieldConfigArgument{
					"traderId": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					traderID, _ := p.Args["traderId"].(string)
					return svc.Trades(p.Context, traderID), nil
				},
			},
			"openTrades": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(tradeType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.OpenTrades(p.Context), nil
				},
			},
			"myCopyRelations": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(copyRelationType))),
				Args: graphql.FieldConfigArgument{
					"followerId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					followerID, _ := p.Args["followerId"].(string)
					return svc.MyCopyRelations(p.Context, followerID), nil
				},
			},
			"myCopiedTrades": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(copiedTradeType))),
				Args: graphql.FieldConfigArgument{
					"followerId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					followerID, _ := p.Args["followerId"].(string)
					return svc.MyCopiedTrades(p.Context, followerID), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createTrade": &graphql.Field{
				Type: graphql.NewNonNull(tradeType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createTradeInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					input, _ := p.Args["input"].(map[string]interface{})
					direction, _ := input["direction"].(domain.TradeDirection)
					traderID, _ := input["traderId"].(string)
					symbol, _ := input["symbol"].(string)
					entryPrice, _ := input["entryPrice"].(float64)
					quantity, _ := input["quantity"].(float64)

					trade, err := svc.CreateTrade(p.Context, app.CreateTradeInput{
						TraderID:   traderID,
						Symbol:     symbol,
						Direction:  direction,
						EntryPrice: entryPrice,
						Quantity:   quantity,
					})
					if err != nil {
						return nil, internalErr(p, err, "createTrade")
					}
					return trade, nil
				},
			},
			"closeTrade": &graphql.Field{
				Type: tradeType,
				Args: graphql.FieldConfigArgument{
					"tradeId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"exitPrice": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					tradeID, _ := p.Args["tradeId"].(string)
					exitPrice, _ := p.Args["exitPrice"].(float64)
					trade, err := svc.CloseTrade(p.Context, tradeID, exitPrice)
					if err != nil {
						return nil, internalErr(p, err, "closeTrade")
					}
					if trade == nil {
						return nil, nil
					}
					return trade, nil
				},
			},
			"copyTrader": &graphql.Field{
				Type: graphql.NewNonNull(copyRelationType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(copyTraderInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					input, _ := p.Args["input"].(map[string]interface{})
					followerID, _ := input["followerId"].(string)
					traderID, _ := input["traderId"].(string)
					copyRatio, _ := input["copyRatio"].(float64)

					relation, err := svc.CopyTrader(p.Context, app.CopyTraderInput{
						FollowerID: followerID,
						TraderID:   traderID,
						CopyRatio:  copyRatio,
					})
					if err != nil {
						return nil, internalErr(p, err, "copyTrader")
					}
					return relation, nil
				},
			},
			"stopCopying": &graphql.Field{
				Type: copyRelationType,
				Args: graphql.FieldConfigArgument{
					"relationId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					relationID, _ := p.Args["relationId"].(string)
					relation, err := svc.StopCopying(p.Context, relationID)
					if err != nil {
						return nil, internalErr(p, err, "stopCopying")
					}
					if relation == nil {
						return nil, nil
					}
					return relation, nil
				},
			},
			"registerUser": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"isTrader": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Boolean)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					username, _ := p.Args["username"].(string)
					isTrader, _ := p.Args["isTrader"].(bool)
					user, err := svc.RegisterUser(p.Context, username, isTrader)
					if err != nil {
						return nil, internalErr(p, err, "registerUser")
					}
					return user, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
