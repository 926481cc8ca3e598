package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/graphql-go/handler"
	"go.uber.org/ratelimit"

	"copytrade/config"
	"copytrade/internal/app"
	"copytrade/internal/ports"
)

// Server hosts the GraphQL API over HTTP: permissive CORS for the frontend,
// an inbound request throttle, the /graphql endpoint and a playground.
type Server struct {
	cfg        *config.Config
	logger     ports.Logger
	httpServer *http.Server
}

// NewServer builds the schema and the gin router.
func NewServer(cfg *config.Config, logger ports.Logger, svc *app.TradingService) (*Server, error) {
	if cfg == nil || logger == nil || svc == nil {
		return nil, fmt.Errorf("missing required dependencies for API server")
	}

	schema, err := NewSchema(svc, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build GraphQL schema: %w", err)
	}
	gqlHandler := handler.New(&handler.Config{
		Schema:     &schema,
		Pretty:     true,
		Playground: true,
	})

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default()) // Any origin, any method, any header.
	if cfg.RequestsPerSecond > 0 {
		limiter := ratelimit.New(cfg.RequestsPerSecond)
		r.Use(func(c *gin.Context) {
			limiter.Take()
			c.Next()
		})
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/graphql", gin.WrapH(gqlHandler))
	r.GET("/graphql", gin.WrapH(gqlHandler))
	r.GET("/playground", gin.WrapH(gqlHandler))

	return &Server{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: r,
		},
	}, nil
}

// Run serves until ctx is canceled, then shuts down gracefully within the
// configured timeout.
func (s *Server) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- s.httpServer.ListenAndServe()
	}()
	s.logger.Info(ctx, "HTTP server started", map[string]interface{}{"addr": s.httpServer.Addr})

	select {
	// App context shutdown:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		if err := <-serverErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	// HTTP server error:
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
