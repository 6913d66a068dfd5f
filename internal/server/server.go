package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/preparly/taxassist/config"
	"github.com/preparly/taxassist/internal/fixtures"
	"github.com/preparly/taxassist/internal/functions"
	"github.com/preparly/taxassist/internal/rag"
	"github.com/preparly/taxassist/internal/store"
	"github.com/preparly/taxassist/internal/textcache"
	"github.com/preparly/taxassist/provider"
)

// Run wires the full backend and serves it on addr (falling back to the
// configured listen address).
func Run(configPath, addr string) error {
	cfg := config.LoadConfig(configPath)

	e := newEcho()

	ctx := context.Background()
	dsn, err := cfg.Databases.Postgres.DSN()
	if err != nil {
		return err
	}
	if err := Migrate("file://migrations", dsn, "up", 0); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	st, err := store.NewWithDSN(ctx, dsn)
	if err != nil {
		return err
	}

	if cfg.General.JWTSecret == "" {
		return fmt.Errorf("jwt secret not configured (general.jwt_secret)")
	}
	secret := []byte(cfg.General.JWTSecret)

	// Extraction pipeline: canned fixture texts in demo mode, optionally
	// cached in Redis.
	var extractor rag.TextExtractor = rag.Extractor{}
	if cfg.General.DemoMode {
		extractor = rag.Extractor{Fixtures: fixtures.DocumentText}
	}
	if cfg.Databases.Redis.Host != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Databases.Redis.Host, cfg.Databases.Redis.Port),
			Password: cfg.Databases.Redis.Password,
			DB:       cfg.Databases.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed (%s:%s): %w", cfg.Databases.Redis.Host, cfg.Databases.Redis.Port, err)
		}
		extractor = textcache.New(rdb, extractor, cfg.Databases.Redis.TTL)
	}

	providers := cfg.Providers
	if cfg.General.DemoMode && providers.OpenAI.APIKey == "" {
		providers.LLM = "mock"
	}
	llm, err := provider.NewProvider(providers)
	if err != nil {
		return err
	}

	fns := functions.NewClient(cfg.Functions)

	if cfg.General.DemoMode {
		if err := seedDemoData(ctx, st); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	registerRoutes(e, st, extractor, llm, fns, secret, cfg.RAG)

	if addr == "" {
		addr = cfg.General.Listen
		if addr != "" && addr[0] != ':' {
			addr = ":" + addr
		}
		if addr == "" {
			addr = ":8080"
		}
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}

// newEcho builds the echo instance with the shared middleware stack and the
// unified JSON error handler.
func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Cookie"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return e
}

func registerRoutes(e *echo.Echo, st *store.Store, extractor rag.TextExtractor, llm provider.Provider, fns *functions.Client, secret []byte, ragCfg config.RAGConfig) {
	api := e.Group("/api")

	auth := &AuthHandler{Store: st, Secret: secret}
	auth.Register(api.Group("/auth"))
	api.GET("/me", auth.me, func(next echo.HandlerFunc) echo.HandlerFunc { return withAuth(next, secret) })

	projects := api.Group("/projects")
	ph := &ProjectsHandler{Store: st}
	ph.Register(projects, secret)

	th := &TasksHandler{Store: st}
	th.Register(api.Group("/tasks"), secret)
	projects.GET("/:id/tasks", th.byProject)

	dh := &DocumentsHandler{Store: st, Extractor: extractor}
	dh.Register(api.Group("/documents"), secret)
	projects.POST("/:id/documents", dh.upload)

	ch := &ChatHandler{
		Store:            st,
		Extractor:        extractor,
		LLM:              llm,
		MaxContextTokens: ragCfg.MaxContextTokens,
		MaxResults:       ragCfg.MaxResults,
		ChunkSize:        ragCfg.ChunkSize,
		ChunkOverlap:     ragCfg.ChunkOverlap,
	}
	ch.Register(api.Group("/tasks"), secret)

	ah := &ActionsHandler{Store: st, Functions: fns}
	ah.Register(api.Group("/tasks"), secret)
}
