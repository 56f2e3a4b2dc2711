package app

import (
	"context"
	"fmt"
	"log"

	"postpulse/internal/analyzer"
	"postpulse/internal/gateway/config"
	"postpulse/internal/gateway/handler"
	"postpulse/internal/gateway/server"
	"postpulse/internal/gateway/service/analytics"
	"postpulse/internal/source/insight"
	"postpulse/internal/source/instagram"
)

type App struct {
	server  *server.Server
	closers []func() error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	stores, err := initStores(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{}
	if stores.history != nil {
		a.closers = append(a.closers, stores.history.Close)
	}

	core := &analyzer.Analyzer{
		Engagement:    initEngagementFetcher(cfg),
		Insight:       a.initInsightGenerator(ctx, cfg),
		History:       stores.history,
		SourceTimeout: cfg.SourceTimeout,
	}

	hub := analytics.NewHub()
	svc := analytics.New(core, stores.archive, stores.history, hub)

	analyticsHandler := handler.NewAnalyticsHandler(svc)
	watchHandler := handler.NewWatchHandler(hub)

	mux := server.NewMux(analyticsHandler, watchHandler)
	a.server = server.New(cfg.Port, mux)
	return a, nil
}

func initEngagementFetcher(cfg *config.Config) analyzer.EngagementFetcher {
	fetcher, err := instagram.New(instagram.Config{
		AccessToken:       cfg.Instagram.AccessToken,
		BusinessAccountID: cfg.Instagram.BusinessAccountID,
		BaseURL:           cfg.Instagram.BaseURL,
		Limit:             cfg.Instagram.Limit,
	})
	if err != nil {
		log.Printf("engagement source disabled: %v", err)
		return nil
	}
	return fetcher
}

func (a *App) initInsightGenerator(ctx context.Context, cfg *config.Config) analyzer.InsightGenerator {
	if cfg.Gemini.APIKey == "" {
		log.Printf("insight source: no api key, using fake generator")
		return insight.FakeGenerator{}
	}
	cli, err := insight.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.RPS, cfg.Gemini.Burst)
	if err != nil {
		log.Printf("insight source disabled: %v", err)
		return nil
	}
	a.closers = append(a.closers, cli.Close)
	return cli
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	for _, closeFn := range a.closers {
		_ = closeFn()
	}
	return err
}
