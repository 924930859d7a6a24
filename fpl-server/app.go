package main

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/vongohren/fpl-ai-assist/internal/cache"
	"github.com/vongohren/fpl-ai-assist/internal/config"
	"github.com/vongohren/fpl-ai-assist/internal/fplapi"
	"github.com/vongohren/fpl-ai-assist/internal/logging"
	"github.com/vongohren/fpl-ai-assist/internal/trends"
	"github.com/vongohren/fpl-ai-assist/internal/websearch"
)

// App wires the client, cache and analyzers together and is passed to
// every tool builder. Constructed once in main; nothing here is global.
type App struct {
	cfg      *config.Config
	client   *fplapi.Client
	cache    *cache.Cache
	search   *websearch.Client
	trends   *trends.Analyzer
	log      *logging.Logger
	validate *validator.Validate
}

func newApp(cfg *config.Config, client *fplapi.Client, store *cache.Cache, search *websearch.Client, log *logging.Logger) *App {
	return &App{
		cfg:      cfg,
		client:   client,
		cache:    store,
		search:   search,
		trends:   trends.NewAnalyzer(search, log),
		log:      log,
		validate: validator.New(),
	}
}

// validateArgs rejects malformed tool arguments before any I/O happens.
func (a *App) validateArgs(args any) error {
	if err := a.validate.Struct(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// Cache-through accessors for the upstream datasets. Keys and TTLs are
// fixed policy; see internal/cache/ttl.go.

func (a *App) bootstrap(ctx context.Context) (fplapi.Bootstrap, error) {
	return cache.Through(ctx, a.cache, "bootstrap", cache.TTLBootstrap, a.client.Bootstrap)
}

func (a *App) allFixtures(ctx context.Context) ([]fplapi.Fixture, error) {
	return cache.Through(ctx, a.cache, "fixtures", cache.TTLFixtures, a.client.Fixtures)
}

func (a *App) gameweekFixtures(ctx context.Context, gw int) ([]fplapi.Fixture, error) {
	key := fmt.Sprintf("fixtures:gw:%d", gw)
	return cache.Through(ctx, a.cache, key, cache.TTLFixtures, func(ctx context.Context) ([]fplapi.Fixture, error) {
		return a.client.FixturesForGameweek(ctx, gw)
	})
}

func (a *App) picks(ctx context.Context, managerID, gw int) (fplapi.PicksResponse, error) {
	key := fmt.Sprintf("picks:%d:gw:%d", managerID, gw)
	return cache.Through(ctx, a.cache, key, cache.TTLPicks, func(ctx context.Context) (fplapi.PicksResponse, error) {
		return a.client.Picks(ctx, managerID, gw)
	})
}

func (a *App) myTeam(ctx context.Context, managerID int) (fplapi.MyTeam, error) {
	key := fmt.Sprintf("myteam:%d", managerID)
	return cache.Through(ctx, a.cache, key, cache.TTLMyTeam, func(ctx context.Context) (fplapi.MyTeam, error) {
		return a.client.MyTeam(ctx, managerID)
	})
}

func (a *App) history(ctx context.Context, managerID int) (fplapi.History, error) {
	key := fmt.Sprintf("history:%d", managerID)
	return cache.Through(ctx, a.cache, key, cache.TTLManager, func(ctx context.Context) (fplapi.History, error) {
		return a.client.History(ctx, managerID)
	})
}

// resolveManagerID picks the manager from call arguments, falling back to
// the configured default. Zero from both is a guidance error, not a 404.
func (a *App) resolveManagerID(argID int) (int, error) {
	if argID > 0 {
		return argID, nil
	}
	if a.cfg.ManagerID > 0 {
		return a.cfg.ManagerID, nil
	}
	return 0, fmt.Errorf("no manager id: pass manager_id or set FPL_MANAGER_ID in the environment")
}

// currentGameweek resolves the working gameweek from the cached catalog.
func (a *App) currentGameweek(ctx context.Context) (int, error) {
	boot, err := a.bootstrap(ctx)
	if err != nil {
		return 0, err
	}
	event, err := fplapi.CurrentGameweek(boot.Events)
	if err != nil {
		return 0, err
	}
	return event.ID, nil
}
