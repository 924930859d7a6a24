package main

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/vongohren/fpl-ai-assist/internal/cache"
	"github.com/vongohren/fpl-ai-assist/internal/fplapi"
	"github.com/vongohren/fpl-ai-assist/internal/trends"
)

var errPlayerNameRequired = errors.New("player_name is required when topic is 'player'")

// TrendsArgs is the input schema for the get_community_trends tool.
type TrendsArgs struct {
	Topic      string `json:"topic" jsonschema:"One of: transfers, captaincy, differentials, player" validate:"required,oneof=transfers captaincy differentials player"`
	PlayerName string `json:"player_name,omitempty" jsonschema:"Player to scan for (required when topic=player)"`
	Position   string `json:"position,omitempty" jsonschema:"Optional position filter: GKP, DEF, MID or FWD" validate:"omitempty,oneof=GKP DEF MID FWD"`
}

func (a *App) buildCommunityTrends(ctx context.Context, args TrendsArgs) (*trends.Report, error) {
	if err := a.validateArgs(args); err != nil {
		return nil, err
	}
	if args.Topic == trends.TopicPlayer && args.PlayerName == "" {
		return nil, errPlayerNameRequired
	}

	boot, err := a.bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	gw, err := fplapi.CurrentGameweek(boot.Events)
	if err != nil {
		return nil, err
	}

	req := trends.Request{
		Topic:      args.Topic,
		PlayerName: args.PlayerName,
		Position:   args.Position,
		Gameweek:   gw.ID,
	}

	if !a.search.Configured() {
		report := trends.NotConfigured(req)
		return &report, nil
	}

	teams := fplapi.TeamsByID(boot.Teams)
	report, err := cache.Through(ctx, a.cache, trends.CacheKey(req), cache.TTLTrends,
		func(ctx context.Context) (trends.Report, error) {
			return a.trends.Analyze(ctx, req, boot.Players, teams)
		})
	if err != nil {
		return nil, err
	}
	return &report, nil
}
