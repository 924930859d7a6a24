package main

import (
	"context"
	"fmt"

	"github.com/vongohren/fpl-ai-assist/internal/fplapi"
)

// FixturesArgs is the input schema for the get_fixtures tool.
type FixturesArgs struct {
	GW   int    `json:"gw" jsonschema:"Gameweek number (0 = current)"`
	Team string `json:"team,omitempty" jsonschema:"Optional team filter (name, short code or id)"`
}

// FixtureView is one match in a gameweek.
type FixtureView struct {
	Home           string  `json:"home"`
	HomeShort      string  `json:"home_short"`
	Away           string  `json:"away"`
	AwayShort      string  `json:"away_short"`
	HomeDifficulty int     `json:"home_difficulty"`
	AwayDifficulty int     `json:"away_difficulty"`
	HomeScore      *int    `json:"home_score"`
	AwayScore      *int    `json:"away_score"`
	KickoffTime    *string `json:"kickoff_time"`
	Started        bool    `json:"started"`
	Finished       bool    `json:"finished"`
}

// FixturesResult is the output of the get_fixtures tool.
type FixturesResult struct {
	Gameweek int           `json:"gameweek"`
	Team     string        `json:"team,omitempty"`
	Fixtures []FixtureView `json:"fixtures"`
}

func (a *App) buildFixtures(ctx context.Context, args FixturesArgs) (*FixturesResult, error) {
	boot, err := a.bootstrap(ctx)
	if err != nil {
		return nil, err
	}

	gw := args.GW
	if gw <= 0 {
		event, err := fplapi.CurrentGameweek(boot.Events)
		if err != nil {
			return nil, err
		}
		gw = event.ID
	}

	var filter *fplapi.Team
	if args.Team != "" {
		team, err := resolveTeam(boot.Teams, args.Team)
		if err != nil {
			return nil, err
		}
		filter = &team
	}

	fixtures, err := a.gameweekFixtures(ctx, gw)
	if err != nil {
		return nil, err
	}

	teams := fplapi.TeamsByID(boot.Teams)
	result := &FixturesResult{Gameweek: gw, Fixtures: make([]FixtureView, 0, len(fixtures))}
	if filter != nil {
		result.Team = filter.ShortName
	}

	for _, f := range fixtures {
		if filter != nil && f.TeamH != filter.ID && f.TeamA != filter.ID {
			continue
		}
		home, ok := teams[f.TeamH]
		if !ok {
			home = fplapi.Team{Name: fmt.Sprintf("Team %d", f.TeamH), ShortName: "???"}
		}
		away, ok := teams[f.TeamA]
		if !ok {
			away = fplapi.Team{Name: fmt.Sprintf("Team %d", f.TeamA), ShortName: "???"}
		}
		result.Fixtures = append(result.Fixtures, FixtureView{
			Home:           home.Name,
			HomeShort:      home.ShortName,
			Away:           away.Name,
			AwayShort:      away.ShortName,
			HomeDifficulty: f.TeamHDifficulty,
			AwayDifficulty: f.TeamADifficulty,
			HomeScore:      f.TeamHScore,
			AwayScore:      f.TeamAScore,
			KickoffTime:    f.KickoffTime,
			Started:        f.Started,
			Finished:       f.Finished,
		})
	}
	return result, nil
}
