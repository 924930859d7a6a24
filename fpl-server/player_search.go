package main

import (
	"context"
	"sort"
	"strings"

	"github.com/vongohren/fpl-ai-assist/internal/fplapi"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 20

	// How many gameweeks ahead to scan when enriching results with
	// upcoming fixtures.
	searchFixtureLookahead = 10
	searchFixtureCount     = 3
)

// SearchPlayersArgs is the input schema for the search_players tool.
type SearchPlayersArgs struct {
	Name       string  `json:"name,omitempty" jsonschema:"Name fragment (case-insensitive substring)"`
	Position   string  `json:"position,omitempty" jsonschema:"Position filter: GKP, DEF, MID or FWD" validate:"omitempty,oneof=GKP GK DEF MID FWD"`
	Team       string  `json:"team,omitempty" jsonschema:"Team filter (name, short code or id)"`
	MinPrice   float64 `json:"min_price,omitempty" jsonschema:"Minimum price in millions" validate:"omitempty,min=0"`
	MaxPrice   float64 `json:"max_price,omitempty" jsonschema:"Maximum price in millions" validate:"omitempty,min=0"`
	MinForm    float64 `json:"min_form,omitempty" jsonschema:"Minimum form" validate:"omitempty,min=0"`
	MinMinutes int     `json:"min_minutes,omitempty" jsonschema:"Minimum minutes played" validate:"omitempty,min=0"`
	SortBy     string  `json:"sort_by,omitempty" jsonschema:"Sort key: form, points, price, selected, minutes or ep_next (default points)" validate:"omitempty,oneof=form points price selected minutes ep_next"`
	Limit      int     `json:"limit,omitempty" jsonschema:"Max results (default 10, capped at 20)" validate:"omitempty,min=1"`
}

// UpcomingFixture is one future match for a result row.
type UpcomingFixture struct {
	Gameweek   int    `json:"gameweek"`
	Opponent   string `json:"opponent"`
	Home       bool   `json:"home"`
	Difficulty int    `json:"difficulty"`
}

// SearchPlayerRow is one search result.
type SearchPlayerRow struct {
	ID           int               `json:"id"`
	Name         string            `json:"name"`
	FullName     string            `json:"full_name"`
	Team         string            `json:"team"`
	Position     string            `json:"position"`
	Price        float64           `json:"price"`
	Form         float64           `json:"form"`
	EPNext       float64           `json:"ep_next"`
	TotalPoints  int               `json:"total_points"`
	Minutes      int               `json:"minutes"`
	SelectedBy   float64           `json:"selected_by_percent"`
	Status       string            `json:"status"`
	NextFixtures []UpcomingFixture `json:"next_fixtures,omitempty"`
}

// SearchPlayersResult is the output of the search_players tool.
type SearchPlayersResult struct {
	Count   int               `json:"count"`
	SortBy  string            `json:"sort_by"`
	Players []SearchPlayerRow `json:"players"`
}

func (a *App) buildPlayerSearch(ctx context.Context, args SearchPlayersArgs) (*SearchPlayersResult, error) {
	if err := a.validateArgs(args); err != nil {
		return nil, err
	}

	boot, err := a.bootstrap(ctx)
	if err != nil {
		return nil, err
	}

	var teamFilter *fplapi.Team
	if args.Team != "" {
		team, err := resolveTeam(boot.Teams, args.Team)
		if err != nil {
			return nil, err
		}
		teamFilter = &team
	}

	matched := filterPlayers(boot.Players, args, teamFilter)

	sortBy := args.SortBy
	if sortBy == "" {
		sortBy = "points"
	}
	// Stable sort so upstream catalog order breaks ties.
	sort.SliceStable(matched, func(i, j int) bool {
		return sortValue(matched[i], sortBy) > sortValue(matched[j], sortBy)
	})

	limit := args.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}

	currentGW, err := fplapi.CurrentGameweek(boot.Events)
	if err != nil {
		return nil, err
	}
	fixtures, err := a.allFixtures(ctx)
	if err != nil {
		return nil, err
	}
	teams := fplapi.TeamsByID(boot.Teams)

	result := &SearchPlayersResult{SortBy: sortBy, Players: make([]SearchPlayerRow, 0, len(matched))}
	for _, p := range matched {
		result.Players = append(result.Players, SearchPlayerRow{
			ID:           p.ID,
			Name:         p.WebName,
			FullName:     p.FullName(),
			Team:         teams[p.Team].ShortName,
			Position:     fplapi.PositionName(p.ElementType),
			Price:        p.Price(),
			Form:         fplapi.ParseDecimal(p.Form),
			EPNext:       fplapi.ParseDecimal(p.EPNext),
			TotalPoints:  p.TotalPoints,
			Minutes:      p.Minutes,
			SelectedBy:   fplapi.ParseDecimal(p.SelectedBy),
			Status:       p.Status,
			NextFixtures: upcomingFixtures(fixtures, teams, p.Team, currentGW.ID),
		})
	}
	result.Count = len(result.Players)
	return result, nil
}

// filterPlayers applies every filter conjunctively over the catalog.
func filterPlayers(players []fplapi.Player, args SearchPlayersArgs, team *fplapi.Team) []fplapi.Player {
	nameFrag := strings.ToLower(strings.TrimSpace(args.Name))
	position := fplapi.PositionCode(args.Position)

	out := make([]fplapi.Player, 0, 32)
	for _, p := range players {
		if nameFrag != "" && !nameMatches(p, nameFrag) {
			continue
		}
		if position != 0 && p.ElementType != position {
			continue
		}
		if team != nil && p.Team != team.ID {
			continue
		}
		if args.MinPrice > 0 && p.Price() < args.MinPrice {
			continue
		}
		if args.MaxPrice > 0 && p.Price() > args.MaxPrice {
			continue
		}
		if args.MinForm > 0 && fplapi.ParseDecimal(p.Form) < args.MinForm {
			continue
		}
		if args.MinMinutes > 0 && p.Minutes < args.MinMinutes {
			continue
		}
		out = append(out, p)
	}
	return out
}

// nameMatches is a case-insensitive substring match against display, first
// and last name.
func nameMatches(p fplapi.Player, fragment string) bool {
	return strings.Contains(strings.ToLower(p.WebName), fragment) ||
		strings.Contains(strings.ToLower(p.FirstName), fragment) ||
		strings.Contains(strings.ToLower(p.SecondName), fragment)
}

func sortValue(p fplapi.Player, key string) float64 {
	switch key {
	case "form":
		return fplapi.ParseDecimal(p.Form)
	case "price":
		return p.Price()
	case "selected":
		return fplapi.ParseDecimal(p.SelectedBy)
	case "minutes":
		return float64(p.Minutes)
	case "ep_next":
		return fplapi.ParseDecimal(p.EPNext)
	default:
		return float64(p.TotalPoints)
	}
}

// upcomingFixtures scans forward from the current gameweek collecting the
// team's next legs. Gameweeks where the team has no fixture are skipped
// silently in this view.
func upcomingFixtures(fixtures []fplapi.Fixture, teams map[int]fplapi.Team, teamID, fromGW int) []UpcomingFixture {
	out := make([]UpcomingFixture, 0, searchFixtureCount)
	for gw := fromGW; gw < fromGW+searchFixtureLookahead && len(out) < searchFixtureCount; gw++ {
		for _, f := range fixtures {
			if f.Event == nil || *f.Event != gw {
				continue
			}
			switch teamID {
			case f.TeamH:
				out = append(out, UpcomingFixture{Gameweek: gw, Opponent: teams[f.TeamA].ShortName, Home: true, Difficulty: f.TeamHDifficulty})
			case f.TeamA:
				out = append(out, UpcomingFixture{Gameweek: gw, Opponent: teams[f.TeamH].ShortName, Home: false, Difficulty: f.TeamADifficulty})
			}
			if len(out) == searchFixtureCount {
				break
			}
		}
	}
	return out
}
