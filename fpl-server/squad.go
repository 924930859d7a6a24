package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/vongohren/fpl-ai-assist/internal/fplapi"
)

// Data-source tags for the squad result.
const (
	sourceAuthenticated = "authenticated"
	sourcePublicPicks   = "public_picks_fallback"
)

// staleDataWarning must survive truncation in a chat UI and be reproduced
// verbatim by consumers, never summarized.
const staleDataWarning = "⚠️ STALE DATA: showing the last confirmed picks from gameweek %d via the public endpoint. Transfers, chip activation and any changes saved since that deadline are NOT reflected. Set FPL_COOKIE or FPL_X_API_AUTH for live squad data."

// SquadArgs is the input schema for the get_my_squad tool.
type SquadArgs struct {
	ManagerID int `json:"manager_id" jsonschema:"FPL manager (entry) id; 0 uses the configured default"`
}

// SquadPlayer is one denormalized pick.
type SquadPlayer struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	FullName      string  `json:"full_name"`
	Team          string  `json:"team"`
	Position      string  `json:"position"`
	Slot          int     `json:"slot"`
	Price         float64 `json:"price"`
	SellingPrice  float64 `json:"selling_price"`
	Status        string  `json:"status"`
	Form          float64 `json:"form"`
	EPNext        float64 `json:"ep_next"`
	Minutes       int     `json:"minutes"`
	IsCaptain     bool    `json:"is_captain"`
	IsViceCaptain bool    `json:"is_vice_captain"`
	Multiplier    int     `json:"multiplier"`
	IsStarting    bool    `json:"is_starting"`
	BenchOrder    int     `json:"bench_order,omitempty"`
	NextFixture   string  `json:"next_fixture,omitempty"`
}

// SquadResult is the output of the get_my_squad tool.
type SquadResult struct {
	ManagerID   int            `json:"manager_id"`
	Gameweek    int            `json:"gameweek"`
	DataSource  string         `json:"data_source"`
	Warning     string         `json:"warning,omitempty"`
	ActiveChip  string         `json:"active_chip,omitempty"`
	Captain     string         `json:"captain,omitempty"`
	ViceCaptain string         `json:"vice_captain,omitempty"`
	TotalValue  float64        `json:"total_value"`
	ClubCounts  map[string]int `json:"club_counts"`
	Squad       []SquadPlayer  `json:"squad"`
}

// squadSource is the tagged outcome of the two-branch fetch: either the
// authenticated team state or the public-picks fallback with its warning.
type squadSource struct {
	picks   []fplapi.Pick
	source  string
	warning string
	chip    string
}

// fetchSquadPicks tries the authenticated my-team resource and falls back
// to public picks on any failure. With no credentials configured the
// authenticated path is never attempted at all.
func (a *App) fetchSquadPicks(ctx context.Context, managerID, gw int) (squadSource, error) {
	if a.client.HasCredentials() {
		team, err := a.myTeam(ctx, managerID)
		if err == nil {
			return squadSource{picks: team.Picks, source: sourceAuthenticated}, nil
		}
		a.log.Warn("authenticated squad fetch failed, falling back to public picks",
			"manager_id", managerID, "err", err)
	}

	picks, err := a.picks(ctx, managerID, gw)
	if err != nil {
		return squadSource{}, err
	}
	src := squadSource{
		picks:   picks.Picks,
		source:  sourcePublicPicks,
		warning: fmt.Sprintf(staleDataWarning, gw),
	}
	if picks.ActiveChip != nil {
		src.chip = *picks.ActiveChip
	}
	return src, nil
}

// buildSquad produces the denormalized squad view for a manager.
func (a *App) buildSquad(ctx context.Context, args SquadArgs) (*SquadResult, error) {
	managerID, err := a.resolveManagerID(args.ManagerID)
	if err != nil {
		return nil, err
	}

	boot, err := a.bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	gwEvent, err := fplapi.CurrentGameweek(boot.Events)
	if err != nil {
		return nil, err
	}
	gw := gwEvent.ID

	src, err := a.fetchSquadPicks(ctx, managerID, gw)
	if err != nil {
		return nil, err
	}

	fixtures, err := a.gameweekFixtures(ctx, gw)
	if err != nil {
		return nil, err
	}

	players := fplapi.PlayersByID(boot.Players)
	teams := fplapi.TeamsByID(boot.Teams)

	result := &SquadResult{
		ManagerID:  managerID,
		Gameweek:   gw,
		DataSource: src.source,
		Warning:    src.warning,
		ActiveChip: src.chip,
		ClubCounts: make(map[string]int),
		Squad:      make([]SquadPlayer, 0, len(src.picks)),
	}

	for _, pick := range src.picks {
		player, ok := players[pick.Element]
		if !ok {
			a.log.Warn("pick references unknown player", "element", pick.Element)
			continue
		}
		team := teams[player.Team]

		sp := buildSquadPlayer(pick, player, team)
		sp.NextFixture = nextFixtureLabel(fixtures, player.Team, teams)

		result.ClubCounts[team.ShortName]++
		result.TotalValue += sp.Price
		if pick.IsCaptain {
			result.Captain = player.WebName
		}
		if pick.IsViceCaptain {
			result.ViceCaptain = player.WebName
		}
		result.Squad = append(result.Squad, sp)
	}

	sort.Slice(result.Squad, func(i, j int) bool {
		return result.Squad[i].Slot < result.Squad[j].Slot
	})
	return result, nil
}

// buildSquadPlayer joins one pick to its catalog records. Starters are
// exactly the picks with a positive multiplier; bench order counts up from
// slot 12 (slot - 11) because the 11 starters occupy the first slots.
func buildSquadPlayer(pick fplapi.Pick, player fplapi.Player, team fplapi.Team) SquadPlayer {
	sp := SquadPlayer{
		ID:            player.ID,
		Name:          player.WebName,
		FullName:      player.FullName(),
		Team:          team.ShortName,
		Position:      fplapi.PositionName(player.ElementType),
		Slot:          pick.Position,
		Price:         player.Price(),
		SellingPrice:  player.Price(),
		Status:        player.Status,
		Form:          fplapi.ParseDecimal(player.Form),
		EPNext:        fplapi.ParseDecimal(player.EPNext),
		Minutes:       player.Minutes,
		IsCaptain:     pick.IsCaptain,
		IsViceCaptain: pick.IsViceCaptain,
		Multiplier:    pick.Multiplier,
		IsStarting:    pick.Multiplier > 0,
	}
	if pick.SellingPrice != nil {
		sp.SellingPrice = float64(*pick.SellingPrice) / 10.0
	}
	if !sp.IsStarting {
		sp.BenchOrder = pick.Position - 11
	}
	return sp
}

// nextFixtureLabel renders "LIV (H, 4)" style labels for a team's fixtures
// in the working gameweek; doubles join with ", ", blanks are empty.
func nextFixtureLabel(fixtures []fplapi.Fixture, teamID int, teams map[int]fplapi.Team) string {
	label := ""
	for _, f := range fixtures {
		var opp fplapi.Team
		var venue string
		var difficulty int
		switch teamID {
		case f.TeamH:
			opp, venue, difficulty = teams[f.TeamA], "H", f.TeamHDifficulty
		case f.TeamA:
			opp, venue, difficulty = teams[f.TeamH], "A", f.TeamADifficulty
		default:
			continue
		}
		if label != "" {
			label += ", "
		}
		label += fmt.Sprintf("%s (%s, %d)", opp.ShortName, venue, difficulty)
	}
	return label
}
