package main

import (
	"context"
	"sort"

	"github.com/vongohren/fpl-ai-assist/internal/fplapi"
)

const (
	defaultSuggestionLimit = 5
	maxSuggestionLimit     = 10

	// How many of the best-EP alternatives to weigh per position.
	alternativesPerPosition = 3

	// An incoming player must beat the outgoing one by more than this
	// many expected points to be worth a transfer hit.
	minEPImprovement = 0.5

	maxPlayersPerClub = 3
)

// TransferSuggestionsArgs is the input schema for the suggest_transfers
// tool.
type TransferSuggestionsArgs struct {
	ManagerID int `json:"manager_id,omitempty" jsonschema:"FPL manager (entry) id; 0 uses the configured default"`
	Max       int `json:"max,omitempty" jsonschema:"Max suggestions (default 5, capped at 10)" validate:"omitempty,min=1"`
}

// TransferSuggestion is one out-for-in swap.
type TransferSuggestion struct {
	Out           string  `json:"out"`
	OutID         int     `json:"out_id"`
	OutTeam       string  `json:"out_team"`
	In            string  `json:"in"`
	InID          int     `json:"in_id"`
	InTeam        string  `json:"in_team"`
	Position      string  `json:"position"`
	CostChange    float64 `json:"cost_change"`
	EPImprovement float64 `json:"ep_improvement"`
	Feasible      bool    `json:"feasible"`
}

// TransferSuggestionsResult is the output of the suggest_transfers tool.
type TransferSuggestionsResult struct {
	ManagerID   int                  `json:"manager_id"`
	Gameweek    int                  `json:"gameweek"`
	Bank        float64              `json:"bank"`
	DataSource  string               `json:"data_source"`
	Warning     string               `json:"warning,omitempty"`
	Suggestions []TransferSuggestion `json:"suggestions"`
}

// buildTransferSuggestions reuses the enriched squad view, takes the bank
// from the manager's history, and scans the catalog for upgrades on the
// weakest pick in each position.
func (a *App) buildTransferSuggestions(ctx context.Context, args TransferSuggestionsArgs) (*TransferSuggestionsResult, error) {
	if err := a.validateArgs(args); err != nil {
		return nil, err
	}

	squad, err := a.buildSquad(ctx, SquadArgs{ManagerID: args.ManagerID})
	if err != nil {
		return nil, err
	}

	history, err := a.history(ctx, squad.ManagerID)
	if err != nil {
		return nil, err
	}
	bank := 0.0
	if n := len(history.Current); n > 0 {
		bank = float64(history.Current[n-1].Bank) / 10.0
	}

	boot, err := a.bootstrap(ctx)
	if err != nil {
		return nil, err
	}

	limit := args.Max
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	if limit > maxSuggestionLimit {
		limit = maxSuggestionLimit
	}

	return &TransferSuggestionsResult{
		ManagerID:  squad.ManagerID,
		Gameweek:   squad.Gameweek,
		Bank:       bank,
		DataSource: squad.DataSource,
		Warning:    squad.Warning,
		Suggestions: suggestTransfers(squad.Squad, boot.Players,
			fplapi.TeamsByID(boot.Teams), squad.ClubCounts, bank, limit),
	}, nil
}

// suggestTransfers finds, for each position, the squad pick with the lowest
// expected points and the available catalog players who outscore it within
// budget (selling price plus bank). A move to a new club is dropped when it
// would put a fourth player at that club; a same-club swap never can.
// Feasible moves (cost change within the bank) rank first, then bigger
// expected-point gains.
func suggestTransfers(squad []SquadPlayer, catalog []fplapi.Player, teams map[int]fplapi.Team, clubCounts map[string]int, bank float64, limit int) []TransferSuggestion {
	inSquad := make(map[int]bool, len(squad))
	byPosition := make(map[string][]SquadPlayer)
	for _, sp := range squad {
		inSquad[sp.ID] = true
		byPosition[sp.Position] = append(byPosition[sp.Position], sp)
	}

	suggestions := []TransferSuggestion{}
	for _, position := range []string{"GKP", "DEF", "MID", "FWD"} {
		group := byPosition[position]
		if len(group) == 0 {
			continue
		}

		weakest := group[0]
		for _, sp := range group[1:] {
			if sp.EPNext < weakest.EPNext {
				weakest = sp
			}
		}

		budget := weakest.SellingPrice + bank
		elementType := fplapi.PositionCode(position)
		alternatives := make([]fplapi.Player, 0, 16)
		for _, p := range catalog {
			if p.ElementType != elementType || inSquad[p.ID] || p.Status != "a" {
				continue
			}
			if p.Price() > budget {
				continue
			}
			alternatives = append(alternatives, p)
		}
		sort.SliceStable(alternatives, func(i, j int) bool {
			return fplapi.ParseDecimal(alternatives[i].EPNext) > fplapi.ParseDecimal(alternatives[j].EPNext)
		})
		if len(alternatives) > alternativesPerPosition {
			alternatives = alternatives[:alternativesPerPosition]
		}

		for _, alt := range alternatives {
			club := teams[alt.Team].ShortName
			if club != weakest.Team && clubCounts[club]+1 > maxPlayersPerClub {
				continue
			}
			epGain := fplapi.ParseDecimal(alt.EPNext) - weakest.EPNext
			if epGain <= minEPImprovement {
				continue
			}
			costChange := alt.Price() - weakest.SellingPrice
			suggestions = append(suggestions, TransferSuggestion{
				Out:           weakest.Name,
				OutID:         weakest.ID,
				OutTeam:       weakest.Team,
				In:            alt.WebName,
				InID:          alt.ID,
				InTeam:        club,
				Position:      position,
				CostChange:    costChange,
				EPImprovement: epGain,
				Feasible:      costChange <= bank,
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Feasible != suggestions[j].Feasible {
			return suggestions[i].Feasible
		}
		return suggestions[i].EPImprovement > suggestions[j].EPImprovement
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}
