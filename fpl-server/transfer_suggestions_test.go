package main

import (
	"context"
	"testing"

	"github.com/vongohren/fpl-ai-assist/internal/fplapi"
)

var suggestionTeams = map[int]fplapi.Team{
	1: {ID: 1, Name: "Arsenal", ShortName: "ARS"},
	2: {ID: 2, Name: "Chelsea", ShortName: "CHE"},
	3: {ID: 3, Name: "Liverpool", ShortName: "LIV"},
}

func squadPick(id int, name, team, position string, ep, selling float64) SquadPlayer {
	return SquadPlayer{ID: id, Name: name, Team: team, Position: position, EPNext: ep, SellingPrice: selling}
}

func catalogPlayer(id int, name string, team, elementType, nowCost int, epNext string) fplapi.Player {
	return fplapi.Player{
		ID: id, WebName: name, SecondName: name,
		Team: team, ElementType: elementType, NowCost: nowCost,
		Status: "a", EPNext: epNext,
	}
}

func TestSuggestTransfers_TargetsWeakestInPosition(t *testing.T) {
	squad := []SquadPlayer{
		squadPick(1, "Cheap", "ARS", "FWD", 3.0, 6.0),
		squadPick(2, "Star", "LIV", "FWD", 7.0, 12.0),
	}
	catalog := []fplapi.Player{
		catalogPlayer(10, "Upgrade", 2, fplapi.PositionForward, 65, "5.0"),
	}
	counts := map[string]int{"ARS": 1, "LIV": 1}

	got := suggestTransfers(squad, catalog, suggestionTeams, counts, 1.0, 5)

	if len(got) != 1 {
		t.Fatalf("want 1 suggestion, got %d", len(got))
	}
	s := got[0]
	if s.Out != "Cheap" {
		t.Errorf("out: want the weakest forward Cheap, got %q", s.Out)
	}
	if s.In != "Upgrade" || s.InTeam != "CHE" || s.Position != "FWD" {
		t.Errorf("in: want Upgrade/CHE/FWD, got %s/%s/%s", s.In, s.InTeam, s.Position)
	}
	if s.CostChange != 0.5 {
		t.Errorf("cost change: want 0.5, got %v", s.CostChange)
	}
	if s.EPImprovement != 2.0 {
		t.Errorf("ep improvement: want 2.0, got %v", s.EPImprovement)
	}
	if !s.Feasible {
		t.Error("a move within the bank must be feasible")
	}
}

func TestSuggestTransfers_BudgetBoundsAlternatives(t *testing.T) {
	squad := []SquadPlayer{squadPick(1, "Cheap", "ARS", "FWD", 3.0, 6.0)}
	catalog := []fplapi.Player{
		// 7.2m against a 6.0 sale plus 1.0 in the bank.
		catalogPlayer(10, "TooDear", 2, fplapi.PositionForward, 72, "9.0"),
	}

	got := suggestTransfers(squad, catalog, suggestionTeams, map[string]int{}, 1.0, 5)
	if len(got) != 0 {
		t.Fatalf("unaffordable player suggested: %+v", got)
	}
}

func TestSuggestTransfers_ClubRule(t *testing.T) {
	catalog := []fplapi.Player{
		catalogPlayer(10, "FourthRed", 3, fplapi.PositionForward, 60, "6.0"),
	}
	counts := map[string]int{"LIV": 3, "ARS": 1}

	// Bringing a fourth Liverpool player in for an Arsenal one is blocked.
	squad := []SquadPlayer{squadPick(1, "Cheap", "ARS", "FWD", 3.0, 6.0)}
	if got := suggestTransfers(squad, catalog, suggestionTeams, counts, 1.0, 5); len(got) != 0 {
		t.Fatalf("fourth player at one club suggested: %+v", got)
	}

	// A like-for-like swap inside the club keeps the count at 3.
	squad = []SquadPlayer{squadPick(1, "Cheap", "LIV", "FWD", 3.0, 6.0)}
	got := suggestTransfers(squad, catalog, suggestionTeams, counts, 1.0, 5)
	if len(got) != 1 || got[0].In != "FourthRed" {
		t.Fatalf("same-club swap should pass, got %+v", got)
	}
}

func TestSuggestTransfers_ImprovementThreshold(t *testing.T) {
	squad := []SquadPlayer{squadPick(1, "Cheap", "ARS", "FWD", 3.0, 6.0)}
	catalog := []fplapi.Player{
		catalogPlayer(10, "Marginal", 2, fplapi.PositionForward, 60, "3.5"),
		catalogPlayer(11, "Worthwhile", 2, fplapi.PositionForward, 60, "3.6"),
	}

	got := suggestTransfers(squad, catalog, suggestionTeams, map[string]int{}, 1.0, 5)
	if len(got) != 1 {
		t.Fatalf("want only the >0.5 gain, got %d suggestions", len(got))
	}
	if got[0].In != "Worthwhile" {
		t.Errorf("want Worthwhile, got %q", got[0].In)
	}
}

func TestSuggestTransfers_SkipsUnavailableAndOwned(t *testing.T) {
	squad := []SquadPlayer{
		squadPick(1, "Cheap", "ARS", "FWD", 3.0, 6.0),
		squadPick(2, "Owned", "CHE", "FWD", 6.0, 7.0),
	}
	injured := catalogPlayer(10, "Crocked", 2, fplapi.PositionForward, 60, "9.0")
	injured.Status = "i"
	owned := catalogPlayer(2, "Owned", 2, fplapi.PositionForward, 60, "9.0")
	catalog := []fplapi.Player{injured, owned}

	if got := suggestTransfers(squad, catalog, suggestionTeams, map[string]int{}, 1.0, 5); len(got) != 0 {
		t.Fatalf("unavailable or already-owned player suggested: %+v", got)
	}
}

func TestSuggestTransfers_RankedByGainAndCapped(t *testing.T) {
	squad := []SquadPlayer{
		squadPick(1, "WeakFwd", "ARS", "FWD", 3.0, 6.0),
		squadPick(2, "WeakMid", "ARS", "MID", 2.0, 6.0),
	}
	catalog := []fplapi.Player{
		catalogPlayer(10, "GoodFwd", 2, fplapi.PositionForward, 60, "5.0"),
		catalogPlayer(11, "GreatMid", 2, fplapi.PositionMidfielder, 60, "8.0"),
	}

	got := suggestTransfers(squad, catalog, suggestionTeams, map[string]int{}, 1.0, 5)
	if len(got) != 2 {
		t.Fatalf("want 2 suggestions, got %d", len(got))
	}
	if got[0].In != "GreatMid" || got[1].In != "GoodFwd" {
		t.Errorf("want the bigger gain first, got %s then %s", got[0].In, got[1].In)
	}

	capped := suggestTransfers(squad, catalog, suggestionTeams, map[string]int{}, 1.0, 1)
	if len(capped) != 1 || capped[0].In != "GreatMid" {
		t.Errorf("cap should keep the best suggestion, got %+v", capped)
	}
}

func TestBuildTransferSuggestions_EndToEnd(t *testing.T) {
	up := newFakeUpstream(t)
	// A cheap high-EP forward at the weakest forward's own club, so the
	// swap clears both the budget and the club rule.
	up.boot.Players = append(up.boot.Players, fplapi.Player{
		ID: 31, WebName: "Bargain", SecondName: "Bargain",
		Team: 4, ElementType: fplapi.PositionForward, NowCost: 43,
		Status: "a", EPNext: "6.0", Form: "5.0", SelectedBy: "1.0",
	})
	app := newTestApp(t, up, "")

	result, err := app.buildTransferSuggestions(context.Background(), TransferSuggestionsArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ManagerID != 42 || result.Gameweek != 2 {
		t.Errorf("manager/gameweek: want 42/2, got %d/%d", result.ManagerID, result.Gameweek)
	}
	if result.DataSource != sourcePublicPicks || result.Warning == "" {
		t.Errorf("squad provenance should carry through: %s / %q", result.DataSource, result.Warning)
	}
	if result.Bank != 0 {
		t.Errorf("bank with no history: want 0, got %v", result.Bank)
	}

	if len(result.Suggestions) != 1 {
		t.Fatalf("want exactly the Bargain swap, got %d suggestions", len(result.Suggestions))
	}
	s := result.Suggestions[0]
	if s.Out != "Player04" || s.In != "Bargain" || s.Position != "FWD" || s.InTeam != "MCI" {
		t.Errorf("want Player04 out for Bargain (FWD, MCI), got %+v", s)
	}
	if s.CostChange >= 0 {
		t.Errorf("cost change should be negative for a cheaper player, got %v", s.CostChange)
	}
	if !s.Feasible {
		t.Error("a cheaper swap must be feasible")
	}
}

func TestBuildTransferSuggestions_OversizedMaxIsClamped(t *testing.T) {
	up := newFakeUpstream(t)
	app := newTestApp(t, up, "")

	result, err := app.buildTransferSuggestions(context.Background(), TransferSuggestionsArgs{Max: 50})
	if err != nil {
		t.Fatalf("oversized max should clamp, not fail: %v", err)
	}
	if len(result.Suggestions) > maxSuggestionLimit {
		t.Errorf("suggestions exceed the cap: %d", len(result.Suggestions))
	}

	if _, err := app.buildTransferSuggestions(context.Background(), TransferSuggestionsArgs{Max: -1}); err == nil {
		t.Fatal("expected validation error for a negative max")
	}
}
