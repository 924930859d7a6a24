package main

import (
	"context"
	"strings"
	"testing"

	"github.com/vongohren/fpl-ai-assist/internal/fplapi"
)

var difficultyTeams = map[int]fplapi.Team{
	1: {ID: 1, Name: "Arsenal", ShortName: "ARS"},
	2: {ID: 2, Name: "Chelsea", ShortName: "CHE"},
	3: {ID: 3, Name: "Liverpool", ShortName: "LIV"},
}

func TestAnalyzeTeamWindow_BlanksAndAverage(t *testing.T) {
	// Arsenal play at home in GW 1, 3 and 5, all rated 2; GW 2 and 4 are
	// blank. The average runs over the three legs only.
	fixtures := []fplapi.Fixture{
		{Event: intPtr(1), TeamH: 1, TeamA: 2, TeamHDifficulty: 2, TeamADifficulty: 4},
		{Event: intPtr(3), TeamH: 1, TeamA: 3, TeamHDifficulty: 2, TeamADifficulty: 3},
		{Event: intPtr(5), TeamH: 1, TeamA: 2, TeamHDifficulty: 2, TeamADifficulty: 5},
	}

	w := analyzeTeamWindow(fixtures, difficultyTeams, 1, 1, 5)

	if w.Average != 2.0 {
		t.Errorf("average: want 2.0, got %v", w.Average)
	}
	if len(w.Blanks) != 2 || w.Blanks[0] != 2 || w.Blanks[1] != 4 {
		t.Errorf("blanks: want [2 4], got %v", w.Blanks)
	}
	if len(w.Doubles) != 0 {
		t.Errorf("doubles: want none, got %v", w.Doubles)
	}
	if w.Legs != 3 {
		t.Errorf("legs: want 3, got %d", w.Legs)
	}
	if w.Buckets.Easy != 3 || w.Buckets.Medium != 0 || w.Buckets.Hard != 0 {
		t.Errorf("buckets: want 3 easy, got %+v", w.Buckets)
	}
	if len(w.Gameweeks) != 5 {
		t.Fatalf("want an entry per gameweek in the window, got %d", len(w.Gameweeks))
	}
	wantStatus := []string{"single", "blank", "single", "blank", "single"}
	for i, gw := range w.Gameweeks {
		if gw.Status != wantStatus[i] {
			t.Errorf("GW%d: status %q, want %q", gw.Gameweek, gw.Status, wantStatus[i])
		}
	}
}

func TestAnalyzeTeamWindow_DoubleCountsEachLeg(t *testing.T) {
	fixtures := []fplapi.Fixture{
		{Event: intPtr(7), TeamH: 1, TeamA: 2, TeamHDifficulty: 2, TeamADifficulty: 4},
		{Event: intPtr(7), TeamH: 3, TeamA: 1, TeamHDifficulty: 3, TeamADifficulty: 4},
	}

	w := analyzeTeamWindow(fixtures, difficultyTeams, 1, 7, 1)

	if w.Legs != 2 {
		t.Fatalf("legs: want 2, got %d", w.Legs)
	}
	if w.Average != 3.0 {
		t.Errorf("average of a 2 and a 4: want 3.0, got %v", w.Average)
	}
	if len(w.Doubles) != 1 || w.Doubles[0] != 7 {
		t.Errorf("doubles: want [7], got %v", w.Doubles)
	}
	if w.Gameweeks[0].Status != "double" {
		t.Errorf("status: want double, got %q", w.Gameweeks[0].Status)
	}
	away := w.Gameweeks[0].Legs[1]
	if away.Home || away.Opponent != "LIV" || away.Difficulty != 4 {
		t.Errorf("away leg: want LIV (A, 4), got %+v", away)
	}
}

func TestAnalyzeTeamWindow_NoFixtures(t *testing.T) {
	w := analyzeTeamWindow(nil, difficultyTeams, 1, 10, 3)
	if w.Legs != 0 {
		t.Fatalf("legs: want 0, got %d", w.Legs)
	}
	if w.Average != 0 {
		t.Errorf("average with zero legs: want 0, got %v", w.Average)
	}
	if len(w.Blanks) != 3 {
		t.Errorf("every gameweek should be blank, got %v", w.Blanks)
	}
}

func TestRankTeamWindows_SentinelAndTieBreak(t *testing.T) {
	teams := []fplapi.Team{
		{ID: 1, Name: "Arsenal", ShortName: "ARS"},
		{ID: 2, Name: "Chelsea", ShortName: "CHE"},
		{ID: 3, Name: "Liverpool", ShortName: "LIV"},
	}
	// One fixture rated 3 for both sides; Liverpool never play.
	fixtures := []fplapi.Fixture{
		{Event: intPtr(1), TeamH: 1, TeamA: 2, TeamHDifficulty: 3, TeamADifficulty: 3},
	}

	rows := rankTeamWindows(teams, fixtures, 1, 1)

	if len(rows) != 3 {
		t.Fatalf("want a row per team, got %d", len(rows))
	}
	// Tied on 3.0, the lower team id comes first.
	if rows[0].TeamID != 1 || rows[1].TeamID != 2 {
		t.Errorf("tie-break order: want teams 1,2, got %d,%d", rows[0].TeamID, rows[1].TeamID)
	}
	last := rows[2]
	if last.TeamID != 3 {
		t.Fatalf("fixture-less team should rank last, got team %d", last.TeamID)
	}
	if last.Average != rankSentinelDifficulty {
		t.Errorf("sentinel average: want %v, got %v", rankSentinelDifficulty, last.Average)
	}
	if last.Legs != 0 {
		t.Errorf("legs: want 0, got %d", last.Legs)
	}
}

func TestBuildFixtureDifficulty_EndToEnd(t *testing.T) {
	up := newFakeUpstream(t)
	app := newTestApp(t, up, "")

	result, err := app.buildFixtureDifficulty(context.Background(), FixtureDifficultyArgs{
		Team:    "ARS",
		Horizon: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TeamShort != "ARS" || result.Team != "Arsenal" {
		t.Errorf("team: want Arsenal/ARS, got %s/%s", result.Team, result.TeamShort)
	}
	if result.StartGameweek != 2 {
		t.Errorf("window should start at the current gameweek, got %d", result.StartGameweek)
	}
	// GW2 home vs CHE rated 2, GW3 away at MCI rated 4.
	if result.AverageDifficulty != 3.0 {
		t.Errorf("average: want 3.0, got %v", result.AverageDifficulty)
	}
	if result.TeamsRanked != 4 {
		t.Errorf("teams ranked: want 4, got %d", result.TeamsRanked)
	}
	if result.Rank < 1 || result.Rank > 4 {
		t.Errorf("rank out of range: %d", result.Rank)
	}
	if !strings.Contains(result.Verdict, "ranked") {
		t.Errorf("verdict missing rank clause: %q", result.Verdict)
	}
}

func TestBuildFixtureDifficulty_FuzzyTeamName(t *testing.T) {
	up := newFakeUpstream(t)
	app := newTestApp(t, up, "")

	result, err := app.buildFixtureDifficulty(context.Background(), FixtureDifficultyArgs{Team: "Arsnal"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TeamShort != "ARS" {
		t.Errorf("misspelled name should resolve to ARS, got %s", result.TeamShort)
	}
}

func TestBuildFixtureDifficulty_RequiresTeam(t *testing.T) {
	up := newFakeUpstream(t)
	app := newTestApp(t, up, "")

	if _, err := app.buildFixtureDifficulty(context.Background(), FixtureDifficultyArgs{}); err == nil {
		t.Fatal("expected validation error for missing team")
	}
}

func TestBuildVerdictTiers(t *testing.T) {
	w := windowOutlook{Legs: 4, Average: 1.75, Buckets: DifficultyBuckets{Easy: 4}}
	got := buildVerdict(w, 1, 20)
	want := "Best-in-class fixture run: mostly easy fixtures; ranked 1st of 20 for fixture ease."
	if got != want {
		t.Errorf("verdict:\nwant %q\ngot  %q", want, got)
	}

	w = windowOutlook{Legs: 5, Average: 3.8, Buckets: DifficultyBuckets{Medium: 1, Hard: 4}, Blanks: []int{29}, Doubles: []int{31}}
	got = buildVerdict(w, 18, 20)
	if !strings.HasPrefix(got, "Worst kind of fixture run: mostly hard fixtures, blank in GW29, double in GW31") {
		t.Errorf("hard-run verdict wrong: %q", got)
	}
	if !strings.HasSuffix(got, "ranked 18th of 20 for fixture ease.") {
		t.Errorf("rank clause wrong: %q", got)
	}

	if got := buildVerdict(windowOutlook{}, 20, 20); !strings.HasPrefix(got, "No fixtures in this window") {
		t.Errorf("zero-leg verdict wrong: %q", got)
	}
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 102: "102nd", 111: "111th"}
	for n, want := range cases {
		if got := ordinal(n); got != want {
			t.Errorf("ordinal(%d): want %s, got %s", n, want, got)
		}
	}
}
