package main

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vongohren/fpl-ai-assist/internal/fplapi"
)

const defaultDifficultyHorizon = 6

// rankSentinelDifficulty stands in for teams with no fixtures at all in
// the window so they rank behind every team that actually plays. One above
// the 1-5 scale ceiling leaves no real average it could tie with.
const rankSentinelDifficulty = 6.0

// FixtureDifficultyArgs is the input schema for get_fixture_difficulty.
type FixtureDifficultyArgs struct {
	Team    string `json:"team" jsonschema:"Team name, short code or id (required)" validate:"required"`
	Horizon int    `json:"horizon,omitempty" jsonschema:"Gameweeks to look ahead (default 6)" validate:"omitempty,min=1,max=15"`
	StartGW int    `json:"start_gw,omitempty" jsonschema:"First gameweek of the window (0 = current)"`
}

// FixtureLeg is one match from the subject team's point of view.
type FixtureLeg struct {
	Opponent   string `json:"opponent"`
	Home       bool   `json:"home"`
	Difficulty int    `json:"difficulty"`
}

// GameweekOutlook classifies one gameweek in the window: blank (no
// fixture), single, or double (two or more legs, first leg primary).
type GameweekOutlook struct {
	Gameweek int          `json:"gameweek"`
	Status   string       `json:"status"`
	Legs     []FixtureLeg `json:"legs,omitempty"`
}

// DifficultyBuckets counts legs by rating band.
type DifficultyBuckets struct {
	Easy   int `json:"easy"`   // rating <= 2
	Medium int `json:"medium"` // rating == 3
	Hard   int `json:"hard"`   // rating >= 4
}

// FixtureDifficultyResult is the output of get_fixture_difficulty.
type FixtureDifficultyResult struct {
	Team              string            `json:"team"`
	TeamShort         string            `json:"team_short"`
	StartGameweek     int               `json:"start_gameweek"`
	Horizon           int               `json:"horizon"`
	Gameweeks         []GameweekOutlook `json:"gameweeks"`
	AverageDifficulty float64           `json:"average_difficulty"`
	BlankGameweeks    []int             `json:"blank_gameweeks"`
	DoubleGameweeks   []int             `json:"double_gameweeks"`
	Buckets           DifficultyBuckets `json:"difficulty_buckets"`
	Rank              int               `json:"rank"`
	TeamsRanked       int               `json:"teams_ranked"`
	BetterThan        []string          `json:"better_than"`
	Verdict           string            `json:"verdict"`
}

func (a *App) buildFixtureDifficulty(ctx context.Context, args FixtureDifficultyArgs) (*FixtureDifficultyResult, error) {
	if err := a.validateArgs(args); err != nil {
		return nil, err
	}

	boot, err := a.bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	team, err := resolveTeam(boot.Teams, args.Team)
	if err != nil {
		return nil, err
	}

	horizon := args.Horizon
	if horizon <= 0 {
		horizon = defaultDifficultyHorizon
	}
	startGW := args.StartGW
	if startGW <= 0 {
		event, err := fplapi.CurrentGameweek(boot.Events)
		if err != nil {
			return nil, err
		}
		startGW = event.ID
	}

	fixtures, err := a.allFixtures(ctx)
	if err != nil {
		return nil, err
	}

	teams := fplapi.TeamsByID(boot.Teams)
	outlook := analyzeTeamWindow(fixtures, teams, team.ID, startGW, horizon)

	ranking := rankTeamWindows(boot.Teams, fixtures, startGW, horizon)
	rank, betterThan := 0, []string{}
	for i, entry := range ranking {
		if entry.TeamID == team.ID {
			rank = i + 1
			for _, worse := range ranking[i+1:] {
				betterThan = append(betterThan, worse.ShortName)
			}
			break
		}
	}

	result := &FixtureDifficultyResult{
		Team:              team.Name,
		TeamShort:         team.ShortName,
		StartGameweek:     startGW,
		Horizon:           horizon,
		Gameweeks:         outlook.Gameweeks,
		AverageDifficulty: outlook.Average,
		BlankGameweeks:    outlook.Blanks,
		DoubleGameweeks:   outlook.Doubles,
		Buckets:           outlook.Buckets,
		Rank:              rank,
		TeamsRanked:       len(ranking),
		BetterThan:        betterThan,
	}
	result.Verdict = buildVerdict(outlook, rank, len(ranking))
	return result, nil
}

// windowOutlook is the per-team analysis over one gameweek window.
type windowOutlook struct {
	Gameweeks []GameweekOutlook
	Average   float64
	Blanks    []int
	Doubles   []int
	Buckets   DifficultyBuckets
	Legs      int
}

// analyzeTeamWindow classifies each gameweek in [startGW, startGW+horizon)
// and averages over every leg: blanks contribute nothing, doubles
// contribute once per leg. Zero legs in the whole window average to 0.
func analyzeTeamWindow(fixtures []fplapi.Fixture, teams map[int]fplapi.Team, teamID, startGW, horizon int) windowOutlook {
	legsByGW := make(map[int][]FixtureLeg)
	for _, f := range fixtures {
		if f.Event == nil {
			continue
		}
		gw := *f.Event
		if gw < startGW || gw >= startGW+horizon {
			continue
		}
		var leg FixtureLeg
		switch teamID {
		case f.TeamH:
			leg = FixtureLeg{Opponent: teams[f.TeamA].ShortName, Home: true, Difficulty: f.TeamHDifficulty}
		case f.TeamA:
			leg = FixtureLeg{Opponent: teams[f.TeamH].ShortName, Home: false, Difficulty: f.TeamADifficulty}
		default:
			continue
		}
		legsByGW[gw] = append(legsByGW[gw], leg)
	}

	out := windowOutlook{Blanks: []int{}, Doubles: []int{}}
	sum := 0
	for gw := startGW; gw < startGW+horizon; gw++ {
		legs := legsByGW[gw]
		entry := GameweekOutlook{Gameweek: gw, Legs: legs}
		switch {
		case len(legs) == 0:
			entry.Status = "blank"
			out.Blanks = append(out.Blanks, gw)
		case len(legs) == 1:
			entry.Status = "single"
		default:
			entry.Status = "double"
			out.Doubles = append(out.Doubles, gw)
		}
		for _, leg := range legs {
			sum += leg.Difficulty
			out.Legs++
			switch {
			case leg.Difficulty <= 2:
				out.Buckets.Easy++
			case leg.Difficulty == 3:
				out.Buckets.Medium++
			default:
				out.Buckets.Hard++
			}
		}
		out.Gameweeks = append(out.Gameweeks, entry)
	}
	if out.Legs > 0 {
		out.Average = math.Round(float64(sum)/float64(out.Legs)*100) / 100
	}
	return out
}

// teamWindowAverage is one row of the cross-team comparison.
type teamWindowAverage struct {
	TeamID    int     `json:"team_id"`
	ShortName string  `json:"team"`
	Average   float64 `json:"average_difficulty"`
	Legs      int     `json:"fixtures"`
}

// rankTeamWindows computes every team's window average and sorts ascending
// (lower = easier). Teams with zero fixtures carry the sentinel average so
// they rank last rather than vanishing; ties break on team id to keep the
// order stable across runs.
func rankTeamWindows(teams []fplapi.Team, fixtures []fplapi.Fixture, startGW, horizon int) []teamWindowAverage {
	byID := fplapi.TeamsByID(teams)
	rows := make([]teamWindowAverage, 0, len(teams))
	for _, t := range teams {
		w := analyzeTeamWindow(fixtures, byID, t.ID, startGW, horizon)
		avg := w.Average
		if w.Legs == 0 {
			avg = rankSentinelDifficulty
		}
		rows = append(rows, teamWindowAverage{TeamID: t.ID, ShortName: t.ShortName, Average: avg, Legs: w.Legs})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Average != rows[j].Average {
			return rows[i].Average < rows[j].Average
		}
		return rows[i].TeamID < rows[j].TeamID
	})
	return rows
}

// buildVerdict renders the four-tier label with the bucket, blank/double
// and rank clauses.
func buildVerdict(w windowOutlook, rank, total int) string {
	if w.Legs == 0 {
		return fmt.Sprintf("No fixtures in this window; ranked %s of %d for fixture ease.", ordinal(rank), total)
	}

	var tier string
	switch {
	case w.Average <= 2.0:
		tier = "Best-in-class fixture run"
	case w.Average <= 2.75:
		tier = "Good fixture run"
	case w.Average <= 3.4:
		tier = "Mixed fixtures"
	default:
		tier = "Worst kind of fixture run"
	}

	var dominant string
	switch {
	case w.Buckets.Easy >= w.Buckets.Medium && w.Buckets.Easy >= w.Buckets.Hard:
		dominant = "mostly easy fixtures"
	case w.Buckets.Hard >= w.Buckets.Medium:
		dominant = "mostly hard fixtures"
	default:
		dominant = "mostly medium fixtures"
	}

	clauses := []string{dominant}
	if len(w.Blanks) > 0 {
		clauses = append(clauses, "blank in "+gwList(w.Blanks))
	}
	if len(w.Doubles) > 0 {
		clauses = append(clauses, "double in "+gwList(w.Doubles))
	}
	return fmt.Sprintf("%s: %s; ranked %s of %d for fixture ease.",
		tier, strings.Join(clauses, ", "), ordinal(rank), total)
}

func gwList(gws []int) string {
	parts := make([]string, len(gws))
	for i, gw := range gws {
		parts[i] = fmt.Sprintf("GW%d", gw)
	}
	return strings.Join(parts, ", ")
}

func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
