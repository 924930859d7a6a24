package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/vongohren/fpl-ai-assist/internal/cache"
	"github.com/vongohren/fpl-ai-assist/internal/config"
	"github.com/vongohren/fpl-ai-assist/internal/fplapi"
	"github.com/vongohren/fpl-ai-assist/internal/logging"
	"github.com/vongohren/fpl-ai-assist/internal/websearch"
)

func intPtr(n int) *int { return &n }

// fakeUpstream serves canned FPL API payloads and records every request
// path so tests can assert which endpoints were touched.
type fakeUpstream struct {
	srv *httptest.Server

	mu    sync.Mutex
	paths []string

	boot     fplapi.Bootstrap
	fixtures []fplapi.Fixture
	picks    fplapi.PicksResponse
	myTeam   fplapi.MyTeam
	history  fplapi.History

	// Non-zero forces that status on the authenticated my-team route.
	myTeamStatus int
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	up := &fakeUpstream{
		boot:     testBootstrap(),
		fixtures: testFixtures(),
		picks:    testPicks(),
	}
	up.myTeam = fplapi.MyTeam{Picks: up.picks.Picks}
	up.srv = httptest.NewServer(http.HandlerFunc(up.handle))
	t.Cleanup(up.srv.Close)
	return up
}

func (u *fakeUpstream) handle(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.paths = append(u.paths, r.URL.Path)
	u.mu.Unlock()

	var payload any
	switch {
	case r.URL.Path == "/bootstrap-static/":
		payload = u.boot
	case r.URL.Path == "/fixtures/":
		payload = u.fixtures
		if ev := r.URL.Query().Get("event"); ev != "" {
			gw, _ := strconv.Atoi(ev)
			out := []fplapi.Fixture{}
			for _, f := range u.fixtures {
				if f.Event != nil && *f.Event == gw {
					out = append(out, f)
				}
			}
			payload = out
		}
	case strings.HasPrefix(r.URL.Path, "/my-team/"):
		if u.myTeamStatus != 0 {
			http.Error(w, "forbidden", u.myTeamStatus)
			return
		}
		payload = u.myTeam
	case strings.HasSuffix(r.URL.Path, "/picks/"):
		payload = u.picks
	case strings.HasSuffix(r.URL.Path, "/history/"):
		payload = u.history
	default:
		http.NotFound(w, r)
		return
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// requests counts recorded request paths starting with prefix.
func (u *fakeUpstream) requests(prefix string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for _, p := range u.paths {
		if strings.HasPrefix(p, prefix) {
			n++
		}
	}
	return n
}

// newTestApp wires an App against the fake upstream with a throwaway
// cache file and no web search key. An empty cookie leaves the client
// without credentials.
func newTestApp(t *testing.T, up *fakeUpstream, cookie string) *App {
	t.Helper()
	log := logging.NewNop()
	store := cache.New(filepath.Join(t.TempDir(), "cache.json"), log)
	client := fplapi.NewClient(fplapi.ClientConfig{
		HTTPClient: up.srv.Client(),
		BaseURL:    up.srv.URL,
		Cookie:     cookie,
	}, log)
	return newApp(&config.Config{ManagerID: 42}, client, store, websearch.NewClient("", log), log)
}

// testBootstrap builds a 4-team, 30-player catalog with gameweek 2
// current. Player attributes scale with the id so sorts and filters have
// something to bite on.
func testBootstrap() fplapi.Bootstrap {
	boot := fplapi.Bootstrap{
		Events: []fplapi.Event{
			{ID: 1, Name: "Gameweek 1", IsPrevious: true, Finished: true},
			{ID: 2, Name: "Gameweek 2", IsCurrent: true},
			{ID: 3, Name: "Gameweek 3", IsNext: true},
		},
		Teams: []fplapi.Team{
			{ID: 1, Name: "Arsenal", ShortName: "ARS"},
			{ID: 2, Name: "Chelsea", ShortName: "CHE"},
			{ID: 3, Name: "Liverpool", ShortName: "LIV"},
			{ID: 4, Name: "Man City", ShortName: "MCI"},
		},
	}
	for i := 1; i <= 30; i++ {
		boot.Players = append(boot.Players, fplapi.Player{
			ID:          i,
			WebName:     fmt.Sprintf("Player%02d", i),
			FirstName:   "Test",
			SecondName:  fmt.Sprintf("Player%02d", i),
			Team:        (i-1)%4 + 1,
			ElementType: (i-1)%4 + 1,
			NowCost:     40 + i,
			Status:      "a",
			Form:        fmt.Sprintf("%d.0", i%10),
			EPNext:      "4.5",
			SelectedBy:  "15.0",
			Minutes:     i * 90,
			TotalPoints: i * 2,
		})
	}
	return boot
}

// testFixtures schedules one round in GW2 and one in GW3.
func testFixtures() []fplapi.Fixture {
	return []fplapi.Fixture{
		{ID: 1, Event: intPtr(2), TeamH: 1, TeamA: 2, TeamHDifficulty: 2, TeamADifficulty: 4},
		{ID: 2, Event: intPtr(2), TeamH: 3, TeamA: 4, TeamHDifficulty: 3, TeamADifficulty: 3},
		{ID: 3, Event: intPtr(3), TeamH: 2, TeamA: 3, TeamHDifficulty: 3, TeamADifficulty: 2},
		{ID: 4, Event: intPtr(3), TeamH: 4, TeamA: 1, TeamHDifficulty: 2, TeamADifficulty: 4},
	}
}

// testPicks fills slots 1-15 with players 1-15; slot 6 carries the
// armband, slot 7 the vice, slots 12-15 sit on the bench.
func testPicks() fplapi.PicksResponse {
	var resp fplapi.PicksResponse
	for slot := 1; slot <= 15; slot++ {
		pick := fplapi.Pick{Element: slot, Position: slot, Multiplier: 1}
		if slot == 6 {
			pick.IsCaptain = true
			pick.Multiplier = 2
		}
		if slot == 7 {
			pick.IsViceCaptain = true
		}
		if slot >= 12 {
			pick.Multiplier = 0
		}
		resp.Picks = append(resp.Picks, pick)
	}
	return resp
}
