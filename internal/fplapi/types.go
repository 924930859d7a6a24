package fplapi

import "strconv"

// Bootstrap is the catalog payload from bootstrap-static: every player,
// team and gameweek in the season.
type Bootstrap struct {
	Events  []Event  `json:"events"`
	Teams   []Team   `json:"teams"`
	Players []Player `json:"elements"`
}

// Player position codes (element_type).
const (
	PositionGoalkeeper = 1
	PositionDefender   = 2
	PositionMidfielder = 3
	PositionForward    = 4
)

// PositionName maps an element_type to its short label.
func PositionName(elementType int) string {
	switch elementType {
	case PositionGoalkeeper:
		return "GKP"
	case PositionDefender:
		return "DEF"
	case PositionMidfielder:
		return "MID"
	case PositionForward:
		return "FWD"
	default:
		return "UNK"
	}
}

// PositionCode is the inverse of PositionName; unknown labels return 0.
func PositionCode(label string) int {
	switch label {
	case "GKP", "GK":
		return PositionGoalkeeper
	case "DEF":
		return PositionDefender
	case "MID":
		return PositionMidfielder
	case "FWD":
		return PositionForward
	default:
		return 0
	}
}

// Player is one catalog entry. Prices are in tenths of a million; form and
// expected-points figures arrive as decimal strings and are parsed on
// demand via ParseDecimal.
type Player struct {
	ID          int    `json:"id"`
	WebName     string `json:"web_name"`
	FirstName   string `json:"first_name"`
	SecondName  string `json:"second_name"`
	Team        int    `json:"team"`
	ElementType int    `json:"element_type"`
	NowCost     int    `json:"now_cost"`
	Status      string `json:"status"`

	Form           string `json:"form"`
	EPNext         string `json:"ep_next"`
	EPThis         string `json:"ep_this"`
	ICTIndex       string `json:"ict_index"`
	SelectedBy     string `json:"selected_by_percent"`
	Minutes        int    `json:"minutes"`
	TotalPoints    int    `json:"total_points"`
	ChanceOfPlaying *int  `json:"chance_of_playing_next_round"`
}

// FullName is "First Second", falling back to the web name.
func (p Player) FullName() string {
	if p.FirstName == "" && p.SecondName == "" {
		return p.WebName
	}
	if p.FirstName == "" {
		return p.SecondName
	}
	return p.FirstName + " " + p.SecondName
}

// Price is the player's cost in millions.
func (p Player) Price() float64 {
	return float64(p.NowCost) / 10.0
}

// Team is one club with its strength ratings split by home/away.
type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`

	Strength            int `json:"strength"`
	StrengthAttackHome  int `json:"strength_attack_home"`
	StrengthAttackAway  int `json:"strength_attack_away"`
	StrengthDefenceHome int `json:"strength_defence_home"`
	StrengthDefenceAway int `json:"strength_defence_away"`
}

// Event is one gameweek.
type Event struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	DeadlineTime string `json:"deadline_time"`
	IsCurrent    bool   `json:"is_current"`
	IsNext       bool   `json:"is_next"`
	IsPrevious   bool   `json:"is_previous"`
	Finished     bool   `json:"finished"`
}

// Fixture is one match. Event is nil for unscheduled (blank) fixtures,
// scores are nil until the match has been played.
type Fixture struct {
	ID              int     `json:"id"`
	Event           *int    `json:"event"`
	TeamH           int     `json:"team_h"`
	TeamA           int     `json:"team_a"`
	TeamHDifficulty int     `json:"team_h_difficulty"`
	TeamADifficulty int     `json:"team_a_difficulty"`
	TeamHScore      *int    `json:"team_h_score"`
	TeamAScore      *int    `json:"team_a_score"`
	KickoffTime     *string `json:"kickoff_time"`
	Started         bool    `json:"started"`
	Finished        bool    `json:"finished"`
}

// Pick is one squad slot. Slots 1-11 are the starting lineup, 12-15 the
// bench. Multiplier 0 = benched, 1 = playing, 2+ = captain boost.
type Pick struct {
	Element       int  `json:"element"`
	Position      int  `json:"position"`
	Multiplier    int  `json:"multiplier"`
	IsCaptain     bool `json:"is_captain"`
	IsViceCaptain bool `json:"is_vice_captain"`
	PurchasePrice *int `json:"purchase_price,omitempty"`
	SellingPrice  *int `json:"selling_price,omitempty"`
}

// PicksResponse is the public entry/{id}/event/{gw}/picks payload.
type PicksResponse struct {
	ActiveChip   *string `json:"active_chip"`
	Picks        []Pick  `json:"picks"`
	EntryHistory struct {
		Event int `json:"event"`
		Bank  int `json:"bank"`
		Value int `json:"value"`
	} `json:"entry_history"`
}

// Chip is one special squad rule and its availability for the entry.
type Chip struct {
	Name           string `json:"name"`
	StatusForEntry string `json:"status_for_entry"`
}

// TransfersState is the live transfer budget from the authenticated
// my-team payload.
type TransfersState struct {
	Bank  int `json:"bank"`
	Value int `json:"value"`
	Limit int `json:"limit"`
	Made  int `json:"made"`
}

// MyTeam is the authenticated my-team/{id} payload.
type MyTeam struct {
	Picks     []Pick         `json:"picks"`
	Chips     []Chip         `json:"chips"`
	Transfers TransfersState `json:"transfers"`
}

// Manager is the public entry/{id} payload.
type Manager struct {
	ID                   int    `json:"id"`
	FirstName            string `json:"player_first_name"`
	LastName             string `json:"player_last_name"`
	TeamName             string `json:"name"`
	Region               string `json:"player_region_name"`
	OverallPoints        int    `json:"summary_overall_points"`
	OverallRank          int    `json:"summary_overall_rank"`
	CurrentEvent         int    `json:"current_event"`
	LastDeadlineBank     int    `json:"last_deadline_bank"`
	LastDeadlineValue    int    `json:"last_deadline_value"`
	LastDeadlineTransfers int   `json:"last_deadline_total_transfers"`
}

// HistoryEntry is one completed gameweek in a manager's season history.
type HistoryEntry struct {
	Event          int `json:"event"`
	Points         int `json:"points"`
	TotalPoints    int `json:"total_points"`
	Bank           int `json:"bank"`
	Value          int `json:"value"`
	EventTransfers int `json:"event_transfers"`
	OverallRank    int `json:"overall_rank"`
}

// History is the entry/{id}/history payload.
type History struct {
	Current []HistoryEntry `json:"current"`
}

// ParseDecimal parses the decimal strings the upstream API uses for form,
// expected points and ownership. Empty or malformed values are 0.
func ParseDecimal(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
