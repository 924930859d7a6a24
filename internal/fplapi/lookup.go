package fplapi

import "github.com/cockroachdb/errors"

// PlayersByID builds an id → player map. Upstream ids are unique.
func PlayersByID(players []Player) map[int]Player {
	out := make(map[int]Player, len(players))
	for _, p := range players {
		out[p.ID] = p
	}
	return out
}

// TeamsByID builds an id → team map.
func TeamsByID(teams []Team) map[int]Team {
	out := make(map[int]Team, len(teams))
	for _, t := range teams {
		out[t.ID] = t
	}
	return out
}

// CurrentGameweek resolves the working gameweek: the event flagged
// current, else the one flagged next, else the last in the sequence.
func CurrentGameweek(events []Event) (Event, error) {
	if len(events) == 0 {
		return Event{}, errors.New("fpl: no gameweeks in catalog")
	}
	for _, e := range events {
		if e.IsCurrent {
			return e, nil
		}
	}
	for _, e := range events {
		if e.IsNext {
			return e, nil
		}
	}
	return events[len(events)-1], nil
}

// NextGameweek resolves the event flagged next, falling back to the one
// after the current gameweek in sequence.
func NextGameweek(events []Event) (Event, error) {
	for _, e := range events {
		if e.IsNext {
			return e, nil
		}
	}
	cur, err := CurrentGameweek(events)
	if err != nil {
		return Event{}, err
	}
	for _, e := range events {
		if e.ID == cur.ID+1 {
			return e, nil
		}
	}
	return Event{}, errors.Newf("fpl: no gameweek after %d", cur.ID)
}
