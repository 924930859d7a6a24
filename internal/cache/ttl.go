package cache

import "time"

// Per-resource TTL policy. Fixed, not user-configurable: long-lived catalog
// data trades staleness for upstream load, volatile team state stays fresh.
const (
	// Catalog data (players, teams, gameweeks) changes between deadlines.
	TTLBootstrap = 24 * time.Hour

	// Fixture schedules move with postponements and rescheduling.
	TTLFixtures = time.Hour

	// Manager profile and season history advance once per gameweek.
	TTLManager = time.Hour

	// Confirmed public picks can change until the deadline passes.
	TTLPicks = 5 * time.Minute

	// Live authenticated team state (pending transfers, chips).
	TTLMyTeam = time.Minute

	// Community sentiment moves slowly.
	TTLTrends = 6 * time.Hour
)
