package fplapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentGameweekPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   int
	}{
		{
			name: "CurrentFlagWins",
			events: []Event{
				{ID: 1, Finished: true},
				{ID: 2, IsCurrent: true},
				{ID: 3, IsNext: true},
			},
			want: 2,
		},
		{
			name: "NextWhenNoCurrent",
			events: []Event{
				{ID: 1, Finished: true},
				{ID: 2, IsNext: true},
				{ID: 3},
			},
			want: 2,
		},
		{
			name: "LastWhenNoFlags",
			events: []Event{
				{ID: 1}, {ID: 2}, {ID: 3},
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CurrentGameweek(tt.events)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestCurrentGameweekEmptyCatalog(t *testing.T) {
	_, err := CurrentGameweek(nil)
	require.Error(t, err)
}

func TestNextGameweekFallsBackToSequence(t *testing.T) {
	events := []Event{
		{ID: 1},
		{ID: 2, IsCurrent: true},
		{ID: 3},
	}
	got, err := NextGameweek(events)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ID)
}

func TestLookupsKeyByID(t *testing.T) {
	players := []Player{{ID: 1, WebName: "Saka"}, {ID: 2, WebName: "Haaland"}}
	teams := []Team{{ID: 1, ShortName: "ARS"}}

	assert.Equal(t, "Haaland", PlayersByID(players)[2].WebName)
	assert.Equal(t, "ARS", TeamsByID(teams)[1].ShortName)
}

func TestPositionNames(t *testing.T) {
	assert.Equal(t, "GKP", PositionName(1))
	assert.Equal(t, "FWD", PositionName(4))
	assert.Equal(t, "UNK", PositionName(9))
	assert.Equal(t, PositionMidfielder, PositionCode("MID"))
	assert.Equal(t, 0, PositionCode("??"))
}

func TestParseDecimal(t *testing.T) {
	assert.Equal(t, 4.5, ParseDecimal("4.5"))
	assert.Equal(t, 0.0, ParseDecimal(""))
	assert.Equal(t, 0.0, ParseDecimal("n/a"))
}

func TestPlayerFullNameFallsBackToWebName(t *testing.T) {
	assert.Equal(t, "Bukayo Saka", Player{FirstName: "Bukayo", SecondName: "Saka"}.FullName())
	assert.Equal(t, "Saka", Player{WebName: "Saka"}.FullName())
}
