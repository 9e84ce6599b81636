package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGame_Sides(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		participants []Participant
		side1, side2 string
		wantErr      bool
	}{
		{
			name:         "team designations",
			participants: []Participant{{TeamID: "b", Designation: DesignationTeamB}, {TeamID: "a", Designation: DesignationTeamA}},
			side1:        "a",
			side2:        "b",
		},
		{
			name:         "home and away",
			participants: []Participant{{TeamID: "h", Designation: DesignationHome}, {TeamID: "w", Designation: DesignationAway}},
			side1:        "h",
			side2:        "w",
		},
		{
			name:         "both on side one",
			participants: []Participant{{TeamID: "a", Designation: DesignationTeamA}, {TeamID: "b", Designation: DesignationHome}},
			wantErr:      true,
		},
		{
			name:         "single participant",
			participants: []Participant{{TeamID: "a", Designation: DesignationTeamA}},
			wantErr:      true,
		},
		{
			name:         "same team twice",
			participants: []Participant{{TeamID: "a", Designation: DesignationTeamA}, {TeamID: "a", Designation: DesignationTeamB}},
			wantErr:      true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s1, s2, err := Game{Participants: tc.participants}.Sides()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrIncompleteParticipants)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.side1, s1)
			assert.Equal(t, tc.side2, s2)
		})
	}
}

func TestGame_SideOf(t *testing.T) {
	t.Parallel()

	g := Game{Participants: []Participant{{TeamID: "h", Designation: DesignationHome}, {TeamID: "w", Designation: DesignationAway}}}
	assert.Equal(t, Side1, g.SideOf("h"))
	assert.Equal(t, Side2, g.SideOf("w"))
	assert.Equal(t, SideNone, g.SideOf("x"))
	assert.Equal(t, Side1, Side2.Opponent())
}
