package game

import (
	"errors"
	"time"
)

var ErrIncompleteParticipants = errors.New("game must have exactly two teams on opposite sides")

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Designation tags a participant association; team_a/home and team_b/away are interchangeable conventions.
type Designation string

const (
	DesignationTeamA Designation = "team_a"
	DesignationTeamB Designation = "team_b"
	DesignationHome  Designation = "home"
	DesignationAway  Designation = "away"
)

type Side int

const (
	SideNone Side = iota
	Side1
	Side2
)

func (d Designation) Side() Side {
	switch d {
	case DesignationTeamA, DesignationHome:
		return Side1
	case DesignationTeamB, DesignationAway:
		return Side2
	default:
		return SideNone
	}
}

func (s Side) Opponent() Side {
	switch s {
	case Side1:
		return Side2
	case Side2:
		return Side1
	default:
		return SideNone
	}
}

type Participant struct {
	TeamID      string
	Designation Designation
}

// Game is one match inside a sport event. Teams are attached only through Participants.
type Game struct {
	ID            string
	SportEventID  string
	Name          string
	Status        Status
	ScorekeeperID string
	ScheduledAt   *time.Time
	Participants  []Participant
}

// TeamOnSide returns the team designated for the side.
func (g Game) TeamOnSide(side Side) (string, bool) {
	if side == SideNone {
		return "", false
	}
	for _, p := range g.Participants {
		if p.Designation.Side() == side {
			return p.TeamID, true
		}
	}
	return "", false
}

func (g Game) SideOf(teamID string) Side {
	if teamID == "" {
		return SideNone
	}
	for _, p := range g.Participants {
		if p.TeamID == teamID {
			return p.Designation.Side()
		}
	}
	return SideNone
}

// Sides returns the side1 and side2 team ids, failing unless exactly two distinct teams
// sit on opposite sides.
func (g Game) Sides() (string, string, error) {
	if len(g.Participants) != 2 {
		return "", "", ErrIncompleteParticipants
	}
	side1, ok1 := g.TeamOnSide(Side1)
	side2, ok2 := g.TeamOnSide(Side2)
	if !ok1 || !ok2 || side1 == "" || side2 == "" || side1 == side2 {
		return "", "", ErrIncompleteParticipants
	}
	return side1, side2, nil
}
