package memory

import (
	"time"

	"github.com/riskibarqy/sports-tournament/internal/domain/game"
	"github.com/riskibarqy/sports-tournament/internal/domain/sportevent"
	"github.com/riskibarqy/sports-tournament/internal/domain/team"
)

const (
	SportEventIDFutsalOpen = "se-futsal-open-2026"
	SportEventIDBasketCup  = "se-basket-cup-2026"
)

func SeedSportEvents() []sportevent.SportEvent {
	start := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14)
	return []sportevent.SportEvent{
		{ID: SportEventIDFutsalOpen, EventID: "ev-campus-games-2026", Name: "Futsal Open", Sport: "futsal", StartDate: &start, EndDate: &end},
		{ID: SportEventIDBasketCup, EventID: "ev-campus-games-2026", Name: "Basketball Cup", Sport: "basketball", StartDate: &start, EndDate: &end},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "team-falcons", Name: "Falcons", ShortName: "FAL", ManagerID: "u-manager-falcons"},
		{ID: "team-wolves", Name: "Wolves", ShortName: "WOL", ManagerID: "u-manager-wolves"},
		{ID: "team-sharks", Name: "Sharks", ShortName: "SHA"},
		{ID: "team-tigers", Name: "Tigers", ShortName: "TIG"},
	}
}

func SeedPlayers() []team.Player {
	return []team.Player{
		{ID: "p-falcons-07", TeamID: "team-falcons", Name: "Raka Pratama", JerseyNumber: 7, IsCaptain: true},
		{ID: "p-falcons-10", TeamID: "team-falcons", Name: "Dimas Saputra", JerseyNumber: 10},
		{ID: "p-wolves-09", TeamID: "team-wolves", Name: "Bima Santoso", JerseyNumber: 9, IsCaptain: true},
		{ID: "p-wolves-11", TeamID: "team-wolves", Name: "Gilang Ramadhan", JerseyNumber: 11},
		{ID: "p-sharks-04", TeamID: "team-sharks", Name: "Yoga Firmansyah", JerseyNumber: 4, IsCaptain: true},
		{ID: "p-tigers-23", TeamID: "team-tigers", Name: "Arif Hidayat", JerseyNumber: 23, IsCaptain: true},
	}
}

func SeedGames() []game.Game {
	kickoff := time.Date(2026, time.August, 2, 9, 0, 0, 0, time.UTC)
	pair := func(a, b string) []game.Participant {
		return []game.Participant{
			{TeamID: a, Designation: game.DesignationTeamA},
			{TeamID: b, Designation: game.DesignationTeamB},
		}
	}
	at := func(h int) *time.Time {
		v := kickoff.Add(time.Duration(h) * time.Hour)
		return &v
	}
	return []game.Game{
		{ID: "game-futsal-01", SportEventID: SportEventIDFutsalOpen, Name: "Falcons vs Wolves", Status: game.StatusScheduled, ScorekeeperID: "u-keeper-1", ScheduledAt: at(0), Participants: pair("team-falcons", "team-wolves")},
		{ID: "game-futsal-02", SportEventID: SportEventIDFutsalOpen, Name: "Sharks vs Tigers", Status: game.StatusScheduled, ScorekeeperID: "u-keeper-1", ScheduledAt: at(2), Participants: pair("team-sharks", "team-tigers")},
		{ID: "game-futsal-03", SportEventID: SportEventIDFutsalOpen, Name: "Falcons vs Sharks", Status: game.StatusScheduled, ScorekeeperID: "u-keeper-2", ScheduledAt: at(24), Participants: pair("team-falcons", "team-sharks")},
		{
			ID: "game-basket-01", SportEventID: SportEventIDBasketCup, Name: "Tigers vs Wolves", Status: game.StatusScheduled, ScorekeeperID: "u-keeper-2", ScheduledAt: at(4),
			Participants: []game.Participant{
				{TeamID: "team-tigers", Designation: game.DesignationHome},
				{TeamID: "team-wolves", Designation: game.DesignationAway},
			},
		},
	}
}
