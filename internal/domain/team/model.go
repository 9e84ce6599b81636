package team

// Team is a registered squad that plays games in one or more sport events.
type Team struct {
	ID        string
	Name      string
	ShortName string
	ManagerID string
}

// Player belongs to exactly one team roster.
type Player struct {
	ID           string
	TeamID       string
	Name         string
	JerseyNumber int
	IsCaptain    bool
}

// Roster maps player id to the id of the team the player belongs to.
type Roster map[string]string

func NewRoster(players []Player) Roster {
	out := make(Roster, len(players))
	for _, p := range players {
		out[p.ID] = p.TeamID
	}
	return out
}

// BelongsTo reports whether the player is on the team's roster.
func (r Roster) BelongsTo(playerID, teamID string) bool {
	got, ok := r[playerID]
	return ok && got == teamID
}
