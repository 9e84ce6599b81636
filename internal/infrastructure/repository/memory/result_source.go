package memory

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/sports-tournament/internal/domain/leaderboard"
	"github.com/riskibarqy/sports-tournament/internal/domain/score"
)

// ResultSource yields the completed and verified games of a sport event.
type ResultSource interface {
	QualifyingResults(ctx context.Context, sportEventID string) ([]leaderboard.GameResult, error)
}

type GameResults struct {
	scores *ScoreRepository
	games  *GameRepository
}

func NewGameResults(scores *ScoreRepository, games *GameRepository) *GameResults {
	return &GameResults{scores: scores, games: games}
}

func (s *GameResults) QualifyingResults(ctx context.Context, sportEventID string) ([]leaderboard.GameResult, error) {
	out := make([]leaderboard.GameResult, 0)
	for _, rec := range s.scores.listBySportEvent(sportEventID) {
		if !rec.CountsTowardStandings() {
			continue
		}
		g, exists, err := s.games.GetByID(ctx, rec.GameID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errors.AssertionFailedf("verified score %s references unknown game %s", rec.ID, rec.GameID)
		}
		details, err := s.scores.ListDetails(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		result, err := leaderboard.ResultFromRecord(rec, g, score.CountCards(details))
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	return out, nil
}
