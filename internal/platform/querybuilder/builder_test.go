package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBuilder_JoinsAndLock(t *testing.T) {
	t.Parallel()

	query, args, err := Select("sr.id", "g.sport_event_id").
		From("score_records sr").
		Join("games g ON g.id = sr.game_id").
		Where(Eq("g.sport_event_id", "se-1"), IsNull("sr.deleted_at"), In("sr.status", Strings([]string{"completed"}))).
		OrderBy("sr.id").
		Limit(10).
		Offset(20).
		ForUpdate().
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT sr.id, g.sport_event_id FROM score_records sr JOIN games g ON g.id = sr.game_id "+
			"WHERE g.sport_event_id = $1 AND sr.deleted_at IS NULL AND sr.status IN ($2) "+
			"ORDER BY sr.id LIMIT 10 OFFSET 20 FOR UPDATE",
		query)
	assert.Equal(t, []any{"se-1", "completed"}, args)
}

func TestConditions_EmptyLists(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id").From("t").Where(In("id", nil), NotIn("team_id", nil)).ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM t WHERE 1=0 AND 1=1", query)
	assert.Empty(t, args)
}

func TestInsertBuilder_SuffixArgs(t *testing.T) {
	t.Parallel()

	query, args, err := InsertInto("leaderboards").
		Columns("id", "sport_event_id").
		Values("lb-1", "se-1").
		Suffix("ON CONFLICT (sport_event_id) DO UPDATE SET last_updated = ?", "now").
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO leaderboards (id, sport_event_id) VALUES ($1, $2) ON CONFLICT (sport_event_id) DO UPDATE SET last_updated = $3", query)
	assert.Equal(t, []any{"lb-1", "se-1", "now"}, args)
}

func TestUpdateBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Update("score_records").
		Set("status", "completed").
		SetExpr("updated_at", "NOW()").
		SetExpr("notes", "notes || ?", "\nok").
		Where(Eq("id", "sr-1")).
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "UPDATE score_records SET status = $1, updated_at = NOW(), notes = notes || $2 WHERE id = $3", query)
	assert.Equal(t, []any{"completed", "\nok", "sr-1"}, args)
}

func TestDeleteBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := DeleteFrom("leaderboard_entries").
		Where(Eq("leaderboard_id", "lb-1"), NotIn("team_id", Strings([]string{"a", "b"}))).
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM leaderboard_entries WHERE leaderboard_id = $1 AND team_id NOT IN ($2, $3)", query)
	assert.Equal(t, []any{"lb-1", "a", "b"}, args)

	_, _, err = DeleteFrom("leaderboard_entries").ToSQL()
	assert.ErrorIs(t, err, ErrUnsafeDelete)
}

type entryRow struct {
	ID     string `db:"id"`
	TeamID string `db:"team_id"`
	Points int    `db:"points"`
	skip   int
	Extra  string `db:"-"`
}

func TestInsertModels(t *testing.T) {
	t.Parallel()

	query, args, err := InsertModels("leaderboard_entries",
		[]any{entryRow{ID: "e1", TeamID: "a", Points: 3}, &entryRow{ID: "e2", TeamID: "b", Points: 0}},
		"ON CONFLICT (id) DO NOTHING")
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO leaderboard_entries (id, team_id, points) VALUES ($1, $2, $3), ($4, $5, $6) ON CONFLICT (id) DO NOTHING", query)
	assert.Equal(t, []any{"e1", "a", 3, "e2", "b", 0}, args)
	assert.Equal(t, []string{"le.id", "le.team_id", "le.points"}, Columns(entryRow{}, "le"))

	_, _, err = InsertModel("x", (*entryRow)(nil), "")
	assert.Error(t, err)
}
