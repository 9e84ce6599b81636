package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)

	steps, err = parseSteps([]string{" 3 "})
	require.NoError(t, err)
	assert.Equal(t, 3, steps)

	_, err = parseSteps([]string{"0"})
	assert.Error(t, err)
	_, err = parseSteps([]string{"x"})
	assert.Error(t, err)
}

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("4")
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	v, err = parseVersion("-1")
	require.NoError(t, err)
	assert.Equal(t, -1, v)

	_, err = parseVersion("-2")
	assert.Error(t, err)
}

func TestLocalVersions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000003_create_leaderboard_tables.up.sql",
		"000001_create_reference_tables.up.sql",
		"000001_create_reference_tables.down.sql",
		"notes.up.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}

	versions, err := localVersions(dir)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 3}, versions)
}
