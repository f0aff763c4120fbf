package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)

	steps, err = parseSteps([]string{"3"})
	require.NoError(t, err)
	assert.Equal(t, 3, steps)

	_, err = parseSteps([]string{"0"})
	assert.Error(t, err)
	_, err = parseSteps([]string{"x"})
	assert.Error(t, err)
}

func TestParseVersionAndTarget(t *testing.T) {
	version, err := parseVersion("1")
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	_, err = parseVersion("-1")
	assert.Error(t, err)

	target, err := parseTarget("2")
	require.NoError(t, err)
	assert.Equal(t, uint(2), target)
}

func TestWithSSLMode(t *testing.T) {
	got := withSSLMode("postgres://postgres@localhost:5432/match_stats", "disable")
	assert.Equal(t, "postgres://postgres@localhost:5432/match_stats?sslmode=disable", got)

	in := "postgres://postgres@localhost:5432/match_stats?sslmode=require"
	assert.Equal(t, in, withSSLMode(in, "disable"))
	assert.Equal(t, in, withSSLMode(in, ""))
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	root := newRootCommand(nil)
	for _, name := range []string{"up", "down", "version", "force", "goto"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
