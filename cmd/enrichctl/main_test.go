package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandWiring(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"enrich", "clean", "verify", "search"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestEnrichFlags(t *testing.T) {
	f := enrichCmd.Flags().Lookup("sample-size")
	require.NotNil(t, f)
	assert.Equal(t, "0", f.DefValue)

	f = enrichCmd.Flags().Lookup("data-dir")
	require.NotNil(t, f)
	assert.Equal(t, "", f.DefValue)
}

func TestSearchRequiresQuestion(t *testing.T) {
	err := searchCmd.Args(searchCmd, []string{})
	assert.Error(t, err)
	err = searchCmd.Args(searchCmd, []string{"what is the EGT limit at takeoff"})
	assert.NoError(t, err)
}
