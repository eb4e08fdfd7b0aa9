package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistration(t *testing.T) {
	want := []string{"analyze", "clone", "ask", "chat", "explain", "structure", "info", "memory"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "command %q not registered", name)
	}
}

func TestMemorySubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range memoryCmd.Commands() {
		names[c.Name()] = true
	}
	require.True(t, names["search"])
	require.True(t, names["history"])
	require.True(t, names["clear"])
}

func TestIsRemote(t *testing.T) {
	assert.True(t, isRemote("https://github.com/owner/repo"))
	assert.True(t, isRemote("git@github.com:owner/repo.git"))
	assert.False(t, isRemote("./local/path"))
	assert.False(t, isRemote("/abs/path"))
}

func TestMemoryClearRequiresConfirmation(t *testing.T) {
	memoryYes = false
	err := runMemoryClear(memoryClearCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}
