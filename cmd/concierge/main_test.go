package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/concierge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "concierge version "+strings.TrimSpace(concierge.Version)+"\n", out)
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "graph")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD"))
}

func TestSessionCommand_NeedsRedis(t *testing.T) {
	t.Setenv("CONCIERGE_STORE_DRIVER", "memory")
	_, err := execute(t, "session", "ls")
	assert.ErrorContains(t, err, "redis store")
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"chat", "serve", "mcp", "graph", "session", "version"})
}
