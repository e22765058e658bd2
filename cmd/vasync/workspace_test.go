package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/vasync/vasync/pkg/config"
)

func setTempHome(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("USERPROFILE", dir)
}

func newWorkspaceApp() *cli.Command {
	return &cli.Command{
		Name:     "vasync",
		Commands: WorkspaceCommands,
	}
}

func TestAddFirstWorkspaceBecomesDefault(t *testing.T) {
	setTempHome(t)
	cliConfig = nil
	defaultWorkspace = nil

	err := newWorkspaceApp().Run(context.Background(), []string{
		"vasync", "workspace", "add", "my-fund",
		"--affinity-token", "aff-token",
		"--visible-token", "vis-token",
		"--visible-company", "12345",
	})
	require.NoError(t, err)
	assert.Equal(t, "my-fund", cliConfig.DefaultWorkspace)

	ws, err := config.LoadDefaultWorkspace()
	require.NoError(t, err)
	assert.Equal(t, "my-fund", ws.Name)
	assert.Equal(t, "12345", ws.VisibleCompanyID)
}

func TestAddSecondWorkspaceKeepsDefault(t *testing.T) {
	setTempHome(t)
	cliConfig = nil
	defaultWorkspace = nil

	require.NoError(t, newWorkspaceApp().Run(context.Background(), []string{
		"vasync", "workspace", "add", "first-fund",
		"--affinity-token", "aff-token",
		"--visible-token", "vis-token",
		"--visible-company", "12345",
	}))

	cliConfig = nil
	defaultWorkspace = nil
	require.NoError(t, newWorkspaceApp().Run(context.Background(), []string{
		"vasync", "workspace", "add", "second-fund",
		"--affinity-token", "aff-token-2",
		"--visible-token", "vis-token-2",
		"--visible-company", "67890",
		"--default=false",
	}))

	assert.Equal(t, "first-fund", cliConfig.DefaultWorkspace)
	assert.Len(t, cliConfig.Workspaces, 2)
}
