package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookawards/harvester/internal/config"
)

func withFakeApp(t *testing.T) {
	t.Helper()
	orig := newApp
	newApp = func(context.Context) (*app, error) {
		cfg, err := config.Load("")
		if err != nil {
			return nil, err
		}
		return &app{cfg: cfg, logger: zap.NewNop()}, nil
	}
	t.Cleanup(func() { newApp = orig })
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestResolveAppMissing(t *testing.T) {
	_, err := resolveApp(context.Background())
	require.Error(t, err)
}

func TestCrawlRequiresSeedsFlag(t *testing.T) {
	withFakeApp(t)
	err := runCommand(t, "crawl")
	require.Error(t, err)
	require.Contains(t, err.Error(), "seeds")
}

func TestSyncRequiresAirtableCredentials(t *testing.T) {
	withFakeApp(t)
	err := runCommand(t, "sync", "--input", "missing.json")
	require.Error(t, err)
	require.Contains(t, err.Error(), "airtable.api_key")
}
