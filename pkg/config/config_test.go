package config_test

import (
	"testing"

	"github.com/cuemby/bistro/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	config.RegisterFlags(cmd)
	return cmd
}

func TestLoadAppliesDefaultsWhenNothingSet(t *testing.T) {
	cfg := config.Load(newTestCmd())

	assert.Equal(t, config.DefaultDataDir, cfg.DataDir)
	assert.Equal(t, config.DefaultBindAddr, cfg.BindAddr)
	assert.Equal(t, config.DefaultPollingDelay, cfg.PollingDelay)
	assert.False(t, cfg.LogJSON)
}

func TestLoadPrefersFlagOverEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "/env/data")
	cmd := newTestCmd()
	require := cmd.Flags().Set("data-dir", "/flag/data")
	assert.NoError(t, require)

	cfg := config.Load(cmd)

	assert.Equal(t, "/flag/data", cfg.DataDir)
}

func TestLoadFallsBackToEnvWhenFlagUnset(t *testing.T) {
	t.Setenv("BISTRO_NODE_ID", "node-7")

	cfg := config.Load(newTestCmd())

	assert.Equal(t, "node-7", cfg.NodeID)
}
