package config

import (
	"os"
	"time"

	"github.com/cuemby/bistro/pkg/log"
	"github.com/spf13/cobra"
)

// Defaults for settings spec §6 leaves to the implementation.
const (
	DefaultBindAddr     = "127.0.0.1:7946"
	DefaultPollingDelay = 250 * time.Millisecond
	DefaultDataDir      = "./bistro-data"
	DefaultNodeID       = "bistro-1"
)

// Config holds everything `bistro serve` needs to start a node.
type Config struct {
	DataDir      string
	BindAddr     string
	NodeID       string
	LogLevel     log.Level
	LogJSON      bool
	PollingDelay time.Duration
}

// RegisterFlags adds the flags Load reads back, one flag per setting,
// registered with empty defaults so Load can fall back to the environment
// and then to the package defaults. They go on cmd's own flag set, not its
// persistent flags, so subcommands of cmd do not inherit them.
func RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().String("data-dir", "", "Data directory for the event log and view stores (env DATABASE_URL)")
	cmd.Flags().String("bind-addr", "", "Address for Raft communication (env BISTRO_BIND_ADDR)")
	cmd.Flags().String("node-id", "", "Unique id for this node (env BISTRO_NODE_ID)")
	cmd.Flags().String("log-level", "", "Log level: debug, info, warn, error (env BISTRO_LOG_LEVEL)")
	cmd.Flags().Bool("log-json", false, "Output logs as JSON (env BISTRO_LOG_JSON)")
}

// Load resolves settings with precedence flag > environment > default,
// the same fallback order the teacher's cluster commands apply to
// bind-addr and data-dir.
func Load(cmd *cobra.Command) Config {
	return Config{
		DataDir:      resolve(cmd, "data-dir", "DATABASE_URL", DefaultDataDir),
		BindAddr:     resolve(cmd, "bind-addr", "BISTRO_BIND_ADDR", DefaultBindAddr),
		NodeID:       resolve(cmd, "node-id", "BISTRO_NODE_ID", DefaultNodeID),
		LogLevel:     log.Level(resolve(cmd, "log-level", "BISTRO_LOG_LEVEL", string(log.InfoLevel))),
		LogJSON:      resolveBool(cmd, "log-json", "BISTRO_LOG_JSON"),
		PollingDelay: DefaultPollingDelay,
	}
}

func resolve(cmd *cobra.Command, flag, envVar, fallback string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return fallback
}

func resolveBool(cmd *cobra.Command, flag, envVar string) bool {
	if v, err := cmd.Flags().GetBool(flag); err == nil && v {
		return true
	}
	return os.Getenv(envVar) == "true"
}
