package main

import (
	"fmt"
	"os"

	"github.com/cuemby/bistro/pkg/config"
	"github.com/cuemby/bistro/pkg/log"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bistro",
	Short: "Bistro - an event-sourced CQRS runtime for restaurant ordering",
	Long: `Bistro hosts the Restaurant and Order deciders against a single
embedded, Raft-replicated event log, with materialized views and a saga
dispatched off the same log.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Bistro version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	config.RegisterFlags(rootCmd)
	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(registerCmd)
}

func initLogging() {
	cfg := config.Load(rootCmd)
	log.Init(log.Config{
		Level:      cfg.LogLevel,
		JSONOutput: cfg.LogJSON,
	})
}
