package main

import (
	"fmt"
	"os"

	"github.com/cuemby/bistro/pkg/config"
	"github.com/cuemby/bistro/pkg/eventlog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Declare which events each decider may append",
	Long: `register reads a YAML manifest of decider -> event name lists and
idempotently registers each pair with the event log (spec §3: append of an
unregistered (decider, event_name) pair is refused). Run this once against
a node before "bistro serve" accepts commands for a new decider.

Example manifest:
  Restaurant:
    - RestaurantCreated
    - RestaurantNotCreated
    - RestaurantMenuChanged
    - RestaurantMenuNotChanged
    - OrderPlaced
    - OrderNotPlaced
  Order:
    - OrderCreated
    - OrderNotCreated
    - OrderPrepared
    - OrderNotPrepared
    - OrderCancelled
    - OrderNotCancelled`,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringP("file", "f", "", "YAML manifest of decider -> event names (required)")
	_ = registerCmd.MarkFlagRequired("file")
}

// DeciderManifest maps a decider family name to the event names it may
// append, the input format "bistro register" consumes.
type DeciderManifest map[string][]string

func runRegister(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	var manifest DeciderManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}

	cfg := config.Load(rootCmd)
	store, err := eventlog.NewRaftStore(eventlog.Config{
		NodeID:   cfg.NodeID,
		BindAddr: cfg.BindAddr,
		DataDir:  cfg.DataDir,
	})
	if err != nil {
		return fmt.Errorf("start event log: %w", err)
	}
	defer store.Close()

	for decider, eventNames := range manifest {
		for _, eventName := range eventNames {
			if err := store.RegisterDeciderEvent(decider, eventName); err != nil {
				return fmt.Errorf("register %s/%s: %w", decider, eventName, err)
			}
			fmt.Printf("registered %s/%s\n", decider, eventName)
		}
	}

	return nil
}
