package server

import (
	"context"
	"fmt"

	"github.com/mwantia/gostash/internal/agent"
	"github.com/mwantia/gostash/internal/config"
	"github.com/spf13/cobra"
)

func NewAgentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Start the GoStash Agent",
		Long:  `Start the GoStash Agent serving the HTTP API and the import watcher`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			agent := agent.NewAgent(cfg)
			if err := agent.Serve(context.Background()); err != nil {
				return err
			}

			return nil
		},
	}

	return cmd
}
