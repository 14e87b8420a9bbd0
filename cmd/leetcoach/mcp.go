package main

import (
	"github.com/spf13/cobra"

	"leetcoach/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the coach as an MCP tool (ask_coach) over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()
			if err := a.verifyModel(ctx); err != nil {
				return err
			}

			return mcp.NewServer(a.client, a.chatConfig(), version, a.log).Run(ctx)
		},
	}
	addCoachFlags(cmd, false)
	return cmd
}
