package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models [author/slug]",
		Short: "Show a model's endpoints and whether it supports tools and reasoning",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := cmd.Flags().Set("model", args[0]); err != nil {
					return fmt.Errorf("invalid model %q: %w", args[0], err)
				}
			}
			a, err := setup(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			resp, err := a.client.ModelEndpoints(ctx, a.client.Model())
			if err != nil {
				return err
			}

			d := resp.Data
			fmt.Fprintf(os.Stdout, "%s (%s)\n", d.Name, d.ID)
			fmt.Fprintf(os.Stdout, "  tools:     %v\n", resp.SupportsTools())
			fmt.Fprintf(os.Stdout, "  reasoning: %v\n", resp.SupportsReasoning())
			for _, ep := range d.Endpoints {
				fmt.Fprintf(os.Stdout, "  - %s  ctx=%d  prompt=%s completion=%s\n    params: %s\n",
					ep.ProviderName, ep.ContextLength, ep.Pricing.Prompt, ep.Pricing.Completion,
					strings.Join(ep.SupportedParameters, ", "))
			}
			return nil
		},
	}
}
