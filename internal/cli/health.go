package cli

import (
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check catalog API health",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := api.Health(cmd.Context())
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			out.Print(HealthResult{Status: status})
			return nil
		},
	}
}
