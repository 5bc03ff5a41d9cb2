package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keyfold/keyfold/internal/config"
)

func NewRemoveCommand(cfg *config.Config) *cobra.Command {
	var schemaName string

	cmd := &cobra.Command{
		Use:   "remove key=value...",
		Short: "Remove one secret matching the given attributes",
		Long: `Delete the first item matching the given attributes. When several items
match, only one is removed; run the command again (or use search to
inspect the matches) to remove the rest.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := parseAttributes(args)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
			defer cancel()

			cl, err := openClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer cl.Close()

			removed, err := cl.svc.RemoveSync(ctx, cliSchema(schemaName, attrs), attrs)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no secret matches the given attributes")
			}
			cfg.Logger.Info("secret removed")
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaName, "schema", "", "Schema name to match against")

	return cmd
}
