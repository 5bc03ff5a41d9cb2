package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keyfold/keyfold/internal/config"
)

func NewGetCommand(cfg *config.Config) *cobra.Command {
	var schemaName string

	cmd := &cobra.Command{
		Use:   "get key=value...",
		Short: "Look up a single secret value",
		Long: `Retrieve one secret matching the given attributes and print it to
stdout. Locked items are unlocked on the way, which may raise a keyring
prompt. Only the raw value is printed, making the command suitable for
scripting.

Examples:
  # Fetch a password into a variable
  DB_PASSWORD=$(keyfold get --schema org.example.Database host=db.example.com user=app)`,
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

			value, err := cl.svc.LookupSync(ctx, cliSchema(schemaName, attrs), attrs)
			if err != nil {
				return err
			}
			if value == nil {
				return fmt.Errorf("no secret matches the given attributes")
			}
			defer value.Destroy()

			text, err := value.Text()
			if err != nil {
				return err
			}
			fmt.Print(text)
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaName, "schema", "", "Schema name to match against")

	return cmd
}
