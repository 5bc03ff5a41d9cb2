package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/keyfold/keyfold/internal/config"
	"github.com/keyfold/keyfold/pkg/secrets"
)

func NewStoreCommand(cfg *config.Config) *cobra.Command {
	var (
		label      string
		schemaName string
	)

	cmd := &cobra.Command{
		Use:   "store key=value...",
		Short: "Store a secret in the keyring",
		Long: `Store a secret under the given attributes. The secret value is read
from stdin so it never appears in the process list or shell history.

An existing item with exactly the same attributes is replaced.

Examples:
  # Store a database password
  echo -n "$DB_PASSWORD" | keyfold store --label "Production DB" \
      --schema org.example.Database host=db.example.com user=app`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if label == "" {
				return fmt.Errorf("a label is required; use --label")
			}
			attrs, err := parseAttributes(args)
			if err != nil {
				return err
			}

			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading secret from stdin: %w", err)
			}
			if len(data) == 0 {
				return fmt.Errorf("refusing to store an empty secret")
			}
			value := secrets.NewValue(data, secrets.ContentTypeText)
			for i := range data {
				data[i] = 0
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
			defer cancel()

			cl, err := openClient(ctx, cfg)
			if err != nil {
				value.Destroy()
				return err
			}
			defer cl.Close()

			sc := cliSchema(schemaName, attrs)
			if err := cl.svc.StoreSync(ctx, sc, attrs, secrets.ObjectPath(cfg.Collection), label, value); err != nil {
				return err
			}
			cfg.Logger.Info("stored %q", label)
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Human-readable label for the item (required)")
	cmd.Flags().StringVar(&schemaName, "schema", "", "Schema name stored with the item")
	_ = cmd.MarkFlagRequired("label")

	return cmd
}
