package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keyfold/keyfold/internal/config"
	"github.com/keyfold/keyfold/pkg/secrets"
)

func NewAliasCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias",
		Short: "Inspect and assign collection aliases",
		Long: `Collection aliases are well-known names, like "default", that resolve
to a concrete keyring collection. Reading an alias shows the collection
it points at; setting one redirects it.`,
	}

	cmd.AddCommand(newAliasReadCommand(cfg), newAliasSetCommand(cfg))
	return cmd
}

func newAliasReadCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "read name",
		Short: "Resolve an alias to its collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
			defer cancel()

			cl, err := openClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer cl.Close()

			coll, err := cl.svc.ReadAliasSync(ctx, args[0])
			if err != nil {
				return err
			}
			if coll == nil {
				cfg.Logger.Info("alias %q has no collection", args[0])
				return nil
			}
			fmt.Printf("%s\t%s\n", coll.Path(), coll.Label())
			return nil
		},
	}
}

func newAliasSetCommand(cfg *config.Config) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "set name [collection-path]",
		Short: "Point an alias at a collection",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if remove == (len(args) == 2) {
				return fmt.Errorf("give either a collection path or --remove")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
			defer cancel()

			cl, err := openClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer cl.Close()

			if remove {
				if err := cl.svc.SetAliasSync(ctx, args[0], nil); err != nil {
					return err
				}
				cfg.Logger.Info("alias %q removed", args[0])
				return nil
			}

			target := secrets.ObjectPath(args[1])
			if err := cl.svc.SetAliasPathSync(ctx, args[0], target); err != nil {
				return err
			}
			cfg.Logger.Info("alias %q now points at %s", args[0], target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the alias instead of assigning it")
	return cmd
}
