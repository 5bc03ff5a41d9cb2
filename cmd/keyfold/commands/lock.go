package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/keyfold/keyfold/internal/config"
	"github.com/keyfold/keyfold/pkg/secrets"
)

func NewLockCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock [collection-path...]",
		Short: "Lock keyring collections",
		Long: `Lock the given collections so their secrets require unlocking again.
Without arguments the configured (or default) collection is locked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
			defer cancel()

			cl, err := openClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer cl.Close()

			count, _, err := cl.svc.LockPathsSync(ctx, targetPaths(cfg, args))
			if err != nil {
				return err
			}
			cfg.Logger.Info("locked %d object(s)", count)
			return nil
		},
	}

	return cmd
}

func NewUnlockCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlock [collection-path...]",
		Short: "Unlock keyring collections",
		Long: `Unlock the given collections, raising a keyring prompt when the service
requires confirmation. Without arguments the configured (or default)
collection is unlocked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
			defer cancel()

			cl, err := openClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer cl.Close()

			count, _, err := cl.svc.UnlockPathsSync(ctx, targetPaths(cfg, args))
			if err != nil {
				return err
			}
			cfg.Logger.Info("unlocked %d object(s)", count)
			return nil
		},
	}

	return cmd
}

// targetPaths resolves the collections a lock or unlock acts on: explicit
// arguments win, then the configured collection, then the service default.
func targetPaths(cfg *config.Config, args []string) []secrets.ObjectPath {
	if len(args) > 0 {
		paths := make([]secrets.ObjectPath, len(args))
		for i, a := range args {
			paths[i] = secrets.ObjectPath(a)
		}
		return paths
	}
	if cfg.Collection != "" {
		return []secrets.ObjectPath{secrets.ObjectPath(cfg.Collection)}
	}
	return []secrets.ObjectPath{"/org/freedesktop/secrets/aliases/default"}
}
