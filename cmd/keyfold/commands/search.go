package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/keyfold/keyfold/internal/config"
	"github.com/keyfold/keyfold/pkg/secrets"
)

func NewSearchCommand(cfg *config.Config) *cobra.Command {
	var (
		schemaName string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "search key=value...",
		Short: "List items matching the given attributes",
		Long: `Search the keyring for items whose attributes contain all of the given
key=value pairs. Matching items are listed with their label, object path
and lock state; secret values are never printed.`,
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

			unlocked, locked, err := cl.svc.SearchSync(ctx, cliSchema(schemaName, attrs), attrs)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printItemsJSON(unlocked, locked)
			}
			if len(unlocked)+len(locked) == 0 {
				cfg.Logger.Info("no matching items")
				return nil
			}
			printItems(unlocked, false)
			printItems(locked, true)
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaName, "schema", "", "Schema name to match against")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func printItems(items []*secrets.Item, locked bool) {
	state := "unlocked"
	if locked {
		state = "locked"
	}
	for _, it := range items {
		fmt.Printf("%s\t%s\t%s\n", it.Path(), state, it.Label())
	}
}

type itemJSON struct {
	Path       string            `json:"path"`
	Label      string            `json:"label"`
	Locked     bool              `json:"locked"`
	Attributes map[string]string `json:"attributes"`
}

func printItemsJSON(unlocked, locked []*secrets.Item) error {
	out := make([]itemJSON, 0, len(unlocked)+len(locked))
	for _, it := range unlocked {
		out = append(out, toItemJSON(it))
	}
	for _, it := range locked {
		out = append(out, toItemJSON(it))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func toItemJSON(it *secrets.Item) itemJSON {
	return itemJSON{
		Path:       string(it.Path()),
		Label:      it.Label(),
		Locked:     it.Locked(),
		Attributes: it.Attributes(),
	}
}
