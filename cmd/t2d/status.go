package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rendis/t2d/internal/recipe"
	"github.com/rendis/t2d/internal/state"
)

func newStatusCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status <processed-recipe>",
		Short: "Show per-entity generation status and the derived processing phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			logger := newLogger(cfg)

			v, err := newValidator()
			if err != nil {
				return err
			}
			rec, err := recipe.LoadProcessedRecipe(args[0], v)
			if err != nil {
				return err
			}

			store, err := newStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			coord := state.NewCoordinator(store, logger)
			statuses, err := coord.EntityStatuses(cmd.Context(), rec)
			if err != nil {
				return err
			}
			summary, err := coord.Aggregate(cmd.Context(), rec)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"summary":  summary,
					"entities": statuses,
				})
			}

			out := cmd.OutOrStdout()
			ids := make([]string, 0, len(statuses))
			for id := range statuses {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Fprintf(out, "%-40s %s\n", id, statuses[id])
			}
			fmt.Fprintf(out, "phase: %s\n", summary.Phase)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit status as JSON")
	return cmd
}
