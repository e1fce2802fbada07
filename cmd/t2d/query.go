package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rendis/t2d/internal/query"
	"github.com/rendis/t2d/internal/recipe"
	"github.com/rendis/t2d/internal/registry"
	"github.com/rendis/t2d/pkg/schema"
)

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <processed-recipe> <jq-expression>",
		Short: "Evaluate a jq expression against a processed recipe",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newValidator()
			if err != nil {
				return err
			}
			rec, err := recipe.LoadProcessedRecipe(args[0], v)
			if err != nil {
				return err
			}

			out, err := query.NewEngine().EvaluateRecipe(cmd.Context(), args[1], rec)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

func newInferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "infer <description>...",
		Short: "Infer the canonical diagram type and default framework for a description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.Default()
			description := strings.Join(args, " ")

			diagType := reg.InferType(description)
			if diagType == schema.TypeUnknown {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: unknown\n", description)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (default framework: %s)\n",
				description, diagType, reg.DefaultFramework(diagType))
			return nil
		},
	}
}
