package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rendis/t2d/internal/recipe"
	"github.com/rendis/t2d/internal/transform"
)

func newTransformCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "transform <user-recipe>",
		Short: "Scaffold a processed recipe from a user recipe (deterministic parts only)",
		Long: "Builds the processed-recipe skeleton: inferred diagram types, framework\n" +
			"routing, agent assignment, output paths and pending progress references.\n" +
			"Instruction prose is left for the analysis collaborator to refine.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newValidator()
			if err != nil {
				return err
			}

			user, err := recipe.LoadUserRecipe(args[0], v)
			if err != nil {
				return err
			}

			processed, result := transform.Scaffold(user, args[0], v.Registry())
			if !result.Valid() {
				printResult(cmd, result)
				return fmt.Errorf("%s cannot be transformed (%d errors)", args[0], len(result.Errors))
			}

			if err := recipe.SaveProcessedRecipe(output, processed, v); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d diagrams, %d content files)\n",
				output, len(processed.DiagramSpecs), len(processed.ContentFiles))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "processed-recipe.yaml", "path for the processed recipe")
	return cmd
}
