package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rendis/t2d/internal/recipe"
	"github.com/rendis/t2d/pkg/schema"
)

func newValidateCmd() *cobra.Command {
	var processed bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate <recipe-file>",
		Short: "Validate a user or processed recipe and report every issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newValidator()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var result *schema.ValidationResult
			if processed {
				_, result, err = recipe.ParseProcessedRecipe(data, v)
			} else {
				_, result, err = recipe.ParseUserRecipe(data, v)
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else {
				printResult(cmd, result)
			}

			if !result.Valid() {
				return fmt.Errorf("%s is invalid (%d errors)", args[0], len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&processed, "processed", false, "validate as a processed recipe (includes consistency checks)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full validation result as JSON")
	return cmd
}

func printResult(cmd *cobra.Command, result *schema.ValidationResult) {
	out := cmd.OutOrStdout()
	for _, issue := range result.Errors {
		fmt.Fprintf(out, "error   %-40s %s (%s)\n", issue.Path, issue.Message, issue.Code)
	}
	for _, issue := range result.Warnings {
		fmt.Fprintf(out, "warning %-40s %s (%s)\n", issue.Path, issue.Message, issue.Code)
	}
	if result.Valid() {
		fmt.Fprintln(out, "ok")
	}
}
