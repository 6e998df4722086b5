package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/europass-builder/internal/europass"
	"github.com/jonathan/europass-builder/internal/observability"
)

var validateVerbose bool

var validateCmd = &cobra.Command{
	Use:   "validate <document.xml>",
	Short: "Run structural validation over a Europass XML document",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Print findings in a formatted box")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	var v europass.Validator
	result := v.Validate(string(data))
	if validateVerbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintValidationResult(result)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), result.String())
	}

	if !result.Valid {
		return fmt.Errorf("document failed validation with %d error(s)", len(result.Errors))
	}
	return nil
}
