package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/europass-builder/internal/europass"
	"github.com/jonathan/europass-builder/internal/observability"
)

var (
	importOut     string
	importVerbose bool
)

var importCmd = &cobra.Command{
	Use:   "import <document.xml>",
	Short: "Import a Europass XML document into the canonical JSON record",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importOut, "out", "o", "", "Output JSON file (default: stdout)")
	importCmd.Flags().BoolVarP(&importVerbose, "verbose", "v", false, "Print the imported record summary")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	resume, err := europass.Import(string(data))
	if err != nil {
		return err
	}

	if importVerbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintResumeSummary(resume)
	}

	out, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if importOut == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}
	if err := os.WriteFile(importOut, append(out, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s -> %s\n", resume.FullName(), importOut)
	return nil
}
