package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/europass-builder/internal/europass"
	"github.com/jonathan/europass-builder/internal/schemas"
	"github.com/jonathan/europass-builder/internal/types"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <record.json>",
	Short: "Export a canonical JSON record to a Europass XML document",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output XML file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}

// loadRecord reads and validates a canonical record from a JSON file.
func loadRecord(path string) (*types.Resume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	if schemaPath := schemas.ResolveSchemaPath(schemas.ResumeSchemaPath); schemaPath != "" {
		if err := schemas.ValidateJSONFile(schemaPath, string(data)); err != nil {
			return nil, err
		}
	}

	var resume types.Resume
	if err := json.Unmarshal(data, &resume); err != nil {
		return nil, fmt.Errorf("invalid record JSON: %w", err)
	}
	if err := resume.Validate(); err != nil {
		return nil, err
	}
	return &resume, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	resume, err := loadRecord(args[0])
	if err != nil {
		return err
	}

	var exporter europass.Exporter
	xml := exporter.Export(resume)

	if exportOut == "" {
		fmt.Fprint(cmd.OutOrStdout(), xml)
		return nil
	}
	if err := os.WriteFile(exportOut, []byte(xml), 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s -> %s\n", resume.FullName(), exportOut)
	return nil
}
