package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/europass-builder/internal/config"
	"github.com/jonathan/europass-builder/internal/europass"
	"github.com/jonathan/europass-builder/internal/extraction"
	"github.com/jonathan/europass-builder/internal/ingestion"
	"github.com/jonathan/europass-builder/internal/observability"
	"github.com/jonathan/europass-builder/internal/types"
)

var (
	generateOut     string
	generateModel   string
	generateVerbose bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <source>",
	Short: "Generate a Europass XML document from a source CV",
	Long: `Generate ingests a source CV (txt, md, html, pdf, docx or an existing
Europass xml), extracts the candidate's data, and writes the Europass XML
document. Non-XML sources need GEMINI_API_KEY for field extraction.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "europass.xml", "Output XML file")
	generateCmd.Flags().StringVar(&generateModel, "model", "", "Extraction model (default: "+extraction.DefaultModel+")")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print the extracted record summary")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	appCfg, err := config.Resolve(configPath)
	if err != nil {
		return err
	}
	if generateModel != "" {
		appCfg.Model = generateModel
	}

	doc, err := ingestion.FromFile(args[0])
	if err != nil {
		return err
	}

	var resume *types.Resume
	if doc.Format == ingestion.FormatXML {
		resume, err = europass.Import(doc.Text)
		if err != nil {
			return err
		}
	} else {
		resume, err = extractResume(cmd.Context(), appCfg, doc.Text)
		if err != nil {
			return err
		}
	}

	if generateVerbose || appCfg.Verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintResumeSummary(resume)
	}

	var exporter europass.Exporter
	xml := exporter.Export(resume)

	var v europass.Validator
	if result := v.Validate(xml); !result.Valid {
		return fmt.Errorf("generated document failed validation:\n%s", result.String())
	}

	if err := os.WriteFile(generateOut, []byte(xml), 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Generated %s for %s\n", generateOut, resume.FullName())
	return nil
}

func extractResume(ctx context.Context, appCfg *config.Config, text string) (*types.Resume, error) {
	if appCfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required for extraction")
	}

	client, err := extraction.NewGeminiClient(ctx, appCfg.APIKey, appCfg.Model)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Close() }()

	extractor := &extraction.Extractor{Client: client}
	cv, err := extractor.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	return cv.ToResume()
}
