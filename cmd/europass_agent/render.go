package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/europass-builder/internal/render"
)

var (
	renderTemplates []string
	renderOutDir    string
	renderVerbose   bool
)

var renderCmd = &cobra.Command{
	Use:   "render <document.xml>",
	Short: "Render a Europass XML document to PDF through the CV editor",
	Long: `Render uploads the document to the public CV editor in a headless browser
and downloads the generated PDF. Requires Chrome or Chromium.

Available templates: ` + strings.Join(render.Templates(), ", "),
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringSliceVarP(&renderTemplates, "template", "T", nil,
		"Template to render (repeatable, default: "+string(render.DefaultTemplate)+")")
	renderCmd.Flags().StringVarP(&renderOutDir, "out-dir", "o", ".", "Output directory for PDFs")
	renderCmd.Flags().BoolVarP(&renderVerbose, "verbose", "v", false, "Log session progress")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	templates := make([]render.Template, 0, len(renderTemplates))
	for _, name := range renderTemplates {
		templates = append(templates, render.Template(name))
	}

	base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	renderer := &render.Renderer{Verbose: renderVerbose}

	paths, err := renderer.RenderAll(cmd.Context(), string(data), templates, renderOutDir, base)
	if err != nil {
		return err
	}
	for _, path := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s\n", path)
	}
	return nil
}
