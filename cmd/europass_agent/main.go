// Package main provides the europass_agent CLI: import, export, validation
// and PDF rendering of Europass CV documents, plus the REST API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "europass_agent",
	Short: "Europass CV builder",
	Long:  "europass_agent translates between a canonical CV record and the Europass XML dialect, validates documents, and renders PDFs through the CV editor.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
