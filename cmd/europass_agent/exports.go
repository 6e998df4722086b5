package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/europass-builder/internal/config"
	"github.com/jonathan/europass-builder/internal/db"
)

var (
	exportsResumeID string
	exportsLimit    int
)

var exportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "List archived exports",
	Long:  "List documents recorded in the export archive. Requires DATABASE_URL.",
	RunE:  runExports,
}

func init() {
	exportsCmd.Flags().StringVar(&exportsResumeID, "resume-id", "", "Only list exports of this resume handle")
	exportsCmd.Flags().IntVar(&exportsLimit, "limit", 50, "Maximum number of entries")
	rootCmd.AddCommand(exportsCmd)
}

func runExports(cmd *cobra.Command, _ []string) error {
	appCfg, err := config.Resolve(configPath)
	if err != nil {
		return err
	}
	if appCfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	archive, err := db.Connect(cmd.Context(), appCfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer archive.Close()

	exports, err := archive.ListExports(cmd.Context(), exportsResumeID, exportsLimit)
	if err != nil {
		return err
	}

	if len(exports) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No archived exports")
		return nil
	}
	for _, e := range exports {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n",
			e.ID, e.ResumeID, e.CandidateName, e.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
