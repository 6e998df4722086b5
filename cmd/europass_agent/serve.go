package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/europass-builder/internal/config"
	"github.com/jonathan/europass-builder/internal/server"
)

var (
	servePort     int
	serveCapacity int
	serveVerbose  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  "Start an HTTP server exposing resume authoring, import, export, validation and rendering endpoints. Set DATABASE_URL to archive exported documents.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().IntVar(&serveCapacity, "capacity", 0, "Resume store capacity (0 means the default)")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Verbose logging")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	appCfg, err := config.Resolve(configPath)
	if err != nil {
		return err
	}

	// Flags win over config file and environment.
	if cmd.Flags().Changed("port") || appCfg.Port == 0 {
		appCfg.Port = servePort
	}
	if cmd.Flags().Changed("capacity") {
		appCfg.Capacity = serveCapacity
	}
	if serveVerbose {
		appCfg.Verbose = true
	}

	srv, err := server.New(server.Config{
		Port:        appCfg.Port,
		Capacity:    appCfg.Capacity,
		DatabaseURL: appCfg.DatabaseURL,
		EditorURL:   appCfg.EditorURL,
		Verbose:     appCfg.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start()
}
