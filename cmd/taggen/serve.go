package main

import (
	"github.com/spf13/cobra"

	"github.com/masato/tag-generator/internal/config"
	"github.com/masato/tag-generator/internal/server"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the REST API exposing the pipeline stages: POST /api/stage1/extract, POST /api/stage1/optimize, POST /api/stage2, GET /api/status, GET /health.",
	RunE:  runServeCmd,
}

var (
	servePort    int
	serveOffline bool
)

func init() {
	serveCommand.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
	serveCommand.Flags().BoolVar(&serveOffline, "offline", false, "Serve with the provider-free tag service")

	rootCmd.AddCommand(serveCommand)
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	limits, logger, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	svc, closeSvc, err := buildService(ctx, limits, logger, serveOffline)
	if err != nil {
		return err
	}
	defer func() { _ = closeSvc() }()

	providers := []string{"offline"}
	if !serveOffline {
		providers = config.LoadEnv().Configured()
	}

	srv := server.New(server.Config{
		Port:      servePort,
		Providers: providers,
		Pipeline:  limits.Pipeline,
		Service:   svc,
		Logger:    logger,
	})
	return srv.Start()
}
