package main

import (
	"fmt"
	"os"

	"github.com/de-tools/business-pulse/pkg/app"
	"github.com/de-tools/business-pulse/pkg/server"
	"github.com/de-tools/business-pulse/pkg/services/config"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Business Pulse",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a config file (YAML, TOML or JSON); PULSE_* environment variables override it")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close application")
		}
	}()

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:            cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Reports:    application.Generator,
			Briefs:     application.Briefs,
			Businesses: application.Facts,
			Batches:    application.NewController(),
			Metrics:    application.Registry,
		},
	})

	return webAPI.Start()
}
