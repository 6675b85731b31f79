package main

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/cri-tools/study-atlas/pkg/models/api"
	"github.com/cri-tools/study-atlas/pkg/server"
	studyconfig "github.com/cri-tools/study-atlas/pkg/services/config"
	"github.com/cri-tools/study-atlas/pkg/services/pipeline"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath   string
	dataDir   string
	staticDir string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Study Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the study config (built-in defaults when unset)")
	rootCmd.Flags().StringVarP(&dataDir, "data-dir", "d", "data",
		"Directory holding the per-wave CSV exports")
	rootCmd.Flags().StringVarP(&staticDir, "static", "s", "web/static",
		"Directory with the dashboard assets")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// staticSnapshot serves a snapshot built once at startup. The serve command
// in the CLI is the entrypoint that supports rebuilding on data changes.
type staticSnapshot struct {
	snap api.Snapshot
}

func (s staticSnapshot) Snapshot(_ context.Context) (api.Snapshot, error) {
	return s.snap, nil
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := studyconfig.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load study config: %w", err)
	}

	p := pipeline.New(pipeline.Settings{
		DataDir: dataDir,
		Config:  cfg,
	})
	snap, summary, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to build snapshot: %w", err)
	}

	logger.Info().Msgf("Study data at `%s` successfully loaded.", dataDir)
	logger.Info().Msgf("Found the following waves:")
	for _, wave := range summary.Waves {
		logger.Info().Msgf("Timepoint: `%s`, File: `%s`, Records: %d", wave.Timepoint, wave.File, wave.Records)
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	addr := net.JoinHostPort(host, port)

	webAPI := server.NewWebAPI(server.Config{
		Addr:      addr,
		StaticDir: staticDir,
		Dependencies: server.Dependencies{
			Snapshots: staticSnapshot{snap: snap},
			Logger:    logger,
		},
	})

	return webAPI.Start()
}
