package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heetpatel0310/Chat-Clone-App/internal/app"
	"github.com/heetpatel0310/Chat-Clone-App/internal/config"
	"github.com/heetpatel0310/Chat-Clone-App/internal/log"
)

func main() {
	var (
		configPath string
		addr       string
		dbPath     string
		logLevel   string
	)

	rootCmd := &cobra.Command{
		Use:           "chat-server",
		Short:         "Persistent broadcast chat server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(logLevel)

			cfg, path, err := config.Load(logger, configPath)
			if err != nil {
				return err
			}
			logger.Info().Str("config", path).Msg("configuration loaded")

			if addr != "" {
				cfg.ChatAddr = addr
			}
			if dbPath != "" {
				cfg.DatabasePath = dbPath
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			logger = log.New(cfg.LogLevel)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.NewChat(&cfg, logger)
			if err != nil {
				return err
			}
			return application.Run(ctx)
		},
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.Flags().StringVar(&addr, "addr", "", "TCP listen address override")
	rootCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path override")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	if err := rootCmd.Execute(); err != nil {
		logger := log.New("error")
		logger.Error().Err(err).Msg("chat server exited")
		os.Exit(1)
	}
}
