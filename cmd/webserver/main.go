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
		chatAddr   string
		staticDir  string
		logLevel   string
	)

	rootCmd := &cobra.Command{
		Use:           "chat-webserver",
		Short:         "HTTP bridge and static file server for the chat service",
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
				cfg.WebAddr = addr
			}
			if chatAddr != "" {
				cfg.ChatServerAddr = chatAddr
			}
			if staticDir != "" {
				cfg.StaticDir = staticDir
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			logger = log.New(cfg.LogLevel)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info().Str("addr", cfg.WebAddr).Str("chat_server", cfg.ChatServerAddr).Msg("starting web server")
			return app.NewWeb(&cfg, logger).Run(ctx)
		},
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address override")
	rootCmd.Flags().StringVar(&chatAddr, "chat-addr", "", "chat server address override")
	rootCmd.Flags().StringVar(&staticDir, "static-dir", "", "static files directory override")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	if err := rootCmd.Execute(); err != nil {
		logger := log.New("error")
		logger.Error().Err(err).Msg("web server exited")
		os.Exit(1)
	}
}
