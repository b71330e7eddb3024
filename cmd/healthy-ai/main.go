package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ponikar/healthy-ai/pkg/agent"
	"github.com/ponikar/healthy-ai/pkg/config"
	"github.com/ponikar/healthy-ai/pkg/server"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "healthy-ai",
	Short: "Healthcare crisis management agent",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load(configFile)
		if err != nil {
			return err
		}
		initLogging(settings.LogLevel)

		if err := settings.Validate(); err != nil {
			return err
		}

		a, err := agent.New(settings)
		if err != nil {
			return err
		}

		srv := server.New(a.Graph,
			server.WithRequestTimeout(settings.Server.RequestTimeout),
		)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return srv.ListenAndServe(ctx, settings.Server.Addr)
	},
}

func initLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})

	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file")
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
