package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/drawmyfeelings/journey/client"
	"github.com/drawmyfeelings/journey/internal/config"
	"github.com/drawmyfeelings/journey/internal/logger"
)

var (
	cfg        *config.Config
	serviceURL string
	apiKey     string
	debug      bool
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "drawmyfeelings",
		Short:         "Turn how you feel into a picture",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.New()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("service-url") {
				loaded.ServiceURL = serviceURL
			}
			if cmd.Flags().Changed("api-key") {
				loaded.APIKey = apiKey
			}
			if debug {
				loaded.Debug = true
				loaded.LogLevel = "debug"
			}
			if err := loaded.ResolveDefaults(); err != nil {
				return err
			}
			cfg = loaded

			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			log.Logger = logger.Console(logger.ParseLevel(cfg.LogLevel))
			zerolog.SetGlobalLevel(logger.ParseLevel(cfg.LogLevel))
			cfg.LogEvent(log.Debug()).Msg("configuration loaded")
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&serviceURL, "service-url", "", "Base URL of the generation service (default from DRAWMYFEELINGS_SERVICE_URL)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Bearer token for the generation service")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newEmotionsCmd())
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newFeelingCmd())
	rootCmd.AddCommand(newStoryCmd())
	rootCmd.AddCommand(newJourneyCmd())
	rootCmd.AddCommand(newDevServerCmd())

	return rootCmd
}

// newClient builds a client from the loaded configuration.
func newClient() (*client.Client, error) {
	opts := []client.Option{
		client.WithFeelingTimeout(cfg.FeelingTimeout),
		client.WithStoryTimeout(cfg.StoryTimeout),
		client.WithHealthTimeout(cfg.HealthTimeout),
		client.WithHTTPTimeout(cfg.StoryTimeout + 30*time.Second),
		client.WithDebugLogging(cfg.Debug),
		client.WithLogger(log.Logger),
		client.WithUserAgent("drawmyfeelings-cli"),
	}
	if cfg.APIKey != "" {
		opts = append(opts, client.WithAPIKey(cfg.APIKey))
	}
	return client.New(cfg.ServiceURL, opts...)
}
