package cmd

import (
	"context"
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pkondratev/contrib-compass/internal/ai"
	"github.com/pkondratev/contrib-compass/internal/analysis"
	"github.com/pkondratev/contrib-compass/internal/logger"
	"github.com/pkondratev/contrib-compass/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis and chat API for the browser UI",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "listen address (default :8080)")
}

func serve(cmd *cobra.Command) {
	logg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logg.Fatal("getting a config", zap.Error(err))
	}

	token, err := resolveGitHubToken(config)
	if err != nil {
		logg.Fatal("loading github token", zap.Error(err))
	}

	address := cmd.Flag("address").Value.String()
	if address == "" {
		address = config.Serve.Address
	}

	fetchers := func(requestToken string) analysis.Fetcher {
		return newGitHubClient(logg, config, requestToken)
	}

	generators := func(ctx context.Context, apiKey, model string) (ai.Generator, error) {
		if !config.AI.Enabled {
			return nil, errors.New("ai chat is disabled in the config")
		}
		if apiKey == "" {
			key, err := resolveAIKey(config.AI)
			if err != nil {
				return nil, err
			}
			apiKey = key
		}
		return newGenerator(ctx, config.AI, apiKey, model)
	}

	srv := server.New(logg, config.GitHub.Org, token, fetchers, generators)

	logg.Info("starting the api server",
		zap.String("version", version),
		zap.String("address", address),
		zap.String("org", config.GitHub.Org),
	)

	if err := srv.Listen(address); err != nil {
		logg.Fatal("server stopped", zap.Error(err))
	}
}
