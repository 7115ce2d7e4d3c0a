package main

import (
	"context"
	"os"
	"time"

	"coursehub/internal/config"
	"coursehub/internal/logger"

	"cloud.google.com/go/pubsub"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

// Creates the purchase topic. With PUBSUB_EMULATOR_HOST set the client talks
// to the local emulator instead of Google Cloud.
func main() {
	envErr := godotenv.Load()
	logger := logger.New()
	if envErr != nil {
		logger.Warn().Msg("No .env file found, relying on system environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Failed to load config: %v", err)
	}
	if cfg.GCPProjectID == "" {
		logger.Fatal().Msg("GCP_PROJECT_ID is not set in the environment.")
	}

	var opts []option.ClientOption
	if emulator := os.Getenv("PUBSUB_EMULATOR_HOST"); emulator != "" {
		logger.Info().Str("emulator", emulator).Msg("Using Pub/Sub emulator")
		opts = append(opts, option.WithoutAuthentication())
	} else if cfg.GCPCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCPCredentialsFile))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID, opts...)
	if err != nil {
		logger.Fatal().Msgf("Failed to create Pub/Sub client: %v", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error().Msgf("Failed to close pubsub client: %v", err)
		}
	}()

	topic := client.Topic(cfg.PubSubPurchaseTopic)
	exists, err := topic.Exists(ctx)
	if err != nil {
		logger.Fatal().Msgf("Failed to check topic %s: %v", cfg.PubSubPurchaseTopic, err)
	}
	if exists {
		logger.Info().Str("topic", cfg.PubSubPurchaseTopic).Msg("Topic already exists")
		return
	}
	if _, err := client.CreateTopic(ctx, cfg.PubSubPurchaseTopic); err != nil {
		logger.Fatal().Msgf("Failed to create topic %s: %v", cfg.PubSubPurchaseTopic, err)
	}
	logger.Info().Str("topic", cfg.PubSubPurchaseTopic).Msg("Topic created")
}
