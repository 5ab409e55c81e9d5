package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/cassiecay/portfolio-ops/internal/api"
	"github.com/cassiecay/portfolio-ops/internal/config"
	"github.com/cassiecay/portfolio-ops/internal/mailer"
	"github.com/cassiecay/portfolio-ops/internal/pkg/logger"
	"github.com/cassiecay/portfolio-ops/internal/recaptcha"
	"github.com/cassiecay/portfolio-ops/internal/secrets"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *debug {
		logger.SetLevel(logger.DEBUG)
	}

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Contact.SenderEmail == "" || cfg.Contact.ReceiverEmail == "" {
		log.Fatal("SENDER_EMAIL and RECEIVER_EMAIL must be configured")
	}

	ctx := context.Background()

	var loadOpts []func(*awsconfig.LoadOptions) error
	loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.AWS.Region))
	if profile := cfg.AWS.GetProfile(); profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	keyCache := secrets.NewCache(secretsmanager.NewFromConfig(awsCfg), cfg.Recaptcha.APIKeySecretName)
	verifier := recaptcha.NewClient(cfg.Recaptcha, keyCache)
	dispatcher := mailer.NewDispatcher(sesv2.NewFromConfig(awsCfg), cfg.Contact)

	handler := api.NewContactHandler(verifier, dispatcher, cfg.Recaptcha.ExpectedAction, cfg.Recaptcha.Threshold())
	srv := api.NewServer(cfg.Server, handler)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("contact server listening",
			"host", cfg.Server.Host,
			"port", strconv.Itoa(cfg.Server.Port))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Shutdown error: %v", err)
	}
}
