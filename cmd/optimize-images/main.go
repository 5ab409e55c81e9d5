package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/cassiecay/portfolio-ops/internal/config"
	"github.com/cassiecay/portfolio-ops/internal/images"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	opt := images.New(images.Options{
		SourceDir:   cfg.Images.SourceDir,
		OutputDir:   cfg.Images.OutputDir,
		JPEGQuality: cfg.Images.JPEGQuality,
		Concurrency: cfg.Images.Concurrency,
	})

	stats, err := opt.Run(context.Background())
	if err != nil {
		log.Fatalf("Optimization failed: %v", err)
	}

	fmt.Printf("Processed %d variants, skipped %d existing\n", stats.Processed, stats.Skipped)
	if stats.BytesIn > 0 {
		fmt.Printf("Input %d bytes, output %d bytes\n", stats.BytesIn, stats.BytesOut)
	}
	for _, e := range stats.Errors {
		fmt.Printf("ERROR: %v\n", e)
	}
	if len(stats.Errors) > 0 {
		log.Fatalf("%d images failed", len(stats.Errors))
	}
}
