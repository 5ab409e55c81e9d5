package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/cassiecay/portfolio-ops/internal/config"
	"github.com/cassiecay/portfolio-ops/internal/images"
)

// Warning tool for CI: reports oversized images but always exits zero,
// so a heavy original never blocks a deploy.
func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	warnings := 0
	for _, check := range []struct {
		dir   string
		limit int64
	}{
		{cfg.Images.OutputDir, images.OptimizedSizeLimit},
		{cfg.Images.SourceDir, images.OriginalSizeLimit},
	} {
		fmt.Printf("Checking %s/ (threshold: %s)...\n", check.dir, images.FormatSize(check.limit))
		report, err := images.CheckSizes(check.dir, check.limit)
		if err != nil {
			log.Fatalf("Size check failed: %v", err)
		}
		for _, o := range report {
			fmt.Printf("  WARNING: %s\n", o)
		}
		warnings += len(report)
	}

	if warnings > 0 {
		fmt.Printf("Found %d image(s) exceeding size thresholds\n", warnings)
	} else {
		fmt.Println("All images within size thresholds")
	}
}
