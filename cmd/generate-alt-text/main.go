package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/cassiecay/portfolio-ops/internal/alttext"
	"github.com/cassiecay/portfolio-ops/internal/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	inject := flag.Bool("inject", false, "inject manifest alt text into index.html instead of generating")
	htmlPath := flag.String("html", "index.html", "HTML file for -inject")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *inject {
		data, err := os.ReadFile(cfg.AltText.Manifest)
		if err != nil {
			log.Fatalf("Failed to read manifest: %v", err)
		}
		var manifest map[string]string
		if err := json.Unmarshal(data, &manifest); err != nil {
			log.Fatalf("Failed to parse manifest: %v", err)
		}
		n, err := alttext.Inject(*htmlPath, manifest)
		if err != nil {
			log.Fatalf("Injection failed: %v", err)
		}
		fmt.Printf("Injected alt text into %d images\n", n)
		return
	}

	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	gen := alttext.NewGenerator(bedrockruntime.NewFromConfig(awsCfg), cfg.AltText.ModelID, cfg.AltText.Concurrency)
	manifest, err := gen.GenerateManifest(ctx, filepath.Join(cfg.Images.OutputDir, "jpeg", "800w"))
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	out, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode manifest: %v", err)
	}
	if err := os.WriteFile(cfg.AltText.Manifest, append(out, '\n'), 0o644); err != nil {
		log.Fatalf("Failed to write manifest: %v", err)
	}
	fmt.Printf("Wrote %s with %d entries\n", cfg.AltText.Manifest, len(manifest))
}
