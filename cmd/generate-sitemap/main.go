package main

import (
	"flag"
	"log"
	"path/filepath"

	"github.com/cassiecay/portfolio-ops/internal/config"
	"github.com/cassiecay/portfolio-ops/internal/sitemap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gen := &sitemap.Generator{
		SiteURL:      cfg.Site.BaseURL,
		ImageDir:     filepath.Join(cfg.Images.OutputDir, "jpeg", "full"),
		DistDir:      cfg.Site.DistDir,
		GeoLocation:  cfg.Site.GeoLocation,
		BusinessName: cfg.Site.BusinessName,
		BusinessArea: cfg.Site.BusinessArea,
	}

	if err := gen.Generate(); err != nil {
		log.Fatalf("Sitemap generation failed: %v", err)
	}
}
