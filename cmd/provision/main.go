package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/acm"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cassiecay/portfolio-ops/internal/config"
	"github.com/cassiecay/portfolio-ops/internal/infra"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	bucket := flag.Bool("bucket", false, "ensure the site origin bucket")
	certificate := flag.Bool("certificate", false, "request the site certificate and wait for issuance")
	distribution := flag.String("distribution", "", "create the distribution with this certificate ARN")
	dns := flag.String("dns", "", "upsert alias records pointing at this distribution domain")
	invalidate := flag.Bool("invalidate", false, "invalidate the distribution cache after a deploy")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	regionCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	// CloudFront certificates must live in us-east-1 regardless of the
	// site bucket's region.
	usEast1Cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion("us-east-1"))
	if err != nil {
		log.Fatalf("Failed to load us-east-1 AWS config: %v", err)
	}

	prov := infra.New(
		s3.NewFromConfig(regionCfg),
		acm.NewFromConfig(usEast1Cfg),
		cloudfront.NewFromConfig(usEast1Cfg),
		route53.NewFromConfig(regionCfg),
		infra.Config{
			Domain:       cfg.Site.Domain,
			BucketName:   cfg.Site.BucketName,
			HostedZoneID: cfg.Site.HostedZoneID,
			Region:       cfg.AWS.Region,
		},
	)

	ran := false

	if *bucket {
		ran = true
		if err := prov.EnsureSiteBucket(ctx); err != nil {
			log.Fatalf("Bucket provisioning failed: %v", err)
		}
	}

	if *certificate {
		ran = true
		arn, err := prov.RequestCertificate(ctx)
		if err != nil {
			log.Fatalf("Certificate request failed: %v", err)
		}
		fmt.Printf("Certificate ARN: %s\n", arn)
		if err := prov.WaitForCertificate(ctx, arn, 30*time.Minute); err != nil {
			log.Fatalf("Certificate validation failed: %v", err)
		}
		fmt.Println("Certificate issued")
	}

	if *distribution != "" {
		ran = true
		id, domain, err := prov.CreateDistribution(ctx, *distribution)
		if err != nil {
			log.Fatalf("Distribution creation failed: %v", err)
		}
		fmt.Printf("Distribution %s at %s\n", id, domain)
	}

	if *dns != "" {
		ran = true
		if err := prov.UpsertAliasRecords(ctx, *dns); err != nil {
			log.Fatalf("DNS update failed: %v", err)
		}
	}

	if *invalidate {
		ran = true
		id, err := prov.Invalidate(ctx, cfg.Site.DistributionID, flag.Args())
		if err != nil {
			log.Fatalf("Invalidation failed: %v", err)
		}
		fmt.Printf("Invalidation %s submitted\n", id)
	}

	if !ran {
		flag.Usage()
	}
}
