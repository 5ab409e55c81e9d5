// Package infra provisions the static site's AWS footprint: the private
// S3 origin bucket, the ACM certificate with DNS validation, the
// CloudFront distribution, and the Route53 alias records.
package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/acm"
	acmtypes "github.com/aws/aws-sdk-go-v2/service/acm/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/cassiecay/portfolio-ops/internal/pkg/logger"
)

// cloudFrontHostedZoneID is the fixed Route53 hosted zone for all
// CloudFront distributions.
const cloudFrontHostedZoneID = "Z2FDTNDATAQYW2"

// Config identifies the site being provisioned.
type Config struct {
	Domain       string // apex domain, e.g. cassiecayphotography.com
	BucketName   string
	HostedZoneID string
	Region       string
}

// Provisioner drives the AWS clients. ACM and CloudFront clients must be
// built against us-east-1: CloudFront only accepts certificates there.
type Provisioner struct {
	s3Client  *s3.Client
	acmClient *acm.Client
	cfClient  *cloudfront.Client
	r53Client *route53.Client
	cfg       Config
}

// New creates a provisioner from already-constructed clients.
func New(s3Client *s3.Client, acmClient *acm.Client, cfClient *cloudfront.Client, r53Client *route53.Client, cfg Config) *Provisioner {
	return &Provisioner{
		s3Client:  s3Client,
		acmClient: acmClient,
		cfClient:  cfClient,
		r53Client: r53Client,
		cfg:       cfg,
	}
}

// EnsureSiteBucket creates the private, encrypted origin bucket. The
// bucket stays fully blocked from public access; CloudFront reads it
// through origin access control.
func (p *Provisioner) EnsureSiteBucket(ctx context.Context) error {
	createInput := &s3.CreateBucketInput{
		Bucket: aws.String(p.cfg.BucketName),
	}
	if p.cfg.Region != "us-east-1" {
		createInput.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(p.cfg.Region),
		}
	}

	_, err := p.s3Client.CreateBucket(ctx, createInput)
	if err != nil && !strings.Contains(err.Error(), "BucketAlreadyOwnedByYou") {
		return fmt.Errorf("creating S3 bucket: %w", err)
	}

	_, err = p.s3Client.PutPublicAccessBlock(ctx, &s3.PutPublicAccessBlockInput{
		Bucket: aws.String(p.cfg.BucketName),
		PublicAccessBlockConfiguration: &s3types.PublicAccessBlockConfiguration{
			BlockPublicAcls:       aws.Bool(true),
			IgnorePublicAcls:      aws.Bool(true),
			BlockPublicPolicy:     aws.Bool(true),
			RestrictPublicBuckets: aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("blocking public access: %w", err)
	}

	_, err = p.s3Client.PutBucketEncryption(ctx, &s3.PutBucketEncryptionInput{
		Bucket: aws.String(p.cfg.BucketName),
		ServerSideEncryptionConfiguration: &s3types.ServerSideEncryptionConfiguration{
			Rules: []s3types.ServerSideEncryptionRule{{
				ApplyServerSideEncryptionByDefault: &s3types.ServerSideEncryptionByDefault{
					SSEAlgorithm: s3types.ServerSideEncryptionAes256,
				},
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("enabling bucket encryption: %w", err)
	}

	logger.Info("site bucket ready", "bucket", p.cfg.BucketName)
	return nil
}

// RequestCertificate requests a DNS-validated certificate covering the
// apex and www domains and upserts the validation records into Route53.
// Returns the certificate ARN; issuance is asynchronous, see
// WaitForCertificate.
func (p *Provisioner) RequestCertificate(ctx context.Context) (string, error) {
	out, err := p.acmClient.RequestCertificate(ctx, &acm.RequestCertificateInput{
		DomainName:              aws.String(p.cfg.Domain),
		SubjectAlternativeNames: []string{"www." + p.cfg.Domain},
		ValidationMethod:        acmtypes.ValidationMethodDns,
		IdempotencyToken:        aws.String(strings.ReplaceAll(uuid.New().String(), "-", "")[:32]),
		Tags: []acmtypes.Tag{
			{Key: aws.String("ManagedBy"), Value: aws.String("portfolio-ops")},
		},
	})
	if err != nil {
		return "", fmt.Errorf("requesting ACM certificate: %w", err)
	}
	certARN := aws.ToString(out.CertificateArn)

	// Validation records may take a moment to appear on the certificate.
	var changes []r53types.Change
	for attempt := 0; attempt < 6; attempt++ {
		desc, err := p.acmClient.DescribeCertificate(ctx, &acm.DescribeCertificateInput{
			CertificateArn: aws.String(certARN),
		})
		if err != nil {
			return "", fmt.Errorf("describing certificate: %w", err)
		}
		changes = changes[:0]
		for _, opt := range desc.Certificate.DomainValidationOptions {
			if opt.ResourceRecord == nil {
				continue
			}
			changes = append(changes, r53types.Change{
				Action: r53types.ChangeActionUpsert,
				ResourceRecordSet: &r53types.ResourceRecordSet{
					Name: opt.ResourceRecord.Name,
					Type: r53types.RRType(opt.ResourceRecord.Type),
					TTL:  aws.Int64(300),
					ResourceRecords: []r53types.ResourceRecord{
						{Value: opt.ResourceRecord.Value},
					},
				},
			})
		}
		if len(changes) > 0 {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
	if len(changes) == 0 {
		return "", fmt.Errorf("no validation records on certificate %s", certARN)
	}

	_, err = p.r53Client.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(p.cfg.HostedZoneID),
		ChangeBatch: &r53types.ChangeBatch{
			Changes: changes,
			Comment: aws.String("ACM validation records"),
		},
	})
	if err != nil {
		return "", fmt.Errorf("creating validation records: %w", err)
	}

	logger.Info("certificate requested", "arn", certARN, "domain", p.cfg.Domain)
	return certARN, nil
}

// WaitForCertificate polls until the certificate is issued or the
// timeout elapses.
func (p *Provisioner) WaitForCertificate(ctx context.Context, certARN string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for certificate validation")
		case <-ticker.C:
			desc, err := p.acmClient.DescribeCertificate(ctx, &acm.DescribeCertificateInput{
				CertificateArn: aws.String(certARN),
			})
			if err != nil {
				return fmt.Errorf("describing certificate: %w", err)
			}
			status := desc.Certificate.Status
			switch status {
			case acmtypes.CertificateStatusIssued:
				return nil
			case acmtypes.CertificateStatusFailed, acmtypes.CertificateStatusValidationTimedOut:
				return fmt.Errorf("certificate validation failed with status %s", status)
			}
			logger.Info("certificate pending", "status", string(status))
		}
	}
}

// CreateDistribution creates the site's CloudFront distribution: S3
// origin behind origin access control, 403/404 rewritten to /index.html
// so deep links into the single-page site resolve, PriceClass_100 to
// match the audience (US, Canada, Europe).
func (p *Provisioner) CreateDistribution(ctx context.Context, certARN string) (string, string, error) {
	oac, err := p.cfClient.CreateOriginAccessControl(ctx, &cloudfront.CreateOriginAccessControlInput{
		OriginAccessControlConfig: &cftypes.OriginAccessControlConfig{
			Name:                          aws.String(p.cfg.Domain + "-oac"),
			OriginAccessControlOriginType: cftypes.OriginAccessControlOriginTypesS3,
			SigningBehavior:               cftypes.OriginAccessControlSigningBehaviorsAlways,
			SigningProtocol:               cftypes.OriginAccessControlSigningProtocolsSigv4,
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("creating origin access control: %w", err)
	}

	s3Origin := fmt.Sprintf("%s.s3.%s.amazonaws.com", p.cfg.BucketName, p.cfg.Region)

	input := &cloudfront.CreateDistributionInput{
		DistributionConfig: &cftypes.DistributionConfig{
			CallerReference: aws.String(uuid.New().String()),
			Comment:         aws.String(fmt.Sprintf("Static site distribution for %s", p.cfg.Domain)),
			Enabled:         aws.Bool(true),
			Aliases: &cftypes.Aliases{
				Quantity: aws.Int32(2),
				Items:    []string{p.cfg.Domain, "www." + p.cfg.Domain},
			},
			DefaultRootObject: aws.String("index.html"),
			DefaultCacheBehavior: &cftypes.DefaultCacheBehavior{
				TargetOriginId:       aws.String("s3-origin"),
				ViewerProtocolPolicy: cftypes.ViewerProtocolPolicyRedirectToHttps,
				AllowedMethods: &cftypes.AllowedMethods{
					Quantity: aws.Int32(2),
					Items:    []cftypes.Method{cftypes.MethodGet, cftypes.MethodHead},
				},
				CachePolicyId: aws.String("658327ea-f89d-4fab-a63d-7e88639e58f6"), // CachingOptimized
				Compress:      aws.Bool(true),
			},
			Origins: &cftypes.Origins{
				Quantity: aws.Int32(1),
				Items: []cftypes.Origin{{
					Id:                    aws.String("s3-origin"),
					DomainName:            aws.String(s3Origin),
					OriginAccessControlId: oac.OriginAccessControl.Id,
					S3OriginConfig: &cftypes.S3OriginConfig{
						OriginAccessIdentity: aws.String(""),
					},
				}},
			},
			CustomErrorResponses: &cftypes.CustomErrorResponses{
				Quantity: aws.Int32(2),
				Items: []cftypes.CustomErrorResponse{
					{
						ErrorCode:          aws.Int32(403),
						ResponseCode:       aws.String("200"),
						ResponsePagePath:   aws.String("/index.html"),
						ErrorCachingMinTTL: aws.Int64(10),
					},
					{
						ErrorCode:          aws.Int32(404),
						ResponseCode:       aws.String("200"),
						ResponsePagePath:   aws.String("/index.html"),
						ErrorCachingMinTTL: aws.Int64(10),
					},
				},
			},
			PriceClass: cftypes.PriceClassPriceClass100,
			ViewerCertificate: &cftypes.ViewerCertificate{
				ACMCertificateArn:      aws.String(certARN),
				SSLSupportMethod:       cftypes.SSLSupportMethodSniOnly,
				MinimumProtocolVersion: cftypes.MinimumProtocolVersionTLSv122021,
			},
		},
	}

	out, err := p.cfClient.CreateDistribution(ctx, input)
	if err != nil {
		return "", "", fmt.Errorf("creating CloudFront distribution: %w", err)
	}

	distID := aws.ToString(out.Distribution.Id)
	distDomain := aws.ToString(out.Distribution.DomainName)
	logger.Info("distribution created", "id", distID, "domain", distDomain)
	return distID, distDomain, nil
}

// UpsertAliasRecords points the apex and www names at the distribution.
func (p *Provisioner) UpsertAliasRecords(ctx context.Context, distributionDomain string) error {
	var changes []r53types.Change
	for _, name := range []string{p.cfg.Domain, "www." + p.cfg.Domain} {
		changes = append(changes, r53types.Change{
			Action: r53types.ChangeActionUpsert,
			ResourceRecordSet: &r53types.ResourceRecordSet{
				Name: aws.String(name + "."),
				Type: r53types.RRTypeA,
				AliasTarget: &r53types.AliasTarget{
					HostedZoneId:         aws.String(cloudFrontHostedZoneID),
					DNSName:              aws.String(distributionDomain),
					EvaluateTargetHealth: false,
				},
			},
		})
	}

	_, err := p.r53Client.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(p.cfg.HostedZoneID),
		ChangeBatch: &r53types.ChangeBatch{
			Changes: changes,
			Comment: aws.String("Site alias records"),
		},
	})
	if err != nil {
		return fmt.Errorf("upserting alias records: %w", err)
	}

	logger.Info("alias records upserted", "domain", p.cfg.Domain, "target", distributionDomain)
	return nil
}

// Invalidate flushes CloudFront paths after a deploy.
func (p *Provisioner) Invalidate(ctx context.Context, distributionID string, paths []string) (string, error) {
	if len(paths) == 0 {
		paths = []string{"/*"}
	}
	out, err := p.cfClient.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(distributionID),
		InvalidationBatch: &cftypes.InvalidationBatch{
			CallerReference: aws.String(uuid.New().String()),
			Paths: &cftypes.Paths{
				Quantity: aws.Int32(int32(len(paths))),
				Items:    paths,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("creating invalidation: %w", err)
	}
	id := aws.ToString(out.Invalidation.Id)
	logger.Info("invalidation created", "id", id, "paths", strings.Join(paths, " "))
	return id, nil
}
