package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Contact   ContactConfig   `yaml:"contact"`
	Recaptcha RecaptchaConfig `yaml:"recaptcha"`
	AWS       AWSConfig       `yaml:"aws"`
	Site      SiteConfig      `yaml:"site"`
	Images    ImagesConfig    `yaml:"images"`
	AltText   AltTextConfig   `yaml:"alt_text"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ContactConfig holds contact-form email settings. The visitor-typed
// subject goes into the email body, never the subject line, so Subject
// here is the fixed subject line for every submission.
type ContactConfig struct {
	SenderEmail   string `yaml:"sender_email"`
	ReceiverEmail string `yaml:"receiver_email"`
	EmailSubject  string `yaml:"email_subject"`
}

// RecaptchaConfig holds reCAPTCHA Enterprise assessment settings.
// ScoreThreshold is a pointer so an explicit zero (accept every valid
// token) stays distinguishable from an unset field.
type RecaptchaConfig struct {
	APIKeySecretName string   `yaml:"api_key_secret_name"`
	ProjectID        string   `yaml:"project_id"`
	SiteKey          string   `yaml:"site_key"`
	ExpectedAction   string   `yaml:"expected_action"`
	ScoreThreshold   *float64 `yaml:"score_threshold"`
	TimeoutSeconds   int      `yaml:"timeout_seconds"`
}

// Threshold returns the minimum acceptable risk score, defaulting to 0.5.
func (c RecaptchaConfig) Threshold() float64 {
	if c.ScoreThreshold == nil {
		return 0.5
	}
	return *c.ScoreThreshold
}

// Timeout returns the assessment call timeout as a duration
func (c RecaptchaConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AWSConfig holds shared AWS SDK settings
type AWSConfig struct {
	Region  string `yaml:"region"`
	Profile string `yaml:"profile"` // Empty string uses default credential chain (IAM role)
}

// GetProfile returns the AWS profile, with environment variable override
func (c AWSConfig) GetProfile() string {
	if envProfile := os.Getenv("AWS_PROFILE_OVERRIDE"); envProfile != "" {
		if envProfile == "none" || envProfile == "iam" {
			return ""
		}
		return envProfile
	}
	// On ECS/Lambda, don't use a profile - use IAM role
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return ""
	}
	return c.Profile
}

// SiteConfig holds static-site settings shared by the maintenance tools
type SiteConfig struct {
	BaseURL        string `yaml:"base_url"`
	Domain         string `yaml:"domain"`
	HostedZoneID   string `yaml:"hosted_zone_id"`
	BucketName     string `yaml:"bucket_name"`
	DistributionID string `yaml:"distribution_id"`
	DistDir        string `yaml:"dist_dir"`
	GeoLocation    string `yaml:"geo_location"`
	BusinessName   string `yaml:"business_name"`
	BusinessArea   string `yaml:"business_area"`
}

// ImagesConfig holds responsive-image pipeline settings
type ImagesConfig struct {
	SourceDir   string `yaml:"source_dir"`
	OutputDir   string `yaml:"output_dir"`
	Concurrency int    `yaml:"concurrency"`
	JPEGQuality int    `yaml:"jpeg_quality"`
}

// AltTextConfig holds Bedrock vision alt-text settings
type AltTextConfig struct {
	ModelID     string `yaml:"model_id"`
	Concurrency int    `yaml:"concurrency"`
	Manifest    string `yaml:"manifest"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Contact.EmailSubject == "" {
		cfg.Contact.EmailSubject = "Contact Form Submission"
	}
	if cfg.Recaptcha.ExpectedAction == "" {
		cfg.Recaptcha.ExpectedAction = "contact_submit"
	}
	if cfg.Recaptcha.TimeoutSeconds == 0 {
		cfg.Recaptcha.TimeoutSeconds = 10
	}
	if cfg.AWS.Region == "" {
		cfg.AWS.Region = "us-east-1"
	}
	if cfg.Site.DistDir == "" {
		cfg.Site.DistDir = "dist"
	}
	if cfg.Images.SourceDir == "" {
		cfg.Images.SourceDir = "images"
	}
	if cfg.Images.OutputDir == "" {
		cfg.Images.OutputDir = "images-optimized"
	}
	if cfg.Images.Concurrency == 0 {
		cfg.Images.Concurrency = 4
	}
	if cfg.Images.JPEGQuality == 0 {
		cfg.Images.JPEGQuality = 90
	}
	if cfg.AltText.ModelID == "" {
		cfg.AltText.ModelID = "anthropic.claude-3-5-sonnet-20241022-v2:0"
	}
	if cfg.AltText.Concurrency == 0 {
		cfg.AltText.Concurrency = 3
	}
	if cfg.AltText.Manifest == "" {
		cfg.AltText.Manifest = "alt-text-manifest.json"
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars when deployed.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables if present
	if v := os.Getenv("SENDER_EMAIL"); v != "" {
		cfg.Contact.SenderEmail = v
	}
	if v := os.Getenv("RECEIVER_EMAIL"); v != "" {
		cfg.Contact.ReceiverEmail = v
	}
	if v := os.Getenv("EMAIL_SUBJECT"); v != "" {
		cfg.Contact.EmailSubject = v
	}
	if v := os.Getenv("RECAPTCHA_API_KEY_SECRET_NAME"); v != "" {
		cfg.Recaptcha.APIKeySecretName = v
	}
	if v := os.Getenv("RECAPTCHA_PROJECT_ID"); v != "" {
		cfg.Recaptcha.ProjectID = v
	}
	if v := os.Getenv("RECAPTCHA_SITE_KEY"); v != "" {
		cfg.Recaptcha.SiteKey = v
	}
	if v := os.Getenv("RECAPTCHA_SCORE_THRESHOLD"); v != "" {
		if threshold, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Recaptcha.ScoreThreshold = &threshold
		}
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.AWS.Region = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	return cfg, nil
}
