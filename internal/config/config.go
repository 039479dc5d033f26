package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort          = 3080
	defaultEnv           = "development"
	defaultSiteName      = "Solstice"
	defaultSource        = "footer"
	defaultBatchSize     = 100
	defaultRetentionDays = 180
	defaultUploadDir     = "static"
	defaultUploadMaxMB   = 12
)

// AppConfig holds runtime configuration loaded from YAML.
type AppConfig struct {
	Port           int              `yaml:"port"`
	Env            string           `yaml:"env"` // "development" | "production"
	SiteName       string           `yaml:"site_name"`
	WebURL         string           `yaml:"web_url"`
	DSN            string           `yaml:"dsn"` // MySQL DSN; overrides Database when set
	Database       DatabaseConfig   `yaml:"database"`
	RedisURL       string           `yaml:"redis_url"`
	AllowedOrigins []string         `yaml:"allowed_origins"`
	JWTSecret      string           `yaml:"jwt_secret"`
	Owner          OwnerConfig      `yaml:"owner"`
	Mail           MailConfig       `yaml:"mail"`
	Newsletter     NewsletterConfig `yaml:"newsletter"`
	Intake         IntakeConfig     `yaml:"intake"`
	Uploads        UploadConfig     `yaml:"uploads"`
}

// DatabaseConfig holds MySQL connection parameters when a full DSN is not given.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
	Loc      string `yaml:"loc"`
}

// OwnerConfig identifies the site owner (admin login, notification target).
type OwnerConfig struct {
	Name         string `yaml:"name"`
	Email        string `yaml:"email"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
}

// MailConfig holds mail provider settings.
type MailConfig struct {
	Enable    bool   `yaml:"enable"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Pass      string `yaml:"pass"`
	From      string `yaml:"from"`
	ReplyTo   string `yaml:"reply_to"`
	UseResend bool   `yaml:"use_resend"`
	ResendKey string `yaml:"resend_key"`
}

// NewsletterConfig tunes the subscription ledger and fan-out dispatcher.
type NewsletterConfig struct {
	DefaultSource string `yaml:"default_source"` // provenance tag when the caller sends none
	BatchSize     int    `yaml:"batch_size"`     // bcc recipients per transport call
}

// IntakeConfig tunes the contact/careers/media intake forms.
type IntakeConfig struct {
	NotifyOwner   bool `yaml:"notify_owner"`
	RetentionDays int  `yaml:"retention_days"`
}

// UploadConfig tunes image upload handling.
type UploadConfig struct {
	Dir       string   `yaml:"dir"`
	MaxSizeMB int      `yaml:"max_size_mb"`
	S3        S3Config `yaml:"s3"`
}

// S3Config enables mirroring uploads to an S3-compatible bucket.
type S3Config struct {
	Enable          bool   `yaml:"enable"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Endpoint        string `yaml:"endpoint"`
	CustomDomain    string `yaml:"custom_domain"`
	PathStyleAccess bool   `yaml:"path_style_access"`
	ObjectKey       string `yaml:"object_key"` // template, e.g. images/{Y}/{m}/{uuid}.{ext}
}

// Load reads and normalizes the YAML config file at path.
// A missing file is not an error: defaults apply, overridable via environment.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// run on defaults
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Port <= 0 {
		c.Port = defaultPort
	}
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env == "" {
		if env := strings.TrimSpace(os.Getenv("SOLSTICE_ENV")); env != "" {
			c.Env = strings.ToLower(env)
		} else {
			c.Env = defaultEnv
		}
	}
	if strings.TrimSpace(c.SiteName) == "" {
		c.SiteName = defaultSiteName
	}
	c.WebURL = strings.TrimRight(strings.TrimSpace(c.WebURL), "/")
	if strings.TrimSpace(c.DSN) == "" {
		c.DSN = c.Database.BuildDSN()
	}
	if strings.TrimSpace(c.RedisURL) == "" {
		c.RedisURL = "redis://localhost:6379/0"
	}
	if strings.TrimSpace(c.Newsletter.DefaultSource) == "" {
		c.Newsletter.DefaultSource = defaultSource
	}
	if c.Newsletter.BatchSize <= 0 {
		c.Newsletter.BatchSize = defaultBatchSize
	}
	if c.Intake.RetentionDays <= 0 {
		c.Intake.RetentionDays = defaultRetentionDays
	}
	if strings.TrimSpace(c.Uploads.Dir) == "" {
		c.Uploads.Dir = defaultUploadDir
	}
	if c.Uploads.MaxSizeMB <= 0 {
		c.Uploads.MaxSizeMB = defaultUploadMaxMB
	}
	if c.Mail.From == "" {
		c.Mail.From = c.Mail.User
	}
}

func (c *AppConfig) validate() error {
	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("invalid env %q: expect development or production", c.Env)
	}
	if c.Uploads.S3.Enable {
		s3 := c.Uploads.S3
		if s3.Bucket == "" || s3.Region == "" || s3.AccessKeyID == "" || s3.SecretAccessKey == "" {
			return fmt.Errorf("incomplete s3 config: bucket/region/access_key_id/secret_access_key are required")
		}
	}
	return nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env == "development" }
