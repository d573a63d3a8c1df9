package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Feed source configuration
	FeedEndpoint string `long:"feed-endpoint" env:"FEED_ENDPOINT" description:"Base URL of the contract events atom feed (required)" required:"true"`
	HTTPTimeout  int    `long:"http-timeout" env:"HTTP_TIMEOUT" default:"30" description:"Feed request timeout in seconds"`
	HTTPRetries  int    `long:"http-retries" env:"HTTP_RETRIES" default:"3" description:"Retries for transient feed fetch failures"`

	// Schema validation configuration
	SchemaVersion  string `long:"schema-version" env:"SCHEMA_VERSION" default:"v11.08" description:"Contract schema version to deserialize (v11.03 or v11.08)"`
	SchemaManifest string `long:"schema-manifest" env:"SCHEMA_MANIFEST" default:"contracts_v11_08.yml" description:"Schema manifest file name"`
	SchemaStrict   bool   `long:"schema-strict" env:"SCHEMA_STRICT" description:"Reject payloads that violate the schema manifest"`

	// State store configuration
	DBPath            string `long:"db-path" env:"DB_PATH" default:"./feed_processor.db" description:"SQLite database path for durable run state"`
	DefaultPageBudget int    `long:"page-budget" env:"PAGE_BUDGET" default:"10" description:"Maximum archive pages to process per run when unconfigured in the store"`

	// Archive configuration
	ArchiveBucket string `long:"archive-bucket" env:"ARCHIVE_BUCKET" description:"S3 bucket for raw payload archive (archiving disabled when empty)"`
	AWSRegion     string `long:"aws-region" env:"AWS_REGION" default:"eu-west-2" description:"AWS region of the archive bucket"`

	// Queue configuration
	NatsURL       string `long:"nats-url" env:"NATS_URL" default:"nats://localhost:4222" description:"NATS server URL"`
	StreamName    string `long:"stream-name" env:"STREAM_NAME" default:"CONTRACT_EVENTS" description:"JetStream stream for contract events"`
	SubjectPrefix string `long:"subject-prefix" env:"SUBJECT_PREFIX" default:"contracts.events" description:"Subject prefix for published contract events"`

	// Audit configuration
	AuditEndpoint string `long:"audit-endpoint" env:"AUDIT_ENDPOINT" description:"Audit API base URL (auditing disabled when empty)"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"300" description:"Seconds between scheduled feed runs (0 disables the scheduler)"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Contracts Feed Processor/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/London)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		FeedEndpoint:      raw.FeedEndpoint,
		HTTPTimeout:       raw.HTTPTimeout,
		HTTPRetries:       raw.HTTPRetries,
		SchemaVersion:     raw.SchemaVersion,
		SchemaManifest:    raw.SchemaManifest,
		SchemaStrict:      raw.SchemaStrict,
		DBPath:            raw.DBPath,
		DefaultPageBudget: raw.DefaultPageBudget,
		ArchiveBucket:     raw.ArchiveBucket,
		AWSRegion:         raw.AWSRegion,
		NatsURL:           raw.NatsURL,
		StreamName:        raw.StreamName,
		SubjectPrefix:     raw.SubjectPrefix,
		AuditEndpoint:     raw.AuditEndpoint,
		Port:              raw.Port,
		SchedulerInterval: raw.SchedulerInterval,
		APIAccessKey:      raw.APIAccessKey,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
