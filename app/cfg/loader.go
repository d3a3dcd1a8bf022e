package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

// Realistic browser user agent, publishers are less likely to block it than a
// bot identifier.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/87.0.4340.112 Safari/537.36"

type stageOpts struct {
	MaxItems int `short:"m" long:"maxitems" default:"32" description:"Stop after the given number of items have been processed. Chunks the workload into batches of predictable duration"`
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"db/rss.db" description:"Path to the sqlite database. Created on first use"`

	// Pipeline configuration
	FeedsFile           string `long:"feeds-file" env:"FEEDS_FILE" default:"feeds.yml" description:"YAML file listing the RSS feed URLs"`
	Timeout             int    `long:"timeout" env:"TIMEOUT" default:"5" description:"Per-request timeout in seconds for outbound HTTP"`
	ReadabilityFallback bool   `long:"readability-fallback" env:"READABILITY_FALLBACK" description:"Run a generic readability extraction for domains without a rule"`

	// Server mode configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port (server mode)"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers (server mode)"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"300" description:"Scheduler interval in seconds (server mode)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" description:"User agent string for destination-page fetches"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Fetch    stageOpts `command:"fetch" description:"Fetch RSS feeds and store new items"`
	Download stageOpts `command:"download" description:"Resolve destination URLs and download pages for pending items"`
	Extract  stageOpts `command:"extract" description:"Extract fulltexts from downloaded pages"`
	Server   struct{}  `command:"server" description:"Run all stages periodically with an HTTP status API"`
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

	if parser.Active == nil {
		return nil, fmt.Errorf("no command specified")
	}

	cfg := &Cfg{
		DBPath:              raw.DBPath,
		FeedsFile:           raw.FeedsFile,
		MaxItems:            32,
		Timeout:             raw.Timeout,
		ReadabilityFallback: raw.ReadabilityFallback,
		Port:                raw.Port,
		WorkerCount:         raw.WorkerCount,
		SchedulerInterval:   raw.SchedulerInterval,
		UserAgent:           cmp.Or(raw.UserAgent, defaultUserAgent),
		Command:             parser.Active.Name,
		Debug:               raw.Debug,
		Version:             GetVersion(),
	}

	switch cfg.Command {
	case "fetch":
		cfg.MaxItems = raw.Fetch.MaxItems
	case "download":
		cfg.MaxItems = raw.Download.MaxItems
	case "extract":
		cfg.MaxItems = raw.Extract.MaxItems
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
