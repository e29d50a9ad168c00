package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/tubetally/pkg/config"
	"github.com/umputun/tubetally/pkg/feed"
	"github.com/umputun/tubetally/pkg/opml"
	"github.com/umputun/tubetally/pkg/report"
	"github.com/umputun/tubetally/pkg/tally"
	"github.com/umputun/tubetally/pkg/ytdlp"
)

// Opts with all CLI options. Options left empty fall back to the config file, then to defaults.
type Opts struct {
	Config   string        `short:"c" long:"config" env:"CONFIG" description:"yaml config file"`
	Input    string        `short:"i" long:"input" env:"INPUT" description:"OPML subscription list [default: youtubeSubscriptions.opml]"`
	Output   string        `short:"o" long:"output" env:"OUTPUT" description:"summary file [default: summary.txt]"`
	NoOutput bool          `long:"no-output" description:"print summary only, don't write the file"`
	Days     int           `short:"d" long:"days" env:"DAYS" description:"lookback window in days [default: 30]"`
	Workers  int           `short:"w" long:"workers" env:"WORKERS" description:"concurrent yt-dlp calls [default: 5]"`
	YtDlp    string        `long:"ytdlp" env:"YTDLP" description:"yt-dlp executable [default: yt-dlp]"`
	Timeout  time.Duration `long:"timeout" env:"TIMEOUT" description:"timeout per yt-dlp call [default: 5m]"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

// stdout receives the summary, replaced in tests
var stdout io.Writer = os.Stdout

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	setupLog(opts.Debug)

	log.Printf("[DEBUG] starting tubetally version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals, running yt-dlp processes are killed with the context
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[WARN] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

// run executes the whole pipeline: subscriptions, recent items, durations, summary
func run(ctx context.Context, opts Opts) error {
	st := time.Now()

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	lgr.Printf("[INFO] parsing %s", cfg.Input)
	subs, err := opml.Read(cfg.Input)
	if err != nil {
		return fmt.Errorf("failed to read subscriptions: %w", err)
	}

	lgr.Printf("[INFO] found %d feeds, fetching videos", len(subs))
	parser := feed.NewParser(feed.ParserOpts{
		Timeout:    cfg.Feed.Timeout,
		UserAgent:  cfg.Feed.UserAgent,
		Attempts:   cfg.Feed.Attempts,
		RetryDelay: cfg.Feed.RetryDelay,
	})
	items := feed.NewExtractor(parser, cfg.LookbackDays, cfg.Feed.Workers).ExtractAll(ctx, subs)
	lgr.Printf("[INFO] found %d videos uploaded in the last %d days", len(items), cfg.LookbackDays)

	lgr.Printf("[INFO] fetching durations with %s", cfg.Resolver.Path)
	source := &ytdlp.Client{Path: cfg.Resolver.Path, ExtraArgs: cfg.Resolver.ExtraArgs}
	resolver := tally.NewResolver(source, cfg.Resolver.Timeout)
	stats := tally.NewAggregator(resolver, cfg.Resolver.Workers).Run(ctx, items)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("interrupted: %w", err)
	}
	lgr.Printf("[INFO] counted %d videos, skipped %d", stats.Resolved, stats.Skipped)

	rep := report.Reporter{Out: stdout}
	if !opts.NoOutput {
		rep.OutputFile = cfg.Output
	}
	if err := rep.Report(report.Rank(stats.Totals)); err != nil {
		return fmt.Errorf("failed to report: %w", err)
	}
	if rep.OutputFile != "" {
		lgr.Printf("[INFO] summary written to %s", rep.OutputFile)
	}

	lgr.Printf("[INFO] completed in %v", time.Since(st).Round(10*time.Millisecond))
	return nil
}

// loadConfig reads the config file if set and applies CLI overrides on top
func loadConfig(opts Opts) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, err
		}
	}

	if opts.Input != "" {
		cfg.Input = opts.Input
	}
	if opts.Output != "" {
		cfg.Output = opts.Output
	}
	if opts.Days != 0 {
		cfg.LookbackDays = opts.Days
	}
	if opts.Workers != 0 {
		cfg.Resolver.Workers = opts.Workers
	}
	if opts.YtDlp != "" {
		cfg.Resolver.Path = opts.YtDlp
	}
	if opts.Timeout != 0 {
		cfg.Resolver.Timeout = opts.Timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate options: %w", err)
	}
	return cfg, nil
}

func setupLog(dbg bool) {
	logOpts := []lgr.Option{lgr.Out(os.Stderr), lgr.Err(os.Stderr)}
	if dbg {
		logOpts = append(logOpts, lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError)
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
