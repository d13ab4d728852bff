package main

import (
	"os"
	"time"

	"github.com/woozymasta/geocrs/internal/config"
	"github.com/woozymasta/geocrs/internal/logger"
	"github.com/woozymasta/geocrs/internal/processor"
	"github.com/woozymasta/geocrs/pkg/proj"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string   `short:"c" long:"config"      env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	Limit       []string `short:"l" long:"limit"       env:"LIMIT_JOBS"  description:"Limit processing to specific job names"`
	Concurrency int      `short:"p" long:"concurrency" env:"CONCURRENCY" description:"Concurrency" default:"4"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := processor.RegisterProjections(proj.Default, cfg.Projections); err != nil {
		log.Fatal().Err(err).Msg("Failed to register projections")
	}

	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	// Filter jobs if limit is set
	jobs := cfg.Jobs
	if len(opts.Limit) > 0 {
		jobs = make([]config.Job, 0)
		available := make(map[string]config.Job)
		for _, j := range cfg.Jobs {
			available[j.Name] = j
		}

		seen := make(map[string]bool)

		for _, name := range opts.Limit {
			if seen[name] {
				continue
			}
			seen[name] = true

			if j, ok := available[name]; ok {
				jobs = append(jobs, j)
			} else {
				log.Error().
					Str("name", name).
					Msg("Job specified in --limit not found in configuration")
			}
		}
	}

	log.Info().
		Int("jobs_total", len(cfg.Jobs)).
		Int("jobs_queued", len(jobs)).
		Int("concurrency", opts.Concurrency).
		Msg("Starting batch")

	start := time.Now()
	results := processor.ProcessJobs(cfg, proj.Default, jobs, opts.Concurrency)

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	log.Info().
		Int("succeeded", len(results)-failed).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Batch finished")

	if failed > 0 {
		os.Exit(1)
	}
}
