package processor

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/woozymasta/geocrs/internal/config"
	"github.com/woozymasta/geocrs/pkg/geo"
	"github.com/woozymasta/geocrs/pkg/geocrs"

	"github.com/rs/zerolog/log"
)

// Result is the outcome of a single job.
type Result struct {
	Err      error
	Job      config.Job
	Duration time.Duration
}

type batchJob struct {
	Job   config.Job
	Index int
}

type batchResult struct {
	Result
	Index int
}

// ProcessJobs runs jobs on a pool of concurrency workers and returns one
// result per job in input order. Failed jobs do not stop the others.
func ProcessJobs(cfg *config.Config, engine geocrs.Engine, jobs []config.Job, concurrency int) []Result {
	if concurrency <= 0 {
		concurrency = 1
	}

	queue := make(chan batchJob, len(jobs))
	results := make(chan batchResult, len(jobs))

	go func() {
		for i, j := range jobs {
			queue <- batchJob{Job: j, Index: i}
		}
		close(queue)
	}()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				start := time.Now()
				err := RunJob(cfg, engine, j.Job)
				if err != nil {
					log.Error().
						Err(err).
						Str("job", j.Job.Name).
						Str("input", j.Job.Input).
						Msg("Job failed")
				}
				results <- batchResult{
					Result: Result{Job: j.Job, Err: err, Duration: time.Since(start)},
					Index:  j.Index,
				}
			}
		}()
	}
	wg.Wait()
	close(results)

	ordered := make([]batchResult, 0, len(jobs))
	for res := range results {
		ordered = append(ordered, res)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	out := make([]Result, len(ordered))
	for i, res := range ordered {
		out[i] = res.Result
	}

	return out
}

// RunJob converts a single input file into its output file.
func RunJob(cfg *config.Config, engine geocrs.Engine, j config.Job) error {
	doc, err := ReadDocument(j.Input, "")
	if err != nil {
		return fmt.Errorf("read %s: %w", j.Input, err)
	}

	opts := []geocrs.Option{geocrs.WithEngine(engine)}
	if j.AllKinds {
		opts = append(opts, geocrs.WithAllKinds())
	}
	converter := geocrs.New(opts...)

	var out *geo.Document
	switch j.Mode {
	case config.ModeNormalize:
		out, err = converter.Normalize(doc)
	case config.ModeObsolete:
		out, err = converter.Obsolete(doc, cfg.TargetProjection(j), j.Datum)
	default:
		err = fmt.Errorf("unknown mode %q", j.Mode)
	}
	if err != nil {
		return err
	}

	log.Info().
		Str("job", j.Name).
		Str("mode", j.Mode).
		Str("output", j.Output).
		Int("features", len(out.Features)).
		Msg("Job processed")

	return WriteDocument(j.Output, out, Output{
		Format:    FormatFromPath(j.Output),
		Precision: cfg.Precision,
		Indent:    cfg.Indent,
	})
}
