package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Job is one independent model run. Each job owns its model and engine.
type Job struct {
	Name   string
	Sim    *Simulator
	Config Config
}

type Batch struct {
	jobs  []Job
	limit int
}

// NewBatch runs at most limit jobs at once; limit <= 0 means no limit.
func NewBatch(jobs []Job, limit int) *Batch {
	return &Batch{jobs: jobs, limit: limit}
}

// Run returns results in job order. The first failing job cancels the
// rest.
func (b *Batch) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(b.jobs))

	g, ctx := errgroup.WithContext(ctx)
	if b.limit > 0 {
		g.SetLimit(b.limit)
	}
	for i, job := range b.jobs {
		g.Go(func() error {
			res, err := job.Sim.Run(ctx, job.Config)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
