package cron

import (
	"context"
	"fmt"
	"slices"
)

// Job is one unit of scheduled work. Names must be unique within a registry;
// they label logs and metrics.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds jobs in registration order.
type Registry struct {
	jobs []Job
}

// NewRegistry registers jobs in order, skipping nils. Duplicate names are a
// wiring mistake and panic.
func NewRegistry(jobs ...Job) *Registry {
	r := &Registry{}
	for _, job := range jobs {
		if job != nil {
			r.MustRegister(job)
		}
	}
	return r
}

func (r *Registry) Register(job Job) error {
	if job == nil {
		return fmt.Errorf("nil job")
	}
	if job.Name() == "" {
		return fmt.Errorf("job name is required")
	}
	if slices.ContainsFunc(r.jobs, func(j Job) bool { return j.Name() == job.Name() }) {
		return fmt.Errorf("job %q already registered", job.Name())
	}
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *Registry) MustRegister(job Job) {
	if err := r.Register(job); err != nil {
		panic(err)
	}
}

// Jobs returns a copy of the registered jobs.
func (r *Registry) Jobs() []Job {
	return slices.Clone(r.jobs)
}
