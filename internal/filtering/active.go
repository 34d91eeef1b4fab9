package filtering

import (
	"context"

	"go.uber.org/zap"

	"jobgate/internal/job"
)

type activeFilter struct {
	state
}

// NewActive creates a filter that removes deactivated postings.
func NewActive() Filter {
	return &activeFilter{}
}

func (f *activeFilter) Name() string { return "active" }

func (f *activeFilter) Validate(*Config) error { return nil }

func (f *activeFilter) Apply(_ context.Context, deps Deps, p *job.Postings) (*job.Postings, Step, error) {
	initial := p.Len()
	removed := p.Retain(func(posting *job.Posting) bool {
		return posting.IsActive
	})
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding inactive postings",
			zap.Int64s("excluded_postings", removed),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(removed), Left: p.Len()}, nil
}

func (f *activeFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
