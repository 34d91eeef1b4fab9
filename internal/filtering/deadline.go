package filtering

import (
	"context"
	"time"

	"go.uber.org/zap"

	"jobgate/internal/job"
)

type deadlineFilter struct {
	state

	now func() time.Time
}

// NewDeadline creates a filter that removes postings whose application
// deadline has passed. Postings without a deadline are kept.
func NewDeadline() Filter {
	return &deadlineFilter{now: time.Now}
}

func (f *deadlineFilter) Name() string { return "deadline" }

func (f *deadlineFilter) Validate(*Config) error { return nil }

func (f *deadlineFilter) Apply(_ context.Context, deps Deps, p *job.Postings) (*job.Postings, Step, error) {
	initial := p.Len()
	now := f.now()
	removed := p.Retain(func(posting *job.Posting) bool {
		return posting.Deadline == nil || !posting.Deadline.Before(now)
	})
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding postings past their deadline",
			zap.Int64s("excluded_postings", removed),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(removed), Left: p.Len()}, nil
}

func (f *deadlineFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
