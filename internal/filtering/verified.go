package filtering

import (
	"context"

	"go.uber.org/zap"

	"jobgate/internal/job"
)

type verifiedFilter struct {
	state
}

// NewVerified creates a filter that removes postings the classifier flagged
// as fake. Only verified postings ever reach the matcher.
func NewVerified() Filter {
	return &verifiedFilter{}
}

func (f *verifiedFilter) Name() string { return "verified" }

func (f *verifiedFilter) Validate(*Config) error { return nil }

func (f *verifiedFilter) Apply(_ context.Context, deps Deps, p *job.Postings) (*job.Postings, Step, error) {
	initial := p.Len()
	removed := p.Retain(func(posting *job.Posting) bool {
		return posting.IsVerified
	})
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding unverified postings",
			zap.Int64s("excluded_postings", removed),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(removed), Left: p.Len()}, nil
}

func (f *verifiedFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
