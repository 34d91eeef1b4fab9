package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"jobgate/internal/job"
)

type appliedHistoryFilter struct {
	state

	exclude bool
}

// NewAppliedHistory creates a filter that removes postings the candidate
// already applied to. It only acts when enabled via configuration; by
// default applied postings stay in the list.
func NewAppliedHistory() Filter {
	return &appliedHistoryFilter{}
}

func (f *appliedHistoryFilter) Name() string { return "applied_history" }

func (f *appliedHistoryFilter) Validate(cfg *Config) error {
	f.exclude = cfg != nil && cfg.ExcludeApplied
	return nil
}

func (f *appliedHistoryFilter) Apply(ctx context.Context, deps Deps, p *job.Postings) (*job.Postings, Step, error) {
	initial := p.Len()
	if !f.exclude {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	if deps.Applications == nil {
		return p, Step{}, fmt.Errorf("application source is required")
	}
	if deps.Profile == nil {
		return p, Step{}, fmt.Errorf("profile is required")
	}

	applied, err := deps.Applications.AppliedPostingIDs(ctx, deps.Profile.ID)
	if err != nil {
		return p, Step{}, fmt.Errorf("get applied postings: %w", err)
	}

	excluded := p.Exclude(applied)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding postings based on application history",
			zap.Int64s("excluded_postings", excluded),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(excluded), Left: p.Len()}, nil
}

func (f *appliedHistoryFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{
			"exclude_applied": strconv.FormatBool(f.exclude),
		},
	}
}
