// Package filtering narrows a posting list to the ones eligible for
// recommendation scoring. Filters run sequentially; each reports how many
// postings it dropped.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"jobgate/internal/job"
)

// Filter represents a single filtering step applied to postings.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, p *job.Postings) (*job.Postings, Step, error)
}

// ApplicationSource lists the postings a profile already applied to.
type ApplicationSource interface {
	AppliedPostingIDs(ctx context.Context, profileID int64) ([]int64, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Applications ApplicationSource
	Logger       *zap.Logger
	Profile      *job.Profile
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	ExcludeApplied bool
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// state carries the enabled flag shared by all filters. Embed it to satisfy
// the Disable and IsEnabled parts of the Filter interface.
type state struct {
	disabled bool
	reason   string
}

func (s *state) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *state) IsEnabled() bool { return !s.disabled }

// DefaultSteps returns the standard pipeline preparing matcher input:
// active, verified, deadline, and (when configured) applied-history.
func DefaultSteps() []Filter {
	return []Filter{
		NewActive(),
		NewVerified(),
		NewDeadline(),
		NewAppliedHistory(),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially, returning the remaining postings.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, p *job.Postings) (*job.Postings, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Info("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info, err := step.Apply(ctx, deps, p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		p = next
	}

	return p, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
