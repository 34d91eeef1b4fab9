package filtering

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"jobgate/internal/job"
)

type stubApplications struct {
	ids []int64
	err error
}

func (s *stubApplications) AppliedPostingIDs(context.Context, int64) ([]int64, error) {
	return s.ids, s.err
}

func eligiblePosting(id int64) *job.Posting {
	return &job.Posting{ID: id, IsActive: true, IsVerified: true}
}

func TestRunDefaultPipeline(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(24 * time.Hour)

	postings := &job.Postings{Items: []*job.Posting{
		eligiblePosting(1),
		{ID: 2, IsActive: false, IsVerified: true},
		{ID: 3, IsActive: true, IsVerified: false},
		{ID: 4, IsActive: true, IsVerified: true, Deadline: &past},
		{ID: 5, IsActive: true, IsVerified: true, Deadline: &future},
		eligiblePosting(6),
	}}

	deps := Deps{
		Applications: &stubApplications{ids: []int64{6}},
		Logger:       zap.NewNop(),
		Profile:      &job.Profile{ID: 1},
	}
	cfg := &Config{ExcludeApplied: true}

	left, err := Run(context.Background(), cfg, deps, DefaultSteps(), postings)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	wantIDs := []int64{1, 5}
	gotIDs := left.IDs()
	if len(gotIDs) != len(wantIDs) {
		t.Fatalf("left postings = %v, want %v", gotIDs, wantIDs)
	}
	for i, id := range wantIDs {
		if gotIDs[i] != id {
			t.Fatalf("left postings = %v, want %v", gotIDs, wantIDs)
		}
	}
}

func TestAppliedHistoryKeepsPostingsByDefault(t *testing.T) {
	postings := &job.Postings{Items: []*job.Posting{eligiblePosting(1), eligiblePosting(2)}}

	deps := Deps{
		Applications: &stubApplications{ids: []int64{2}},
		Profile:      &job.Profile{ID: 1},
	}

	left, err := Run(context.Background(), &Config{}, deps, DefaultSteps(), postings)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if left.Len() != 2 {
		t.Fatalf("expected both postings kept, got %v", left.IDs())
	}
}

func TestAppliedHistoryRequiresDependencies(t *testing.T) {
	postings := &job.Postings{Items: []*job.Posting{eligiblePosting(1)}}
	cfg := &Config{ExcludeApplied: true}

	_, err := Run(context.Background(), cfg, Deps{Profile: &job.Profile{ID: 1}}, DefaultSteps(), postings)
	if err == nil || !strings.Contains(err.Error(), "applied_history") {
		t.Fatalf("expected an applied_history error, got %v", err)
	}

	deps := Deps{Applications: &stubApplications{}, Profile: nil}
	_, err = Run(context.Background(), cfg, deps, DefaultSteps(), &job.Postings{Items: []*job.Posting{eligiblePosting(1)}})
	if err == nil {
		t.Fatalf("expected an error for a missing profile")
	}
}

func TestAppliedHistoryPropagatesSourceErrors(t *testing.T) {
	postings := &job.Postings{Items: []*job.Posting{eligiblePosting(1)}}
	deps := Deps{
		Applications: &stubApplications{err: errors.New("db down")},
		Profile:      &job.Profile{ID: 1},
	}

	_, err := Run(context.Background(), &Config{ExcludeApplied: true}, deps, DefaultSteps(), postings)
	if err == nil || !strings.Contains(err.Error(), "db down") {
		t.Fatalf("expected the source error, got %v", err)
	}
}

func TestDeadlineFilterUsesInjectedClock(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	filter := &deadlineFilter{now: func() time.Time { return now }}

	before := now.Add(-time.Minute)
	exactly := now
	after := now.Add(time.Minute)
	postings := &job.Postings{Items: []*job.Posting{
		{ID: 1, Deadline: &before},
		{ID: 2, Deadline: &exactly},
		{ID: 3, Deadline: &after},
		{ID: 4},
	}}

	left, step, err := filter.Apply(context.Background(), Deps{}, postings)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if step.Dropped != 1 || step.Left != 3 {
		t.Fatalf("unexpected step: %+v", step)
	}
	if left.FindByID(1) != nil {
		t.Fatalf("posting past its deadline must be dropped")
	}
	if left.FindByID(2) == nil || left.FindByID(4) == nil {
		t.Fatalf("postings at or without a deadline must stay, got %v", left.IDs())
	}
}

func TestDisableByName(t *testing.T) {
	steps := DefaultSteps()
	DisableByName(steps, "verified", "manual review in progress")

	postings := &job.Postings{Items: []*job.Posting{
		{ID: 1, IsActive: true, IsVerified: false},
	}}

	left, err := Run(context.Background(), &Config{}, Deps{}, steps, postings)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if left.Len() != 1 {
		t.Fatalf("disabled filter must not drop postings, got %v", left.IDs())
	}

	for _, status := range Describe(steps) {
		if status.Name != "verified" {
			continue
		}
		if status.Enabled {
			t.Fatalf("verified filter must report disabled")
		}
		if status.Reason != "manual review in progress" {
			t.Fatalf("unexpected reason: %q", status.Reason)
		}
	}
}
