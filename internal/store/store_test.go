package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"jobgate/internal/job"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return st
}

func samplePosting() *job.Posting {
	min := 60000.0
	deadline := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)
	return &job.Posting{
		Title:           "Backend Engineer",
		CompanyName:     "Acme",
		Description:     "Build services in Go",
		Requirements:    "3+ years of experience",
		Location:        "Berlin",
		SalaryMin:       &min,
		JobType:         job.JobTypeFullTime,
		ExperienceLevel: job.ExperienceMid,
		Skills:          "go, sql, docker",
		IsVerified:      true,
		Confidence:      0.8,
		Deadline:        &deadline,
		IsActive:        true,
	}
}

func TestPostingRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	posting := samplePosting()
	if err := st.CreatePosting(ctx, posting); err != nil {
		t.Fatalf("creating posting: %v", err)
	}
	if posting.ID == 0 {
		t.Fatalf("expected an assigned ID")
	}
	if posting.PostedAt.IsZero() || posting.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}

	got, err := st.GetPosting(ctx, posting.ID)
	if err != nil {
		t.Fatalf("getting posting: %v", err)
	}
	if got.Title != posting.Title || got.CompanyName != posting.CompanyName {
		t.Fatalf("unexpected posting: %+v", got)
	}
	if got.SalaryMin == nil || *got.SalaryMin != 60000 {
		t.Fatalf("salary_min did not survive the round trip: %v", got.SalaryMin)
	}
	if got.SalaryMax != nil {
		t.Fatalf("expected nil salary_max, got %v", *got.SalaryMax)
	}
	if got.Deadline == nil || !got.Deadline.Equal(*posting.Deadline) {
		t.Fatalf("deadline did not survive the round trip: %v", got.Deadline)
	}
	if !got.IsVerified || got.Confidence != 0.8 {
		t.Fatalf("verdict fields did not survive: verified=%t confidence=%v", got.IsVerified, got.Confidence)
	}
}

func TestUpdatePosting(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	posting := samplePosting()
	if err := st.CreatePosting(ctx, posting); err != nil {
		t.Fatalf("creating posting: %v", err)
	}

	posting.Title = "Senior Backend Engineer"
	posting.IsVerified = false
	if err := st.UpdatePosting(ctx, posting); err != nil {
		t.Fatalf("updating posting: %v", err)
	}

	got, err := st.GetPosting(ctx, posting.ID)
	if err != nil {
		t.Fatalf("getting posting: %v", err)
	}
	if got.Title != "Senior Backend Engineer" || got.IsVerified {
		t.Fatalf("update not applied: %+v", got)
	}
}

func TestUpdateMissingPosting(t *testing.T) {
	st := newTestStore(t)

	posting := samplePosting()
	posting.ID = 12345
	if err := st.UpdatePosting(context.Background(), posting); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetVerdictAndSetActive(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	posting := samplePosting()
	posting.IsVerified = false
	posting.Confidence = 0.1
	if err := st.CreatePosting(ctx, posting); err != nil {
		t.Fatalf("creating posting: %v", err)
	}

	if err := st.SetVerdict(ctx, posting.ID, true, 0.9); err != nil {
		t.Fatalf("setting verdict: %v", err)
	}
	if err := st.SetActive(ctx, posting.ID, false); err != nil {
		t.Fatalf("setting active: %v", err)
	}

	got, err := st.GetPosting(ctx, posting.ID)
	if err != nil {
		t.Fatalf("getting posting: %v", err)
	}
	if !got.IsVerified || got.Confidence != 0.9 || got.IsActive {
		t.Fatalf("unexpected posting state: %+v", got)
	}

	if err := st.SetVerdict(ctx, 9999, true, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetPostingNotFound(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.GetPosting(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletePosting(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	posting := samplePosting()
	if err := st.CreatePosting(ctx, posting); err != nil {
		t.Fatalf("creating posting: %v", err)
	}

	if err := st.DeletePosting(ctx, posting.ID); err != nil {
		t.Fatalf("deleting posting: %v", err)
	}
	if _, err := st.GetPosting(ctx, posting.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := st.DeletePosting(ctx, posting.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a second delete, got %v", err)
	}
}

func TestListPostingsFilters(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	postings := []*job.Posting{
		{Title: "Python Developer", CompanyName: "Acme", Skills: "python, django", Location: "Berlin", JobType: job.JobTypeFullTime, ExperienceLevel: job.ExperienceMid, IsActive: true, IsVerified: true},
		{Title: "Data Analyst", CompanyName: "Globex", Skills: "sql", Location: "Remote", JobType: job.JobTypeContract, ExperienceLevel: job.ExperienceEntry, IsActive: true},
		{Title: "Old Posting", CompanyName: "Initech", Skills: "cobol", JobType: job.JobTypeFullTime, ExperienceLevel: job.ExperienceSenior, IsActive: false},
	}
	for _, p := range postings {
		if err := st.CreatePosting(ctx, p); err != nil {
			t.Fatalf("creating posting %q: %v", p.Title, err)
		}
	}

	all, err := st.ListPostings(ctx, PostingFilter{})
	if err != nil {
		t.Fatalf("listing postings: %v", err)
	}
	if all.Len() != 3 {
		t.Fatalf("expected 3 postings, got %d", all.Len())
	}

	active, err := st.ListPostings(ctx, PostingFilter{ActiveOnly: true})
	if err != nil {
		t.Fatalf("listing active postings: %v", err)
	}
	if active.Len() != 2 {
		t.Fatalf("expected 2 active postings, got %d", active.Len())
	}

	verified, err := st.ListPostings(ctx, PostingFilter{VerifiedOnly: true})
	if err != nil {
		t.Fatalf("listing verified postings: %v", err)
	}
	if verified.Len() != 1 || verified.Items[0].Title != "Python Developer" {
		t.Fatalf("unexpected verified postings: %v", verified.IDs())
	}

	search, err := st.ListPostings(ctx, PostingFilter{Search: "django"})
	if err != nil {
		t.Fatalf("searching postings: %v", err)
	}
	if search.Len() != 1 || search.Items[0].Title != "Python Developer" {
		t.Fatalf("unexpected search result: %v", search.IDs())
	}

	byType, err := st.ListPostings(ctx, PostingFilter{JobType: job.JobTypeContract})
	if err != nil {
		t.Fatalf("filtering by job type: %v", err)
	}
	if byType.Len() != 1 || byType.Items[0].Title != "Data Analyst" {
		t.Fatalf("unexpected job type result: %v", byType.IDs())
	}

	limited, err := st.ListPostings(ctx, PostingFilter{Limit: 1})
	if err != nil {
		t.Fatalf("limiting postings: %v", err)
	}
	if limited.Len() != 1 {
		t.Fatalf("expected 1 posting, got %d", limited.Len())
	}
}

func TestListFlagged(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	flagged := samplePosting()
	flagged.IsVerified = false
	verified := samplePosting()
	inactiveFlagged := samplePosting()
	inactiveFlagged.IsVerified = false
	inactiveFlagged.IsActive = false

	for _, p := range []*job.Posting{flagged, verified, inactiveFlagged} {
		if err := st.CreatePosting(ctx, p); err != nil {
			t.Fatalf("creating posting: %v", err)
		}
	}

	got, err := st.ListFlagged(ctx, 0)
	if err != nil {
		t.Fatalf("listing flagged postings: %v", err)
	}
	if got.Len() != 1 || got.Items[0].ID != flagged.ID {
		t.Fatalf("unexpected flagged postings: %v", got.IDs())
	}
}

func TestProfileRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	profile := &job.Profile{
		FullName:        "Jordan Doe",
		Email:           "jordan@example.com",
		Skills:          "python, sql",
		ExperienceYears: 4,
		Location:        "Berlin",
	}
	if err := st.CreateProfile(ctx, profile); err != nil {
		t.Fatalf("creating profile: %v", err)
	}
	if profile.ID == 0 {
		t.Fatalf("expected an assigned ID")
	}

	got, err := st.GetProfile(ctx, profile.ID)
	if err != nil {
		t.Fatalf("getting profile: %v", err)
	}
	if got.FullName != profile.FullName || got.Email != profile.Email || got.ExperienceYears != 4 {
		t.Fatalf("unexpected profile: %+v", got)
	}

	if _, err := st.GetProfile(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateApplicationRejectsDuplicates(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	posting := samplePosting()
	if err := st.CreatePosting(ctx, posting); err != nil {
		t.Fatalf("creating posting: %v", err)
	}
	profile := &job.Profile{FullName: "Jordan Doe", Email: "jordan@example.com"}
	if err := st.CreateProfile(ctx, profile); err != nil {
		t.Fatalf("creating profile: %v", err)
	}

	application := &job.Application{ProfileID: profile.ID, PostingID: posting.ID}
	if err := st.CreateApplication(ctx, application); err != nil {
		t.Fatalf("creating application: %v", err)
	}
	if application.ID == 0 {
		t.Fatalf("expected an assigned ID")
	}
	if application.Status != job.StatusPending {
		t.Fatalf("expected default status %q, got %q", job.StatusPending, application.Status)
	}

	duplicate := &job.Application{ProfileID: profile.ID, PostingID: posting.ID}
	if err := st.CreateApplication(ctx, duplicate); !errors.Is(err, ErrDuplicateApplication) {
		t.Fatalf("expected ErrDuplicateApplication, got %v", err)
	}

	ids, err := st.AppliedPostingIDs(ctx, profile.ID)
	if err != nil {
		t.Fatalf("listing applied postings: %v", err)
	}
	if len(ids) != 1 || ids[0] != posting.ID {
		t.Fatalf("unexpected applied postings: %v", ids)
	}
}
