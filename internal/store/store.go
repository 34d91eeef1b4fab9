// Package store persists postings, profiles, and applications in a local
// SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"jobgate/internal/job"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateApplication is returned when a profile applies to the
	// same posting twice.
	ErrDuplicateApplication = errors.New("already applied to this posting")
)

const schema = `
CREATE TABLE IF NOT EXISTS postings (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	title            TEXT NOT NULL,
	company_name     TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	requirements     TEXT NOT NULL DEFAULT '',
	location         TEXT NOT NULL DEFAULT '',
	salary_min       REAL,
	salary_max       REAL,
	job_type         TEXT NOT NULL DEFAULT 'Full-time',
	experience_level TEXT NOT NULL DEFAULT 'Entry',
	skills           TEXT NOT NULL DEFAULT '',
	is_remote        INTEGER NOT NULL DEFAULT 0,
	is_verified      INTEGER NOT NULL DEFAULT 0,
	confidence       REAL NOT NULL DEFAULT 0,
	posted_at        TEXT NOT NULL,
	updated_at       TEXT NOT NULL,
	deadline         TEXT,
	is_active        INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS profiles (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	full_name        TEXT NOT NULL,
	email            TEXT NOT NULL UNIQUE,
	bio              TEXT NOT NULL DEFAULT '',
	skills           TEXT NOT NULL DEFAULT '',
	experience_years INTEGER NOT NULL DEFAULT 0,
	education        TEXT NOT NULL DEFAULT '',
	location         TEXT NOT NULL DEFAULT '',
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS applications (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	profile_id   INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
	posting_id   INTEGER NOT NULL REFERENCES postings(id) ON DELETE CASCADE,
	cover_letter TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL DEFAULT 'Pending',
	applied_at   TEXT NOT NULL,
	UNIQUE (profile_id, posting_id)
);
`

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
}

// Open opens (and creates, if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// PostingFilter narrows ListPostings results. Zero values mean "no
// constraint".
type PostingFilter struct {
	Search          string
	Location        string
	JobType         job.JobType
	ExperienceLevel job.ExperienceLevel
	ActiveOnly      bool
	VerifiedOnly    bool
	Limit           int
}

// CreatePosting inserts the posting and fills in its ID and timestamps.
func (s *Store) CreatePosting(ctx context.Context, p *job.Posting) error {
	now := time.Now().UTC()
	p.PostedAt = now
	p.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO postings (title, company_name, description, requirements, location,
			salary_min, salary_max, job_type, experience_level, skills, is_remote,
			is_verified, confidence, posted_at, updated_at, deadline, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.CompanyName, p.Description, p.Requirements, p.Location,
		p.SalaryMin, p.SalaryMax, string(p.JobType), string(p.ExperienceLevel), p.Skills, p.IsRemote,
		p.IsVerified, p.Confidence, formatTime(now), formatTime(now), formatTimePtr(p.Deadline), p.IsActive,
	)
	if err != nil {
		return fmt.Errorf("insert posting: %w", err)
	}

	p.ID, err = res.LastInsertId()
	return err
}

// UpdatePosting rewrites all mutable posting columns, including the verdict
// fields the classifier refreshed.
func (s *Store) UpdatePosting(ctx context.Context, p *job.Posting) error {
	p.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE postings SET title = ?, company_name = ?, description = ?, requirements = ?,
			location = ?, salary_min = ?, salary_max = ?, job_type = ?, experience_level = ?,
			skills = ?, is_remote = ?, is_verified = ?, confidence = ?, updated_at = ?,
			deadline = ?, is_active = ?
		WHERE id = ?`,
		p.Title, p.CompanyName, p.Description, p.Requirements,
		p.Location, p.SalaryMin, p.SalaryMax, string(p.JobType), string(p.ExperienceLevel),
		p.Skills, p.IsRemote, p.IsVerified, p.Confidence, formatTime(p.UpdatedAt),
		formatTimePtr(p.Deadline), p.IsActive, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update posting: %w", err)
	}
	return ensureAffected(res)
}

// SetVerdict updates only the classifier-owned columns.
func (s *Store) SetVerdict(ctx context.Context, postingID int64, verified bool, confidence float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE postings SET is_verified = ?, confidence = ?, updated_at = ? WHERE id = ?`,
		verified, confidence, formatTime(time.Now().UTC()), postingID,
	)
	if err != nil {
		return fmt.Errorf("set verdict: %w", err)
	}
	return ensureAffected(res)
}

// SetActive toggles a posting's active flag.
func (s *Store) SetActive(ctx context.Context, postingID int64, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE postings SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, formatTime(time.Now().UTC()), postingID,
	)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	return ensureAffected(res)
}

func (s *Store) GetPosting(ctx context.Context, id int64) (*job.Posting, error) {
	row := s.db.QueryRowContext(ctx, selectPostings+` WHERE id = ?`, id)
	posting, err := scanPosting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return posting, err
}

func (s *Store) DeletePosting(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM postings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete posting: %w", err)
	}
	return ensureAffected(res)
}

const selectPostings = `
	SELECT id, title, company_name, description, requirements, location,
		salary_min, salary_max, job_type, experience_level, skills, is_remote,
		is_verified, confidence, posted_at, updated_at, deadline, is_active
	FROM postings`

// ListPostings returns postings matching the filter, newest first. The
// free-text search spans title, description, company name, and skills.
func (s *Store) ListPostings(ctx context.Context, filter PostingFilter) (*job.Postings, error) {
	var where []string
	var args []any

	if filter.Search != "" {
		where = append(where, `(title LIKE ? OR description LIKE ? OR company_name LIKE ? OR skills LIKE ?)`)
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern, pattern)
	}
	if filter.Location != "" {
		where = append(where, `location LIKE ?`)
		args = append(args, "%"+filter.Location+"%")
	}
	if filter.JobType != "" {
		where = append(where, `job_type = ?`)
		args = append(args, string(filter.JobType))
	}
	if filter.ExperienceLevel != "" {
		where = append(where, `experience_level = ?`)
		args = append(args, string(filter.ExperienceLevel))
	}
	if filter.ActiveOnly {
		where = append(where, `is_active = 1`)
	}
	if filter.VerifiedOnly {
		where = append(where, `is_verified = 1`)
	}

	query := selectPostings
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY posted_at DESC, id DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}
	defer rows.Close()

	postings := &job.Postings{}
	for rows.Next() {
		posting, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		postings.Items = append(postings.Items, posting)
	}
	return postings, rows.Err()
}

// ListFlagged returns active postings the classifier flagged as fake, for
// manual review.
func (s *Store) ListFlagged(ctx context.Context, limit int) (*job.Postings, error) {
	query := selectPostings + ` WHERE is_verified = 0 AND is_active = 1 ORDER BY posted_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list flagged postings: %w", err)
	}
	defer rows.Close()

	postings := &job.Postings{}
	for rows.Next() {
		posting, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		postings.Items = append(postings.Items, posting)
	}
	return postings, rows.Err()
}

// CreateProfile inserts the profile and fills in its ID and timestamps.
func (s *Store) CreateProfile(ctx context.Context, p *job.Profile) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (full_name, email, bio, skills, experience_years, education, location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.FullName, p.Email, p.Bio, p.Skills, p.ExperienceYears, p.Education, p.Location,
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	p.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetProfile(ctx context.Context, id int64) (*job.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, full_name, email, bio, skills, experience_years, education, location, created_at, updated_at
		FROM profiles WHERE id = ?`, id)

	p := &job.Profile{}
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.Bio, &p.Skills, &p.ExperienceYears,
		&p.Education, &p.Location, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

// CreateApplication records an application. A second application by the same
// profile to the same posting returns ErrDuplicateApplication.
func (s *Store) CreateApplication(ctx context.Context, a *job.Application) error {
	if a.Status == "" {
		a.Status = job.StatusPending
	}
	a.AppliedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (profile_id, posting_id, cover_letter, status, applied_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.ProfileID, a.PostingID, a.CoverLetter, string(a.Status), formatTime(a.AppliedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateApplication
		}
		return fmt.Errorf("insert application: %w", err)
	}

	a.ID, err = res.LastInsertId()
	return err
}

// AppliedPostingIDs returns the IDs of postings the profile applied to.
func (s *Store) AppliedPostingIDs(ctx context.Context, profileID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT posting_id FROM applications WHERE profile_id = ?`, profileID)
	if err != nil {
		return nil, fmt.Errorf("applied postings: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPosting(row rowScanner) (*job.Posting, error) {
	p := &job.Posting{}
	var (
		jobType, experienceLevel string
		postedAt, updatedAt      string
		deadline                 sql.NullString
	)

	err := row.Scan(&p.ID, &p.Title, &p.CompanyName, &p.Description, &p.Requirements, &p.Location,
		&p.SalaryMin, &p.SalaryMax, &jobType, &experienceLevel, &p.Skills, &p.IsRemote,
		&p.IsVerified, &p.Confidence, &postedAt, &updatedAt, &deadline, &p.IsActive)
	if err != nil {
		return nil, err
	}

	p.JobType = job.JobType(jobType)
	p.ExperienceLevel = job.ExperienceLevel(experienceLevel)
	p.PostedAt = parseTime(postedAt)
	p.UpdatedAt = parseTime(updatedAt)
	if deadline.Valid {
		t := parseTime(deadline.String)
		p.Deadline = &t
	}
	return p, nil
}

func ensureAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
