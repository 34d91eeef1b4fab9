package job

import "time"

// ApplicationStatus tracks where an application sits in the hiring funnel.
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "Pending"
	StatusUnderReview ApplicationStatus = "Under Review"
	StatusShortlisted ApplicationStatus = "Shortlisted"
	StatusRejected    ApplicationStatus = "Rejected"
	StatusAccepted    ApplicationStatus = "Accepted"
)

// Application links a profile to a posting. A profile can apply to a given
// posting at most once.
type Application struct {
	ID          int64             `json:"id,omitempty"`
	ProfileID   int64             `json:"profile_id"`
	PostingID   int64             `json:"posting_id"`
	CoverLetter string            `json:"cover_letter,omitempty"`
	Status      ApplicationStatus `json:"status"`
	AppliedAt   time.Time         `json:"applied_at,omitempty"`
}
