package job

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JobType enumerates the employment types a posting can carry.
type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
	JobTypeRemote     JobType = "Remote"
)

// ExperienceLevel enumerates the seniority brackets used by the matcher.
type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "Entry"
	ExperienceMid       ExperienceLevel = "Mid"
	ExperienceSenior    ExperienceLevel = "Senior"
	ExperienceExecutive ExperienceLevel = "Executive"
)

// Posting is a job listing. IsVerified and Confidence are written by the
// classifier when the posting is created or edited and read back by the
// recommendation pipeline.
type Posting struct {
	ID              int64           `json:"id,omitempty"`
	Title           string          `json:"title"`
	CompanyName     string          `json:"company_name"`
	Description     string          `json:"description"`
	Requirements    string          `json:"requirements"`
	Location        string          `json:"location"`
	SalaryMin       *float64        `json:"salary_min,omitempty"`
	SalaryMax       *float64        `json:"salary_max,omitempty"`
	JobType         JobType         `json:"job_type"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	Skills          string          `json:"skills"`
	IsRemote        bool            `json:"is_remote,omitempty"`
	IsVerified      bool            `json:"is_verified"`
	Confidence      float64         `json:"confidence"`
	PostedAt        time.Time       `json:"posted_at,omitempty"`
	UpdatedAt       time.Time       `json:"updated_at,omitempty"`
	Deadline        *time.Time      `json:"deadline,omitempty"`
	IsActive        bool            `json:"is_active"`
}

// SkillList returns the posting skills as trimmed tokens.
func (p *Posting) SkillList() []string {
	return SplitSkills(p.Skills)
}

// SalaryRange returns a display string for the salary bounds.
func (p *Posting) SalaryRange() string {
	switch {
	case p.SalaryMin != nil && p.SalaryMax != nil:
		return fmt.Sprintf("$%.0f - $%.0f", *p.SalaryMin, *p.SalaryMax)
	case p.SalaryMin != nil:
		return fmt.Sprintf("$%.0f+", *p.SalaryMin)
	case p.SalaryMax != nil:
		return fmt.Sprintf("Up to $%.0f", *p.SalaryMax)
	default:
		return "Not specified"
	}
}

type Postings struct {
	Items []*Posting
}

func (p *Postings) Len() int {
	return len(p.Items)
}

func (p *Postings) FindByID(id int64) *Posting {
	for _, posting := range p.Items {
		if posting.ID == id {
			return posting
		}
	}
	return nil
}

func (p *Postings) IDs() []int64 {
	ids := make([]int64, 0, len(p.Items))
	for _, posting := range p.Items {
		ids = append(ids, posting.ID)
	}
	return ids
}

// Retain keeps only postings for which keep returns true, preserving order,
// and returns the IDs of the removed postings.
func (p *Postings) Retain(keep func(*Posting) bool) []int64 {
	kept := make([]*Posting, 0, len(p.Items))
	var removed []int64
	for _, posting := range p.Items {
		if keep(posting) {
			kept = append(kept, posting)
			continue
		}
		removed = append(removed, posting.ID)
	}
	p.Items = kept
	return removed
}

// Exclude removes postings whose IDs appear in the targets list and returns
// the removed IDs.
func (p *Postings) Exclude(targets []int64) []int64 {
	if len(targets) == 0 {
		return nil
	}
	excluded := make(map[int64]struct{}, len(targets))
	for _, id := range targets {
		excluded[id] = struct{}{}
	}
	return p.Retain(func(posting *Posting) bool {
		_, found := excluded[posting.ID]
		return !found
	})
}

func (p *Postings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "postings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByCompany groups postings by company for display.
func (p *Postings) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, posting := range p.Items {
		report[posting.CompanyName] = append(report[posting.CompanyName], map[string]string{
			"title":            posting.Title,
			"location":         posting.Location,
			"salary":           posting.SalaryRange(),
			"job_type":         string(posting.JobType),
			"experience_level": string(posting.ExperienceLevel),
			"verified":         fmt.Sprintf("%t", posting.IsVerified),
		})
	}
	return report
}
