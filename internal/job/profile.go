package job

import (
	"strings"
	"time"
)

// Profile holds the job-seeker attributes consumed by the matcher.
type Profile struct {
	ID              int64     `json:"id,omitempty"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	Bio             string    `json:"bio,omitempty"`
	Skills          string    `json:"skills"`
	ExperienceYears int       `json:"experience_years"`
	Education       string    `json:"education,omitempty"`
	Location        string    `json:"location,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

// SkillList returns the profile skills as trimmed tokens.
func (p *Profile) SkillList() []string {
	return SplitSkills(p.Skills)
}

// SplitSkills normalises a comma-delimited skills string into trimmed,
// non-empty tokens. Both postings and profiles store skills this way.
func SplitSkills(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token != "" {
			out = append(out, token)
		}
	}
	return out
}

// SkillSet lowercases the provided tokens into a set for case-insensitive
// intersection.
func SkillSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[strings.ToLower(token)] = struct{}{}
	}
	return set
}
