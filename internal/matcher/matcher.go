// Package matcher ranks verified job postings against a candidate profile.
//
// Scoring is a weighted sum of three terms: skill overlap, experience
// bracket, and location affinity. Scores are relative within a batch; they
// are normalised against the best raw score of the same call and have no
// meaning across calls.
package matcher

import (
	"sort"
	"strings"

	"jobgate/internal/job"
)

const (
	skillPoints    = 10
	bracketPoints  = 5
	locationPoints = 3

	// MaxResults caps the recommendation list length.
	MaxResults = 10
)

// Result is one scored posting. NormalizedScore rescales RawScore to 0-100
// against the best raw score in the batch.
type Result struct {
	Posting         *job.Posting `json:"posting"`
	RawScore        int          `json:"raw_score"`
	NormalizedScore int          `json:"normalized_score"`
}

// Score computes the raw match score for one posting. A zero score means the
// posting has nothing in common with the profile and will be dropped by
// Recommend.
func Score(profile *job.Profile, posting *job.Posting) int {
	score := 0

	userSkills := job.SkillSet(profile.SkillList())
	postingSkills := job.SkillSet(posting.SkillList())
	if len(userSkills) > 0 && len(postingSkills) > 0 {
		common := 0
		for skill := range userSkills {
			if _, ok := postingSkills[skill]; ok {
				common++
			}
		}
		score += common * skillPoints
	}

	years := profile.ExperienceYears
	switch posting.ExperienceLevel {
	case job.ExperienceEntry:
		if years <= 2 {
			score += bracketPoints
		}
	case job.ExperienceMid:
		if years > 2 && years <= 5 {
			score += bracketPoints
		}
	case job.ExperienceSenior:
		if years > 5 {
			score += bracketPoints
		}
		// Executive postings never earn bracket points.
	}

	if profile.Location != "" && posting.Location != "" {
		userLoc := strings.ToLower(profile.Location)
		postingLoc := strings.ToLower(posting.Location)
		if strings.Contains(userLoc, postingLoc) || strings.Contains(postingLoc, userLoc) {
			score += locationPoints
		}
	}

	return score
}

// Recommend scores every posting, drops zero scores, normalises the rest
// against the batch maximum, and returns at most MaxResults results sorted
// by descending raw score. Ties keep their input order. Callers are expected
// to pass postings already narrowed to active and verified.
func Recommend(profile *job.Profile, postings *job.Postings) []Result {
	if profile == nil || postings == nil || postings.Len() == 0 {
		return nil
	}

	scored := make([]Result, 0, postings.Len())
	maxScore := 0
	for _, posting := range postings.Items {
		raw := Score(profile, posting)
		if raw == 0 {
			continue
		}
		if raw > maxScore {
			maxScore = raw
		}
		scored = append(scored, Result{Posting: posting, RawScore: raw})
	}
	if len(scored) == 0 {
		return nil
	}

	for i := range scored {
		normalized := scored[i].RawScore * 100 / maxScore
		if normalized > 100 {
			normalized = 100
		}
		scored[i].NormalizedScore = normalized
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RawScore > scored[j].RawScore
	})

	if len(scored) > MaxResults {
		scored = scored[:MaxResults]
	}
	return scored
}
