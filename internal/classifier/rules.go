package classifier

import (
	"math"
	"regexp"
	"strings"
)

// Patterns mirror the signals the rule path scores: compensation mentions,
// experience durations, skill language, contact language, and scam phrasing.
var (
	salaryPattern     = regexp.MustCompile(`\$\d+|\d+\s*(k|thousand|million)`)
	experiencePattern = regexp.MustCompile(`\d+\+?\s*(year|yr)`)
	skillPattern      = regexp.MustCompile(`skill|experience|knowledge|proficient`)
	contactPattern    = regexp.MustCompile(`email|phone|contact|apply`)
	suspiciousPattern = regexp.MustCompile(`urgent|guaranteed|easy money|work from home|no experience`)
)

const realScoreThreshold = 2

// RuleScore computes the deterministic integrity score for a posting's text.
// Positive signals add one point each, every suspicious phrase subtracts two.
func RuleScore(title, description, requirements, companyName string) int {
	text := strings.ToLower(title + " " + description + " " + requirements + " " + companyName)

	score := 0
	if salaryPattern.MatchString(text) {
		score++
	}
	if experiencePattern.MatchString(text) {
		score++
	}
	if skillPattern.MatchString(text) {
		score++
	}
	if contactPattern.MatchString(text) {
		score++
	}
	if len(companyName) > 3 {
		score++
	}
	score -= 2 * len(suspiciousPattern.FindAllString(text, -1))

	return score
}

// ruleVerdict converts a rule score into a verdict. The confidence proxy
// |score|/5 is kept as-is and can exceed 1.0 when many suspicious phrases
// stack up; callers treat it as a relative signal, not a probability.
func ruleVerdict(title, description, requirements, companyName string) Verdict {
	score := RuleScore(title, description, requirements, companyName)
	isReal := score >= realScoreThreshold

	return Verdict{
		IsReal:     isReal,
		IsFake:     !isReal,
		Confidence: math.Abs(float64(score)) / 5.0,
		Source:     SourceRules,
	}
}
