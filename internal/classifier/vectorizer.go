package classifier

import (
	"math"
	"regexp"
	"sort"
	"strings"

	_ "embed"
)

//go:embed stopwords.txt
var stopwordsFile string

var stopwords = func() map[string]struct{} {
	words := strings.Fields(stopwordsFile)
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}()

// Tokens of at least two word characters, matching the usual bag-of-words
// tokenisation for English text.
var tokenPattern = regexp.MustCompile(`[a-z0-9][a-z0-9]+`)

// Vectorizer turns free text into fixed-width TF-IDF rows over a vocabulary
// learned at fit time. Fields are exported for gob persistence.
type Vectorizer struct {
	MaxFeatures int
	Vocabulary  map[string]int
	IDF         []float64
}

// NewVectorizer returns an unfitted vectorizer with the given vocabulary cap.
func NewVectorizer(maxFeatures int) *Vectorizer {
	return &Vectorizer{MaxFeatures: maxFeatures}
}

func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		if _, skip := stopwords[token]; skip {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// Fit learns the vocabulary (the MaxFeatures most frequent terms across the
// corpus, ties broken alphabetically) and the smoothed IDF weights.
func (v *Vectorizer) Fit(docs []string) {
	termCounts := make(map[string]int)
	docCounts := make(map[string]int)

	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, token := range tokenize(doc) {
			termCounts[token]++
			if _, ok := seen[token]; !ok {
				seen[token] = struct{}{}
				docCounts[token]++
			}
		}
	}

	terms := make([]string, 0, len(termCounts))
	for term := range termCounts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termCounts[terms[i]] != termCounts[terms[j]] {
			return termCounts[terms[i]] > termCounts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		terms = terms[:v.MaxFeatures]
	}

	// Vocabulary indices are assigned alphabetically for stable feature order.
	sort.Strings(terms)
	v.Vocabulary = make(map[string]int, len(terms))
	for i, term := range terms {
		v.Vocabulary[term] = i
	}

	n := float64(len(docs))
	v.IDF = make([]float64, len(terms))
	for term, idx := range v.Vocabulary {
		df := float64(docCounts[term])
		v.IDF[idx] = math.Log((1+n)/(1+df)) + 1
	}
}

// Transform maps text onto the fitted vocabulary, producing an l2-normalised
// TF-IDF row. Unknown terms contribute nothing; text with no known terms
// yields a zero vector.
func (v *Vectorizer) Transform(text string) []float64 {
	row := make([]float64, len(v.IDF))
	for _, token := range tokenize(text) {
		if idx, ok := v.Vocabulary[token]; ok {
			row[idx] += v.IDF[idx]
		}
	}

	var norm float64
	for _, val := range row {
		norm += val * val
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range row {
			row[i] /= norm
		}
	}
	return row
}

// Fitted reports whether Fit has been called.
func (v *Vectorizer) Fitted() bool {
	return v != nil && len(v.Vocabulary) > 0
}
