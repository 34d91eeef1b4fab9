// Package classifier decides whether a job posting looks real or fake.
//
// Two branches produce a verdict: a trained TF-IDF + random-forest model
// when one is available, and a deterministic rule score over the raw text
// otherwise. Classify never fails; the rule branch guarantees a verdict for
// any input.
package classifier

import (
	"strings"

	"go.uber.org/zap"
)

// Source names the branch that produced a verdict.
type Source string

const (
	SourceModel Source = "model"
	SourceRules Source = "rules"
)

// Verdict is the classifier's judgement of a posting.
// IsFake is always the negation of IsReal. Confidence is the predicted-class
// probability on the model path and the |score|/5 proxy on the rule path.
type Verdict struct {
	IsReal     bool    `json:"is_real"`
	IsFake     bool    `json:"is_fake"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
}

// Classifier scores posting text. The model is fitted once at process start
// and treated as immutable afterwards, so a Classifier is safe for
// concurrent use.
type Classifier struct {
	model  *Model
	logger *zap.Logger
}

// New creates a classifier around the provided model. A nil or unfitted
// model routes every call to the rule branch.
func New(model *Model, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{model: model, logger: logger}
}

// Classify returns a verdict for the posting text. The model branch is taken
// only when a fitted model is present; everything else falls through to the
// rule branch.
func (c *Classifier) Classify(title, description, requirements, companyName string) Verdict {
	if c == nil || !c.model.Fitted() {
		verdict := ruleVerdict(title, description, requirements, companyName)
		c.log(title, verdict)
		return verdict
	}

	text := strings.Join([]string{title, description, requirements, companyName}, " ")
	row := c.model.Vectorizer.Transform(text)
	probs := c.model.Forest.PredictProba(row)

	isReal := probs[labelReal] > probs[labelFake]
	confidence := probs[labelFake]
	if isReal {
		confidence = probs[labelReal]
	}

	verdict := Verdict{
		IsReal:     isReal,
		IsFake:     !isReal,
		Confidence: confidence,
		Source:     SourceModel,
	}
	c.log(title, verdict)
	return verdict
}

func (c *Classifier) log(title string, verdict Verdict) {
	if c == nil || c.logger == nil {
		return
	}
	c.logger.Debug("posting classified",
		zap.String("title", title),
		zap.Bool("is_real", verdict.IsReal),
		zap.Float64("confidence", verdict.Confidence),
		zap.String("source", string(verdict.Source)),
	)
}
