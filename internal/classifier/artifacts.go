package classifier

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	maxFeatures = 1000
	trainSeed   = 42

	vectorizerFile = "vectorizer.gob"
	forestFile     = "fake_job_detector.gob"
)

// Model bundles the fitted vectorizer and forest. The two parts are
// persisted as separate opaque blobs; deleting them from disk forces a
// retrain on the next bootstrap.
type Model struct {
	Vectorizer *Vectorizer
	Forest     *Forest
}

// Fitted reports whether both artifacts are trained.
func (m *Model) Fitted() bool {
	return m != nil && m.Vectorizer.Fitted() && m.Forest.Fitted()
}

// Train fits a model on the built-in seed corpus.
func Train() *Model {
	texts, labels := seedCorpus()

	vectorizer := NewVectorizer(maxFeatures)
	vectorizer.Fit(texts)

	rows := make([][]float64, len(texts))
	for i, text := range texts {
		rows[i] = vectorizer.Transform(text)
	}

	return &Model{
		Vectorizer: vectorizer,
		Forest:     TrainForest(rows, labels, defaultNumTrees, trainSeed),
	}
}

// LoadModel reads both artifacts from dir.
func LoadModel(dir string) (*Model, error) {
	var vectorizer Vectorizer
	if err := decodeFile(filepath.Join(dir, vectorizerFile), &vectorizer); err != nil {
		return nil, fmt.Errorf("loading vectorizer: %w", err)
	}

	var forest Forest
	if err := decodeFile(filepath.Join(dir, forestFile), &forest); err != nil {
		return nil, fmt.Errorf("loading forest: %w", err)
	}

	model := &Model{Vectorizer: &vectorizer, Forest: &forest}
	if !model.Fitted() {
		return nil, fmt.Errorf("artifacts in %s are not fitted", dir)
	}
	return model, nil
}

// Save writes both artifacts to dir, creating it when missing.
func (m *Model) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating model dir: %w", err)
	}
	if err := encodeFile(filepath.Join(dir, vectorizerFile), m.Vectorizer); err != nil {
		return fmt.Errorf("saving vectorizer: %w", err)
	}
	if err := encodeFile(filepath.Join(dir, forestFile), m.Forest); err != nil {
		return fmt.Errorf("saving forest: %w", err)
	}
	return nil
}

// Bootstrap returns a ready classifier. Persisted artifacts are preferred;
// when they are missing or corrupt a fresh model is trained from the seed
// corpus and saved back. Persistence failures are logged and swallowed so
// that a classifier is always available.
func Bootstrap(dir string, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}

	model, err := LoadModel(dir)
	if err == nil {
		logger.Debug("loaded classifier artifacts", zap.String("dir", dir))
		return New(model, logger)
	}

	logger.Info("training classifier from seed corpus",
		zap.String("dir", dir),
		zap.Error(err),
	)

	model = Train()
	if saveErr := model.Save(dir); saveErr != nil {
		logger.Warn("could not persist classifier artifacts; continuing in memory",
			zap.String("dir", dir),
			zap.Error(saveErr),
		)
	}
	return New(model, logger)
}

func decodeFile(path string, v any) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return gob.NewDecoder(file).Decode(v)
}

func encodeFile(path string, v any) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	return gob.NewEncoder(file).Encode(v)
}
