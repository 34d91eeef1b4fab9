package classifier

// Seed texts used to bootstrap the model when no persisted artifacts exist.
// They are a fixture that guarantees the model path is always available, not
// a statistically sound training corpus.
var (
	seedFake = []string{
		"Work from home! Make $5000/week! No experience needed!",
		"Easy money! Just send us your personal information!",
		"Get rich quick! No skills required!",
		"Urgent hiring! Send money for processing!",
	}

	seedReal = []string{
		"We are looking for an experienced Python developer with Django knowledge.",
		"Software Engineer position requiring 3+ years of experience in web development.",
		"Full-time position with competitive salary and benefits package.",
		"Join our team as a Senior Developer. Must have experience with React and Node.js.",
	}
)

const (
	labelFake = 0
	labelReal = 1
)

func seedCorpus() (texts []string, labels []int) {
	texts = append(texts, seedFake...)
	texts = append(texts, seedReal...)
	for range seedFake {
		labels = append(labels, labelFake)
	}
	for range seedReal {
		labels = append(labels, labelReal)
	}
	return texts, labels
}
