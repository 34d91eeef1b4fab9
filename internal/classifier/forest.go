package classifier

import (
	"math"
	"math/rand"
	"sort"
)

const (
	defaultNumTrees = 100
	maxTreeDepth    = 10
)

// Node is a binary decision-tree node. Fields are exported for gob
// persistence.
type Node struct {
	Leaf      bool
	Class     int
	Feature   int
	Threshold float64
	Left      *Node
	Right     *Node
}

// Forest is a bagged ensemble of decision trees over dense feature rows.
// Training is seeded so that identical corpora yield identical forests.
type Forest struct {
	Trees []*Node
	Seed  int64
}

// TrainForest fits numTrees trees on bootstrap samples of the labelled rows.
// Labels are binary (0 or 1).
func TrainForest(rows [][]float64, labels []int, numTrees int, seed int64) *Forest {
	if numTrees <= 0 {
		numTrees = defaultNumTrees
	}

	rng := rand.New(rand.NewSource(seed))
	forest := &Forest{Seed: seed, Trees: make([]*Node, 0, numTrees)}

	for t := 0; t < numTrees; t++ {
		sample := make([]int, len(rows))
		for i := range sample {
			sample[i] = rng.Intn(len(rows))
		}
		forest.Trees = append(forest.Trees, growTree(rows, labels, sample, 0, rng))
	}
	return forest
}

func growTree(rows [][]float64, labels []int, indices []int, depth int, rng *rand.Rand) *Node {
	counts := classCounts(labels, indices)
	if counts[0] == 0 || counts[1] == 0 || depth >= maxTreeDepth || len(indices) < 2 {
		return &Node{Leaf: true, Class: majorityClass(counts)}
	}

	feature, threshold, ok := bestSplit(rows, labels, indices, rng)
	if !ok {
		return &Node{Leaf: true, Class: majorityClass(counts)}
	}

	var left, right []int
	for _, idx := range indices {
		if rows[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &Node{Leaf: true, Class: majorityClass(counts)}
	}

	return &Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(rows, labels, left, depth+1, rng),
		Right:     growTree(rows, labels, right, depth+1, rng),
	}
}

// bestSplit evaluates a sqrt-sized random subset of features and returns the
// split with the lowest weighted gini impurity, if any candidate improves on
// the parent node.
func bestSplit(rows [][]float64, labels []int, indices []int, rng *rand.Rand) (int, float64, bool) {
	numFeatures := len(rows[indices[0]])
	if numFeatures == 0 {
		return 0, 0, false
	}

	k := int(math.Ceil(math.Sqrt(float64(numFeatures))))
	perm := rng.Perm(numFeatures)[:k]

	parent := gini(classCounts(labels, indices), len(indices))
	best := parent
	bestFeature, bestThreshold := -1, 0.0

	for _, feature := range perm {
		values := make([]float64, 0, len(indices))
		for _, idx := range indices {
			values = append(values, rows[idx][feature])
		}
		sort.Float64s(values)

		for i := 1; i < len(values); i++ {
			if values[i] == values[i-1] {
				continue
			}
			threshold := (values[i] + values[i-1]) / 2

			leftCounts := [2]int{}
			leftTotal := 0
			for _, idx := range indices {
				if rows[idx][feature] <= threshold {
					leftCounts[labels[idx]]++
					leftTotal++
				}
			}
			rightCounts := [2]int{}
			for _, idx := range indices {
				if rows[idx][feature] > threshold {
					rightCounts[labels[idx]]++
				}
			}
			rightTotal := len(indices) - leftTotal

			impurity := (float64(leftTotal)*gini(leftCounts, leftTotal) +
				float64(rightTotal)*gini(rightCounts, rightTotal)) / float64(len(indices))

			if impurity < best {
				best = impurity
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func gini(counts [2]int, total int) float64 {
	if total == 0 {
		return 0
	}
	p0 := float64(counts[0]) / float64(total)
	p1 := float64(counts[1]) / float64(total)
	return 1 - p0*p0 - p1*p1
}

func classCounts(labels []int, indices []int) [2]int {
	counts := [2]int{}
	for _, idx := range indices {
		counts[labels[idx]]++
	}
	return counts
}

func majorityClass(counts [2]int) int {
	if counts[1] > counts[0] {
		return 1
	}
	return 0
}

// PredictProba returns the fraction of trees voting for each class.
func (f *Forest) PredictProba(row []float64) [2]float64 {
	probs := [2]float64{}
	if f == nil || len(f.Trees) == 0 {
		return probs
	}
	for _, tree := range f.Trees {
		probs[predict(tree, row)]++
	}
	probs[0] /= float64(len(f.Trees))
	probs[1] /= float64(len(f.Trees))
	return probs
}

func predict(node *Node, row []float64) int {
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Class
}

// Fitted reports whether the forest holds trained trees.
func (f *Forest) Fitted() bool {
	return f != nil && len(f.Trees) > 0
}
