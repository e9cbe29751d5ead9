package ml

import "fmt"

// RandomForest is an ensemble of decision trees whose class probabilities are
// averaged. It is immutable after construction.
type RandomForest struct {
	version      string
	featureNames []string
	classes      []int
	trees        []TreeSpec
	nFeatures    int
}

// NewRandomForest validates a random forest artifact.
func NewRandomForest(a *Artifact) (*RandomForest, error) {
	if err := a.validateCommon(); err != nil {
		return nil, err
	}
	if len(a.Trees) == 0 {
		return nil, invalid("random forest has no trees")
	}
	for i := range a.Trees {
		if err := a.Trees[i].validate(a.NFeatures, len(a.Classes)); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return &RandomForest{
		version:      a.Version,
		featureNames: a.FeatureNames,
		classes:      a.Classes,
		trees:        a.Trees,
		nFeatures:    a.NFeatures,
	}, nil
}

// Predict returns the label of the most probable class and the mean class
// distribution over all trees. Ties go to the first class.
func (rf *RandomForest) Predict(x []float64) (int, []float64, error) {
	if len(x) != rf.nFeatures {
		return 0, nil, fmt.Errorf("random forest expects %d features, got %d", rf.nFeatures, len(x))
	}

	proba := make([]float64, len(rf.classes))
	for i := range rf.trees {
		leaf := rf.trees[i].Value[rf.trees[i].leaf(x)]
		total := 0.0
		for _, v := range leaf {
			total += v
		}
		for c, v := range leaf {
			proba[c] += v / total
		}
	}

	n := float64(len(rf.trees))
	for c := range proba {
		proba[c] /= n
	}

	return rf.classes[argmax(proba)], proba, nil
}

// leaf walks the tree from the root and returns the index of the leaf x
// lands in. Features are compared in single precision, matching how the
// thresholds were learnt.
func (t *TreeSpec) leaf(x []float64) int {
	node := 0
	for t.ChildrenLeft[node] != -1 {
		if float64(float32(x[t.Feature[node]])) <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return node
}

func (rf *RandomForest) NumFeatures() int       { return rf.nFeatures }
func (rf *RandomForest) FeatureNames() []string { return copyStrings(rf.featureNames) }
func (rf *RandomForest) Classes() []int         { return append([]int(nil), rf.classes...) }
func (rf *RandomForest) Version() string        { return rf.version }

func argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
