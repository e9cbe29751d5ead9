package ml

import (
	"errors"
	"fmt"
)

// ErrInvalidArtifact is returned when a model artifact is structurally unusable.
var ErrInvalidArtifact = errors.New("invalid model artifact")

// Supported artifact kinds.
const (
	KindRandomForest       = "random_forest"
	KindLogisticRegression = "logistic_regression"
)

// Artifact is the exported form of a trained classifier.
type Artifact struct {
	Kind         string     `json:"kind"`
	Version      string     `json:"version"`
	FeatureNames []string   `json:"feature_names,omitempty"`
	Classes      []int      `json:"classes"`
	Trees        []TreeSpec `json:"trees,omitempty"`
	Coef         []float64  `json:"coef,omitempty"`
	Intercept    float64    `json:"intercept,omitempty"`
	NFeatures    int        `json:"n_features"`
}

// TreeSpec holds one decision tree as parallel node arrays. Node 0 is the
// root; a node whose left child is -1 is a leaf.
type TreeSpec struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArtifact, fmt.Sprintf(format, args...))
}

// validateCommon checks the fields shared by every kind.
func (a *Artifact) validateCommon() error {
	if a.NFeatures <= 0 {
		return invalid("n_features must be positive, got %d", a.NFeatures)
	}
	if len(a.Classes) != 2 || a.Classes[0] != 0 || a.Classes[1] != 1 {
		return invalid("classes must be [0 1], got %v", a.Classes)
	}
	if len(a.FeatureNames) > 0 && len(a.FeatureNames) != a.NFeatures {
		return invalid("feature_names has %d entries, n_features is %d", len(a.FeatureNames), a.NFeatures)
	}
	return nil
}

// validate checks that t is a well-formed tree over nFeatures inputs and
// nClasses outputs. Children must point forward so traversal terminates.
func (t *TreeSpec) validate(nFeatures, nClasses int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return invalid("tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return invalid("tree node arrays have different lengths")
	}

	for i := 0; i < n; i++ {
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if left == -1 {
			if right != -1 {
				return invalid("node %d has only one child", i)
			}
			if len(t.Value[i]) != nClasses {
				return invalid("leaf %d has %d class values, want %d", i, len(t.Value[i]), nClasses)
			}
			total := 0.0
			for _, v := range t.Value[i] {
				if v < 0 {
					return invalid("leaf %d has a negative class value", i)
				}
				total += v
			}
			if total <= 0 {
				return invalid("leaf %d has an empty class distribution", i)
			}
			continue
		}
		if left <= i || left >= n || right <= i || right >= n {
			return invalid("node %d has out-of-order children %d, %d", i, left, right)
		}
		if f := t.Feature[i]; f < 0 || f >= nFeatures {
			return invalid("node %d splits on feature %d outside [0, %d)", i, f, nFeatures)
		}
	}
	return nil
}
