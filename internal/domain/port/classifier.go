package port

// Classifier is a trained binary classifier. Implementations are immutable
// after construction and must be safe for concurrent use.
type Classifier interface {
	// Predict scores one feature row and returns the predicted class label and
	// the per-class probabilities in class order.
	Predict(x []float64) (int, []float64, error)
	// NumFeatures is the input width the classifier was trained with.
	NumFeatures() int
	// FeatureNames returns the training-time column names, or nil when the
	// artifact did not record them.
	FeatureNames() []string
	Classes() []int
	Version() string
}
