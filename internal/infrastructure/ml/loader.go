package ml

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/bibbank/bib/services/propensity-service/internal/domain/port"
)

// LoadClassifier reads a model artifact from path. Paths ending in ".gz" are
// gunzipped first. A missing file yields an error wrapping fs.ErrNotExist.
func LoadClassifier(path string) (port.Classifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model artifact: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open compressed model artifact: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	return DecodeClassifier(r)
}

// DecodeClassifier parses and validates an artifact document.
func DecodeClassifier(r io.Reader) (port.Classifier, error) {
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	switch a.Kind {
	case KindRandomForest:
		rf, err := NewRandomForest(&a)
		if err != nil {
			return nil, err
		}
		return rf, nil
	case KindLogisticRegression:
		lr, err := NewLogisticRegression(&a)
		if err != nil {
			return nil, err
		}
		return lr, nil
	default:
		return nil, invalid("unsupported kind %q", a.Kind)
	}
}
