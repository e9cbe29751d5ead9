package service

import (
	"fmt"

	"github.com/bibbank/bib/services/propensity-service/internal/domain/model"
)

// FeatureCount is the width of the model input.
const FeatureCount = 41

// categoricalField describes one one-hot encoded attribute. Categories lists
// the values that own a column, in column order; Reference is the baseline
// value that was dropped at training time and encodes as all-zero.
type categoricalField struct {
	Name       string
	Categories []string
	Reference  string
	value      func(model.CustomerProfile) string
}

var numericColumns = []string{"age", "balance", "day", "campaign", "pdays", "previous"}

func numericValues(p model.CustomerProfile) []float64 {
	return []float64{
		float64(p.Age),
		p.Balance,
		float64(p.Day),
		float64(p.Campaign),
		float64(p.Pdays),
		float64(p.Previous),
	}
}

// Order matters: it is the column order the model was trained with.
var categoricalFields = []categoricalField{
	{
		Name: "job",
		Categories: []string{
			"blue-collar", "entrepreneur", "housemaid", "management", "retired",
			"self-employed", "services", "student", "technician", "unemployed", "unknown",
		},
		Reference: "admin.",
		value:     func(p model.CustomerProfile) string { return p.Job },
	},
	{
		Name:       "marital",
		Categories: []string{"married", "single"},
		Reference:  "divorced",
		value:      func(p model.CustomerProfile) string { return p.Marital },
	},
	{
		Name:       "education",
		Categories: []string{"secondary", "tertiary", "unknown"},
		Reference:  "primary",
		value:      func(p model.CustomerProfile) string { return p.Education },
	},
	{
		Name:       "default",
		Categories: []string{"yes"},
		Reference:  "no",
		value:      func(p model.CustomerProfile) string { return p.Default },
	},
	{
		Name:       "housing",
		Categories: []string{"yes"},
		Reference:  "no",
		value:      func(p model.CustomerProfile) string { return p.Housing },
	},
	{
		Name:       "loan",
		Categories: []string{"yes"},
		Reference:  "no",
		value:      func(p model.CustomerProfile) string { return p.Loan },
	},
	{
		Name:       "contact",
		Categories: []string{"telephone", "unknown"},
		Reference:  "cellular",
		value:      func(p model.CustomerProfile) string { return p.Contact },
	},
	{
		Name: "month",
		Categories: []string{
			"aug", "dec", "feb", "jan", "jul", "jun", "mar", "may", "nov", "oct", "sep",
		},
		Reference: "apr",
		value:     func(p model.CustomerProfile) string { return p.Month },
	},
	{
		Name:       "poutcome",
		Categories: []string{"other", "success", "unknown"},
		Reference:  "failure",
		value:      func(p model.CustomerProfile) string { return p.Poutcome },
	},
}

// featureColumns and columnIndex are derived once from the tables above and
// never mutated afterwards.
var (
	featureColumns = buildColumns()
	columnIndex    = buildColumnIndex()
)

func buildColumns() []string {
	cols := make([]string, 0, FeatureCount)
	cols = append(cols, numericColumns...)
	for _, f := range categoricalFields {
		for _, c := range f.Categories {
			cols = append(cols, f.Name+"_"+c)
		}
	}
	if len(cols) != FeatureCount {
		panic("feature schema does not have FeatureCount columns")
	}
	return cols
}

// buildColumnIndex maps field name and category to its column position.
func buildColumnIndex() map[string]map[string]int {
	idx := make(map[string]map[string]int, len(categoricalFields))
	pos := len(numericColumns)
	for _, f := range categoricalFields {
		idx[f.Name] = make(map[string]int, len(f.Categories))
		for _, c := range f.Categories {
			idx[f.Name][c] = pos
			pos++
		}
	}
	return idx
}

// FeatureColumns returns the model input column names in order.
func FeatureColumns() []string {
	cols := make([]string, len(featureColumns))
	copy(cols, featureColumns)
	return cols
}

// CategoricalFieldNames returns the names of the one-hot encoded attributes.
func CategoricalFieldNames() []string {
	names := make([]string, len(categoricalFields))
	for i, f := range categoricalFields {
		names[i] = f.Name
	}
	return names
}

// SchemaMismatchError describes how a model's declared inputs differ from the
// encoder's columns.
type SchemaMismatchError struct {
	Want     int
	Got      int
	Position int
	WantName string
	GotName  string
}

func (e *SchemaMismatchError) Error() string {
	if e.WantName != "" || e.GotName != "" {
		return fmt.Sprintf("model feature %d is %q, encoder produces %q", e.Position, e.GotName, e.WantName)
	}
	return fmt.Sprintf("model expects %d features, encoder produces %d", e.Got, e.Want)
}

// VerifySchema checks that a model's input width, and its feature names when
// it declares them, match the encoder's column order exactly.
func VerifySchema(numFeatures int, names []string) error {
	if numFeatures != FeatureCount {
		return &SchemaMismatchError{Want: FeatureCount, Got: numFeatures}
	}
	if len(names) == 0 {
		return nil
	}
	if len(names) != FeatureCount {
		return &SchemaMismatchError{Want: FeatureCount, Got: len(names)}
	}
	for i, name := range names {
		if name != featureColumns[i] {
			return &SchemaMismatchError{
				Want:     FeatureCount,
				Got:      len(names),
				Position: i,
				WantName: featureColumns[i],
				GotName:  name,
			}
		}
	}
	return nil
}
