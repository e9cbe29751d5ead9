package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/bibbank/bib/services/propensity-service/internal/domain/model"
)

// PredictRequest is the input DTO for the Predict use case. Every field is a
// pointer so a missing field can be told apart from a zero value.
type PredictRequest struct {
	Age       *int     `json:"age"`
	Job       *string  `json:"job"`
	Marital   *string  `json:"marital"`
	Education *string  `json:"education"`
	Default   *string  `json:"default"`
	Balance   *float64 `json:"balance"`
	Housing   *string  `json:"housing"`
	Loan      *string  `json:"loan"`
	Contact   *string  `json:"contact"`
	Day       *int     `json:"day"`
	Month     *string  `json:"month"`
	Campaign  *int     `json:"campaign"`
	Pdays     *int     `json:"pdays"`
	Previous  *int     `json:"previous"`
	Poutcome  *string  `json:"poutcome"`
}

// UnmarshalJSON decodes a request body. Integer fields accept any integral
// JSON number, so 40 and 40.0 both read as 40; a fractional value or a
// non-number is reported as a *json.UnmarshalTypeError naming the field.
func (r *PredictRequest) UnmarshalJSON(data []byte) error {
	type plain PredictRequest
	wire := struct {
		*plain
		Age      json.RawMessage `json:"age"`
		Day      json.RawMessage `json:"day"`
		Campaign json.RawMessage `json:"campaign"`
		Pdays    json.RawMessage `json:"pdays"`
		Previous json.RawMessage `json:"previous"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	ints := []struct {
		dst  **int
		raw  json.RawMessage
		name string
	}{
		{&r.Age, wire.Age, "age"},
		{&r.Day, wire.Day, "day"},
		{&r.Campaign, wire.Campaign, "campaign"},
		{&r.Pdays, wire.Pdays, "pdays"},
		{&r.Previous, wire.Previous, "previous"},
	}
	for _, f := range ints {
		v, err := integerField(f.name, f.raw)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}

func integerField(name string, raw json.RawMessage) (*int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	typeErr := func(got string) error {
		return &json.UnmarshalTypeError{Value: got, Type: reflect.TypeOf(0), Field: name}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	num, ok := v.(json.Number)
	if !ok {
		return nil, typeErr(jsonType(v))
	}
	if n, err := num.Int64(); err == nil {
		i := int(n)
		return &i, nil
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || f < -(1<<63) || f >= 1<<63 {
		return nil, typeErr("number " + num.String())
	}
	i := int(f)
	return &i, nil
}

func jsonType(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "bool"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// ValidationError reports request fields that are missing or carry the wrong
// type.
type ValidationError struct {
	Reason string
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.Fields, ", "))
}

// MissingFields returns the JSON names of the absent fields in declaration
// order.
func (r PredictRequest) MissingFields() []string {
	present := []struct {
		name string
		ok   bool
	}{
		{"age", r.Age != nil},
		{"job", r.Job != nil},
		{"marital", r.Marital != nil},
		{"education", r.Education != nil},
		{"default", r.Default != nil},
		{"balance", r.Balance != nil},
		{"housing", r.Housing != nil},
		{"loan", r.Loan != nil},
		{"contact", r.Contact != nil},
		{"day", r.Day != nil},
		{"month", r.Month != nil},
		{"campaign", r.Campaign != nil},
		{"pdays", r.Pdays != nil},
		{"previous", r.Previous != nil},
		{"poutcome", r.Poutcome != nil},
	}

	var missing []string
	for _, f := range present {
		if !f.ok {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Validate fails with a *ValidationError when any field is missing.
func (r PredictRequest) Validate() error {
	if missing := r.MissingFields(); len(missing) > 0 {
		return &ValidationError{Reason: "missing required fields", Fields: missing}
	}
	return nil
}

// Profile converts a validated request into the domain record. Call Validate
// first; absent fields would dereference nil.
func (r PredictRequest) Profile() model.CustomerProfile {
	return model.CustomerProfile{
		Age:       *r.Age,
		Job:       *r.Job,
		Marital:   *r.Marital,
		Education: *r.Education,
		Default:   *r.Default,
		Balance:   *r.Balance,
		Housing:   *r.Housing,
		Loan:      *r.Loan,
		Contact:   *r.Contact,
		Day:       *r.Day,
		Month:     *r.Month,
		Campaign:  *r.Campaign,
		Pdays:     *r.Pdays,
		Previous:  *r.Previous,
		Poutcome:  *r.Poutcome,
	}
}

// PredictResponse is the wire result of a prediction.
type PredictResponse struct {
	Probability []float64 `json:"probability"`
	Prediction  int       `json:"prediction"`
}

// FeaturesResponse lists the model's input columns in order.
type FeaturesResponse struct {
	ModelFeatures []string `json:"model_features"`
}

// FromModel maps a prediction to the response DTO.
func FromModel(p *model.Prediction) PredictResponse {
	return PredictResponse{
		Prediction:  p.Label(),
		Probability: p.Probabilities().Values(),
	}
}

// ProfileResponse echoes the customer attributes of an audited prediction.
type ProfileResponse struct {
	Job       string  `json:"job"`
	Marital   string  `json:"marital"`
	Education string  `json:"education"`
	Default   string  `json:"default"`
	Housing   string  `json:"housing"`
	Loan      string  `json:"loan"`
	Contact   string  `json:"contact"`
	Month     string  `json:"month"`
	Poutcome  string  `json:"poutcome"`
	Balance   float64 `json:"balance"`
	Age       int     `json:"age"`
	Day       int     `json:"day"`
	Campaign  int     `json:"campaign"`
	Pdays     int     `json:"pdays"`
	Previous  int     `json:"previous"`
}

// PredictionRecordResponse is an audited prediction as served by the lookup
// endpoint.
type PredictionRecordResponse struct {
	CreatedAt    time.Time       `json:"created_at"`
	ID           string          `json:"id"`
	ModelVersion string          `json:"model_version"`
	Probability  []float64       `json:"probability"`
	Input        ProfileResponse `json:"input"`
	Prediction   int             `json:"prediction"`
}

// RecordFromModel maps a stored prediction to its lookup response.
func RecordFromModel(p *model.Prediction) PredictionRecordResponse {
	profile := p.Profile()
	return PredictionRecordResponse{
		ID:           p.ID().String(),
		Prediction:   p.Label(),
		Probability:  p.Probabilities().Values(),
		ModelVersion: p.ModelVersion(),
		CreatedAt:    p.CreatedAt(),
		Input: ProfileResponse{
			Job:       profile.Job,
			Marital:   profile.Marital,
			Education: profile.Education,
			Default:   profile.Default,
			Housing:   profile.Housing,
			Loan:      profile.Loan,
			Contact:   profile.Contact,
			Month:     profile.Month,
			Poutcome:  profile.Poutcome,
			Balance:   profile.Balance,
			Age:       profile.Age,
			Day:       profile.Day,
			Campaign:  profile.Campaign,
			Pdays:     profile.Pdays,
			Previous:  profile.Previous,
		},
	}
}
