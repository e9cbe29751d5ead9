package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/bibbank/bib/services/propensity-service/internal/application/dto"
	"github.com/bibbank/bib/services/propensity-service/internal/application/usecase"
)

// maxBodyBytes bounds a /predict request body.
const maxBodyBytes = 64 << 10

// PredictionHandler serves the scoring endpoints.
type PredictionHandler struct {
	predict  *usecase.Predict
	features *usecase.ListFeatures
	logger   *slog.Logger
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(predict *usecase.Predict, features *usecase.ListFeatures, logger *slog.Logger) *PredictionHandler {
	return &PredictionHandler{
		predict:  predict,
		features: features,
		logger:   logger,
	}
}

// RegisterRoutes registers the scoring endpoints on mux.
func (h *PredictionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /predict", h.Predict)
	mux.HandleFunc("GET /features", h.Features)
}

// Predict scores one customer record.
//
// Malformed JSON answers 400. Missing or mistyped fields answer 422 and name
// the offending fields. A scoring failure answers 500 with its message.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	req, fields, err := decodePredictRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		case fields != nil:
			writeError(w, http.StatusUnprocessableEntity, err.Error(), fields...)
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	resp, err := h.predict.Execute(r.Context(), req)
	if err != nil {
		var verr *dto.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, err.Error(), verr.Fields...)
			return
		}
		h.logger.ErrorContext(r.Context(), "prediction failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Features lists the model input columns.
func (h *PredictionHandler) Features(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.features.Execute(r.Context()))
}

// decodePredictRequest parses a request body. A non-nil fields slice marks a
// schema problem (422) as opposed to unparseable input (400).
func decodePredictRequest(body io.Reader) (dto.PredictRequest, []string, error) {
	var req dto.PredictRequest
	err := json.NewDecoder(body).Decode(&req)
	if err == nil {
		return req, nil, nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return req, []string{typeErr.Field},
			fmt.Errorf("field %s must be %s, got %s", typeErr.Field, jsonKind(typeErr.Type.Kind().String()), typeErr.Value)
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return req, nil, err
	}
	if errors.Is(err, io.EOF) {
		return req, nil, errors.New("request body is empty")
	}
	return req, nil, fmt.Errorf("malformed JSON body: %w", err)
}

// jsonKind names a Go kind the way a JSON client thinks about it.
func jsonKind(kind string) string {
	switch kind {
	case "int", "int32", "int64":
		return "an integer"
	case "float64", "float32":
		return "a number"
	case "string":
		return "a string"
	default:
		return kind
	}
}
