package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/usecase"
	"github.com/xavierca1/leadflow/internal/validation"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string                  `json:"error"`
	Code    string                  `json:"code,omitempty"`
	Details []validation.FieldError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// writeError maps use case errors onto HTTP. Anything that is not a
// DomainError is logged and reported generically.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case usecase.CodeValidation:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: de.Message, Details: de.Fields})
		case usecase.CodeNotFound:
			writeErrorResponse(w, http.StatusNotFound, de.Code, de.Message)
		case usecase.CodeConflict:
			writeErrorResponse(w, http.StatusConflict, de.Code, de.Message)
		default:
			writeErrorResponse(w, http.StatusBadRequest, de.Code, de.Message)
		}
		return
	}

	log.Error("request failed", zap.Error(err))
	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

// decodeBody reads a JSON object. The use cases do their own field
// validation, so the shape is left untyped here.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var input map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return nil, false
	}
	if input == nil {
		input = map[string]any{}
	}
	return input, true
}

func queryInt(r *http.Request, key string) (int, bool) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func pageParams(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	var fields []validation.FieldError
	limit, okLimit := queryInt(r, "limit")
	if !okLimit {
		fields = append(fields, validation.FieldError{Field: "limit", Message: "limit must be a non-negative integer"})
	}
	offset, okOffset := queryInt(r, "offset")
	if !okOffset {
		fields = append(fields, validation.FieldError{Field: "offset", Message: "offset must be a non-negative integer"})
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Validation failed", Details: fields})
		return 0, 0, false
	}
	return limit, offset, true
}
