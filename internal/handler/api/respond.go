// Package api implements the JSON HTTP surface of the issuance engine.
// Handlers decode and validate requests, delegate to services, and translate
// domain errors onto the HTTP status taxonomy.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/facetworks/facet/internal/domain"
	"github.com/facetworks/facet/internal/middleware"
	"github.com/go-playground/validator/v10"
)

// validate is the shared request validator. Stateless and safe for
// concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// errorBody is the wire shape of every error response: the human-readable
// reason under a single "error" key. The HTTP status carries the error class.
type errorBody struct {
	Error string `json:"error"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// respondError maps a domain error onto the HTTP taxonomy and writes the
// error body. Internal errors are logged with detail and returned generic.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := middleware.ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"op", domain.ErrorOp(err),
		"status", status,
	}
	if status >= 500 {
		logger.Error("request failed", attrs...)
	} else {
		logger.Info("request rejected", attrs...)
	}

	writeJSON(w, status, errorBody{Error: domain.ErrorMessage(err)})
}

// decodeRequest decodes and validates a JSON request body into dst.
// Unknown fields are rejected so typos fail loudly instead of silently.
func decodeRequest(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.WrapError(err, domain.EINVALID, "api.decode", "invalid request body")
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return domain.Errorf(domain.EINVALID, "api.validate", "missing or invalid fields: %s", strings.Join(fields, ", "))
		}
		return domain.WrapError(err, domain.EINVALID, "api.validate", "invalid request body")
	}
	return nil
}
