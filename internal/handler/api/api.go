// Package api contains the JSON HTTP handlers for the pricing engine.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/brokkr/internal/domain"
	"github.com/dukerupert/brokkr/internal/handler"
	"github.com/go-playground/validator/v10"
)

// validate is shared by all handlers; validator instances cache struct
// metadata and are safe for concurrent use.
var validate = validator.New()

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON parses the request body into dst and runs struct validation.
// Malformed JSON becomes an EINVALID domain error; tag failures are returned
// as validator.ValidationErrors for ValidationErrorResponse to unpack.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Invalid("api.decode", "invalid JSON request body: "+err.Error())
	}
	return validate.Struct(dst)
}

// fail routes an error to the right response writer.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	if _, ok := err.(validator.ValidationErrors); ok {
		handler.ValidationErrorResponse(w, r, err)
		return
	}
	handler.ErrorResponse(w, r, err)
}
