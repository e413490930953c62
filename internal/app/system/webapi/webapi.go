// Package webapi is the JSON surface shared by every feature handler:
// response envelopes, request decoding with a size cap, and the single
// mapping from the access error taxonomy to HTTP status codes.
package webapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/commonshub/internal/app/access"
	"github.com/dalemusser/commonshub/internal/app/system/limits"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrorBody is the JSON shape of every non-2xx response.
type ErrorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
	Action string `json:"action,omitempty"`
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error writes a plain error response.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Error: msg})
}

// ValidationError writes a 422 with the given message.
func ValidationError(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusUnprocessableEntity, ErrorBody{Error: msg})
}

// Decode reads the request body as JSON into v, rejecting unknown fields
// and bodies over the configured limit.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, limits.MaxJSONBodySize))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// URLObjectID parses a chi URL parameter as a Mongo ObjectID.
func URLObjectID(r *http.Request, name string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(chi.URLParam(r, name))
}

// WriteAccessError maps an error from the access core onto the HTTP
// response. Denials carry their structured reason; state conflicts and
// invalid transitions both surface as 409 so a client retries the same
// way for either.
func WriteAccessError(w http.ResponseWriter, r *http.Request, err error, log *zap.Logger) {
	var perm *access.PermissionError
	switch {
	case errors.As(err, &perm):
		JSON(w, http.StatusForbidden, ErrorBody{
			Error:  "permission denied",
			Reason: string(perm.Reason),
			Action: string(perm.Action),
		})
	case errors.Is(err, access.ErrNotFound), errors.Is(err, mongo.ErrNoDocuments):
		Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, access.ErrInvalidTransition):
		Error(w, http.StatusConflict, "invalid transition")
	case errors.Is(err, access.ErrConflict):
		Error(w, http.StatusConflict, "conflict; retry")
	default:
		if log != nil {
			log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		}
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
