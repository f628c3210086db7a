package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"planbackend/appctx"
	"planbackend/core"
	"planbackend/models/api"
)

// classifyError maps the error taxonomy to an HTTP status and an envelope code.
// A revoked provider grant shares 401 with a missing session but not the code.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized, api.ErrorCodeUnauthorized
	case errors.Is(err, core.ErrTokenInvalid):
		return http.StatusUnauthorized, api.ErrorCodeTokenInvalid
	case errors.Is(err, core.ErrForbidden):
		return http.StatusForbidden, api.ErrorCodeForbidden
	case core.IsNotFoundError(err):
		return http.StatusNotFound, api.ErrorCodeNotFound
	case errors.Is(err, core.ErrInvalidInput), errors.Is(err, core.ErrInvalidState):
		return http.StatusBadRequest, api.ErrorCodeInvalidInput
	case errors.Is(err, core.ErrAlreadyExists):
		return http.StatusConflict, api.ErrorCodeAlreadyExists
	case errors.Is(err, core.ErrNotConfigured):
		return http.StatusServiceUnavailable, api.ErrorCodeNotConfigured
	}
	if _, ok := core.IsProviderError(err); ok {
		return http.StatusBadGateway, api.ErrorCodeProviderError
	}
	return http.StatusInternalServerError, api.ErrorCodeInternal
}

func statusForError(err error) int {
	status, _ := classifyError(err)
	return status
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}

// writeErrorResponse writes the failure envelope. Internal errors are not echoed to the client.
func writeErrorResponse(w http.ResponseWriter, err error) {
	statusCode, code := classifyError(err)
	message := err.Error()
	if statusCode == http.StatusInternalServerError {
		message = "internal server error"
	}
	writeJSONResponse(w, statusCode, api.ErrorResponse{OK: false, Error: message, Code: code})
}

// decodeJSONBody decodes and validates a request body
func decodeJSONBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return core.InvalidInputf("invalid request body")
	}
	return core.ValidateStruct(dst)
}

func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := appctx.GetUserID(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, core.ErrUnauthorized)
		return "", false
	}
	return userID, true
}
