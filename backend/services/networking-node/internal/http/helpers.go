package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/node"
)

// Error codes carried in apiError.Code. Failures decoding an OCPP payload use
// the OCPP error code instead, e.g. NotImplemented or FormatViolation.
const (
	codeBadRequest   = "BadRequest"
	codeUnauthorized = "Unauthorized"
	codeNotFound     = "NotFound"
	codeUnavailable  = "NodeUnavailable"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Code: code, Message: message})
}

// writeNodeError answers a request the node refused.
func writeNodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, node.ErrClosed) {
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, err.Error())
		return
	}
	var oe *ocpp.Error
	if errors.As(err, &oe) {
		writeError(w, http.StatusBadRequest, string(oe.Code), oe.Description)
		return
	}
	writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
}
