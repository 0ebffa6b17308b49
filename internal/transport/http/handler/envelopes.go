package handler

import (
	"encoding/json"
	"net/http"
)

// Machine-readable error codes returned alongside a 200 error body.
const (
	codeBadRequest     = "bad_request"
	codeExpired        = "code_expired"
	codeInvalid        = "invalid_code"
	codeDeliveryFailed = "delivery_failed"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

// LoginEnvelope is returned once a code has been sent.
type LoginEnvelope struct {
	Message     string `json:"message"`
	ChallengeID string `json:"challenge_id"`
}

// CheckAuthEnvelope carries the rotated token.
type CheckAuthEnvelope struct {
	AuthToken string `json:"auth_token"`
	Email     string `json:"email"`
	Assertion string `json:"assertion,omitempty"`
}

// TokensEnvelope lists active tokens.
type TokensEnvelope struct {
	Tokens []string `json:"tokens"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeFailure reports a client-level failure in a 200 body.
func writeFailure(w http.ResponseWriter, msg, code string) {
	writeJSON(w, http.StatusOK, MessageEnvelope{Error: msg, ErrorCode: code})
}
