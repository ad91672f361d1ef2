// Package types defines the JSON envelopes shared by every endpoint.
package types

// SuccessEnvelope wraps all 2xx payloads under a "data" key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-visible error body.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps all non-2xx payloads under an "error" key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
