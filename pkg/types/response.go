package types

// SuccessEnvelope wraps every successful JSON payload.
type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorEnvelope is the JSON body written for every failed request.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// MessageEnvelope carries a bare confirmation message, e.g. after a delete.
type MessageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
