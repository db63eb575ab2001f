package types

// SuccessEnvelope wraps every 2xx JSON response.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape clients receive.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every non-2xx JSON response.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
