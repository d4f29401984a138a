package responses

// requestIDHeader is set by the request id middleware before any handler
// writes, so error bodies can quote it back to the client.
const requestIDHeader = "X-Request-Id"

type (
	// SuccessEnvelope wraps every 2xx body: {"data": ...}.
	SuccessEnvelope struct {
		Data any `json:"data"`
	}

	// ErrorEnvelope wraps every error body: {"error": {...}}.
	ErrorEnvelope struct {
		Error APIError `json:"error"`
	}

	APIError struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		Details   any    `json:"details,omitempty"`
		RequestID string `json:"request_id,omitempty"`
	}
)
