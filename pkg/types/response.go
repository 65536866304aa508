package types

// SuccessEnvelope wraps every successful storefront response body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the error body. Retryable tells clients a later attempt may succeed, as with a
// throttled login or an unavailable dependency.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
	Details   any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewErrorEnvelope builds an error body. Nil or empty details are left out.
func NewErrorEnvelope(code, message string, retryable bool, details any) ErrorEnvelope {
	env := ErrorEnvelope{Error: APIError{Code: code, Message: message, Retryable: retryable}}
	switch d := details.(type) {
	case nil:
	case map[string]string:
		if len(d) > 0 {
			env.Error.Details = d
		}
	case map[string]any:
		if len(d) > 0 {
			env.Error.Details = d
		}
	default:
		env.Error.Details = d
	}
	return env
}
