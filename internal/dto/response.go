package dto

// Envelope is the response shape shared by every endpoint: a success flag,
// an optional human message and an optional payload.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// OK wraps a successful payload.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// OKMessage wraps a successful payload with a message.
func OKMessage(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

// Fail wraps an error message.
func Fail(message string) Envelope {
	return Envelope{Success: false, Message: message}
}

// FailFields wraps a validation failure with per-field messages.
func FailFields(message string, fields map[string]string) Envelope {
	return Envelope{Success: false, Message: message, Errors: fields}
}
