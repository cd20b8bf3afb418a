package commons

// MessageValidationFailed marks responses rejected before any unit of work
// ran. The transport layer maps it to a 400.
const MessageValidationFailed = "validation failed"

// Response is the envelope returned by every endpoint.
type Response[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    *T       `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    &data,
	}
}

func ErrorResponse[T any](message string, errors ...string) Response[T] {
	return Response[T]{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}

func ValidationErrorResponse[T any](err error) Response[T] {
	return ErrorResponse[T](MessageValidationFailed, err.Error())
}
