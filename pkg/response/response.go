package response

import "restaurant-pos/pkg/apperr"

// Response is the standard API envelope. Kind is present on errors so
// clients can distinguish failure classes without parsing messages.
type Response struct {
	Status     string      `json:"status"` // "success" or "error"
	StatusCode int         `json:"status_code"`
	Kind       string      `json:"kind,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success returns a standard success response wrapping the data.
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns a standard error response with an explicit kind.
func Error(statusCode int, kind, msg string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Kind:       kind,
		Error:      msg,
	}
}

// FromError builds an error response from a service error, mapping the
// wrapped apperr kind to its status code and wire name.
func FromError(err error) Response {
	return Error(apperr.HTTPStatus(err), apperr.Kind(err), err.Error())
}
