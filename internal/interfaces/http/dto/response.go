// Package dto holds the request and response shapes of the HTTP API.
package dto

// Keys of the count fields returned by the basket and contact endpoints
const (
	KeyCreated = "Создано объектов"
	KeyUpdated = "Обновлено объектов"
	KeyDeleted = "Удалено объектов"
)

// Response is the status envelope returned by every mutating endpoint.
// Failures put a single message in Error, or a message or field map in
// Errors.
type Response struct {
	Status  bool   `json:"Status"`
	Error   string `json:"Error,omitempty"`
	Errors  any    `json:"Errors,omitempty"`
	Token   string `json:"Token,omitempty"`
	Created *int64 `json:"Создано объектов,omitempty"`
	Updated *int64 `json:"Обновлено объектов,omitempty"`
	Deleted *int64 `json:"Удалено объектов,omitempty"`
}

// OK returns a successful response
func OK() Response {
	return Response{Status: true}
}

// WithToken returns a successful login response
func WithToken(token string) Response {
	return Response{Status: true, Token: token}
}

// CreatedCount returns a success response carrying the number of created objects
func CreatedCount(n int64) Response {
	return Response{Status: true, Created: &n}
}

// UpdatedCount returns a success response carrying the number of updated objects
func UpdatedCount(n int64) Response {
	return Response{Status: true, Updated: &n}
}

// DeletedCount returns a success response carrying the number of deleted objects
func DeletedCount(n int64) Response {
	return Response{Status: true, Deleted: &n}
}

// Fail returns a failure with a single message under Error
func Fail(message string) Response {
	return Response{Status: false, Error: message}
}

// FailErrors returns a failure with a message or a field map under Errors
func FailErrors(errors any) Response {
	return Response{Status: false, Errors: errors}
}
