package strapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Pavel2232/ShopBot/internal/model"
)

// APIError describes a failed repository call. It unwraps to model.ErrNotFound
// or model.ErrRepositoryUnavailable so callers can branch with errors.Is.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("strapi %s %s: %v", e.Method, e.Path, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("strapi %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("strapi %s %s: status %d", e.Method, e.Path, e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.Err }

// errorBody is the error envelope returned by the repository.
type errorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

func newStatusError(method, path string, status int, body []byte) *APIError {
	apiErr := &APIError{Method: method, Path: path, StatusCode: status, Err: model.ErrRepositoryUnavailable}
	if status == http.StatusNotFound {
		apiErr.Err = model.ErrNotFound
	}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.Error.Message != "" {
		apiErr.Message = eb.Error.Message
	}
	return apiErr
}

func newTransportError(method, path string, err error) *APIError {
	return &APIError{
		Method: method,
		Path:   path,
		Err:    fmt.Errorf("%w: %v", model.ErrRepositoryUnavailable, err),
	}
}

func notFound(resource Resource, id int) error {
	return fmt.Errorf("%s %d: %w", resource, id, model.ErrNotFound)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	case errors.Is(err, model.ErrRepositoryUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
