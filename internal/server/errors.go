package server

import (
	"errors"
	"net/http"

	"github.com/masato/tag-generator/internal/llm"
)

// HTTPStatus returns the appropriate HTTP status code for an error coming
// out of the pipeline: oversized input is the caller's fault, exhausted
// providers are an upstream failure, and missing credentials mean the
// service cannot work at all.
func HTTPStatus(err error) int {
	var (
		sizeErr   *llm.SizeLimitError
		exhausted *llm.ExhaustedError
		confErr   *llm.ConfigurationError
	)
	switch {
	case errors.As(err, &sizeErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &exhausted):
		return http.StatusBadGateway
	case errors.As(err, &confErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
