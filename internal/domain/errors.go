package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrLLMFailure is returned when the LLM completion request fails
	ErrLLMFailure = errors.New("LLM completion request failed")

	// ErrMalformedCompletion is returned when no well-formed JSON object can
	// be recovered from the LLM response
	ErrMalformedCompletion = errors.New("no JSON object found in LLM response")

	// ErrInvalidPreferences is returned when LLM output parses as JSON but is
	// missing required preference fields
	ErrInvalidPreferences = errors.New("LLM output missing required preference fields")

	// ErrUserNotFound is returned when no stored preferences exist for a user
	ErrUserNotFound = errors.New("user preferences not found")

	// ErrStoreFailure is returned when a catalog store operation fails
	ErrStoreFailure = errors.New("catalog store operation failed")
)
