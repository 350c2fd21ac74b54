package usecase

import "errors"

var (
	// ErrBackend indicates a transport or server failure inside a use case.
	ErrBackend = errors.New("feed use case backend error")

	// ErrEmptyComment is a validation failure, rejected before any network call.
	ErrEmptyComment = errors.New("feed: comment text is required")
)
