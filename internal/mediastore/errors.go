package mediastore

import "errors"

var (
	// ErrNotConfigured is returned when no media bucket is configured.
	ErrNotConfigured = errors.New("media storage is not configured")

	// ErrUnsupportedType is returned for uploads that are not images.
	ErrUnsupportedType = errors.New("unsupported content type")

	// ErrTooLarge is returned when an upload exceeds the size cap.
	ErrTooLarge = errors.New("file exceeds upload size limit")
)
