package posts

import "errors"

var (
	// ErrMissingTitle is returned when a post is created without a title.
	ErrMissingTitle = errors.New("title is required")

	// ErrPostNotFound is returned when a post does not exist.
	ErrPostNotFound = errors.New("post not found")
)
