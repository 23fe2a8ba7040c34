package rotation

import "errors"

// Custom rotation service errors
var (
	// ErrNoVideos indicates the category has no eligible videos left.
	// This is an expected steady-state condition, not a failure.
	ErrNoVideos = errors.New("no eligible videos in category")

	// ErrInvalidCategory indicates the requested category is not one of the
	// known values
	ErrInvalidCategory = errors.New("invalid category")

	// ErrVideoNotFound indicates the requested video does not exist
	ErrVideoNotFound = errors.New("video not found")
)

// IsNoVideos checks if the error is a no eligible videos error
func IsNoVideos(err error) bool {
	return errors.Is(err, ErrNoVideos)
}

// IsInvalidCategory checks if the error is an invalid category error
func IsInvalidCategory(err error) bool {
	return errors.Is(err, ErrInvalidCategory)
}

// IsVideoNotFound checks if the error is a video not found error
func IsVideoNotFound(err error) bool {
	return errors.Is(err, ErrVideoNotFound)
}
