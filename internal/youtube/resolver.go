package youtube

import (
	"context"
	"errors"
)

// Sentinel errors for metadata resolution.
var (
	// ErrVideoNotFound indicates the provider returned no item for a video ID
	ErrVideoNotFound = errors.New("youtube: video not found")

	// ErrProvider indicates a transport, auth, or quota failure talking to
	// the provider. Retry policy belongs to the caller.
	ErrProvider = errors.New("youtube: provider request failed")
)

// IsNotFound checks if the error is a video not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrVideoNotFound)
}

// IsProviderError checks if the error is a provider transport/auth/quota error
func IsProviderError(err error) bool {
	return errors.Is(err, ErrProvider)
}

// VideoDetails holds the resolved metadata for one video.
type VideoDetails struct {
	// Public is true only when the provider reports the exact privacy
	// status "public". Unlisted and private both count as not public.
	Public bool

	// Duration is the video length in seconds.
	Duration int64

	Title        string
	Description  string
	ChannelTitle string
}

// Resolver resolves video IDs to their provider metadata.
// Implementations must attribute failures to individual IDs where possible:
// an ID absent from the Resolve result map means that video was not found,
// while a returned error means the whole batch failed.
type Resolver interface {
	// Resolve looks up a batch of video IDs. The result map contains an
	// entry for every ID the provider knows about; absent IDs were not
	// found. A non-nil error means no ID was resolved.
	Resolve(ctx context.Context, ids []string) (map[string]VideoDetails, error)

	// ResolveOne looks up a single video ID, returning ErrVideoNotFound
	// when the provider has no item for it.
	ResolveOne(ctx context.Context, id string) (VideoDetails, error)
}
