// Package rotation implements the video selection scheduler: given a
// category it picks the single next video to serve, resolving eligibility
// lazily and demoting unplayable videos so one bad URL never blocks a
// category.
package rotation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mehuldv/satsangtv/internal/db"
	"github.com/mehuldv/satsangtv/internal/logger"
	"github.com/mehuldv/satsangtv/internal/models"
	"github.com/mehuldv/satsangtv/internal/youtube"
)

// Service handles video selection for the rotation
type Service struct {
	repos    *db.Repositories
	resolver youtube.Resolver
}

// NewService creates a new rotation service instance
func NewService(repos *db.Repositories, resolver youtube.Resolver) *Service {
	return &Service{
		repos:    repos,
		resolver: resolver,
	}
}

// SelectNext returns the next video to play for a category.
//
// Selection prefers never-played videos (oldest first), then the
// least-recently-played. A candidate whose visibility was never resolved is
// resolved synchronously before serving; candidates that turn out private,
// unresolvable, or unreachable at the provider are demoted and selection
// moves on. The play stamp is a conditional write, so two concurrent
// requests are never handed the same video; the loser reselects.
func (s *Service) SelectNext(ctx context.Context, category models.Category) (*models.Video, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	// Videos contested with a concurrent request this call. A lost stamp
	// race excludes the video rather than re-serving it, so the loser gets
	// the next-oldest candidate or a no-content answer. The loop is
	// bounded: every pass returns, demotes a video, or grows this set.
	var contested []uuid.UUID

	for {
		candidate, err := s.repos.Videos.NextForRotation(ctx, category, contested)
		if err != nil {
			if db.IsNotFound(err) {
				logger.Log.Debug().
					Str("category", string(category)).
					Msg("No eligible videos for category")
				return nil, fmt.Errorf("%w: %s", ErrNoVideos, category)
			}
			return nil, fmt.Errorf("failed to select next video: %w", err)
		}

		if candidate.Visibility == models.VisibilityUnknown {
			outcome, err := s.resolveCandidate(ctx, candidate)
			if err != nil {
				return nil, err
			}
			switch outcome {
			case resolveDemoted:
				// The eligible set shrank, pick again
				continue
			case resolveContested:
				// A concurrent request already resolved or stamped this
				// video; treat it like a lost stamp race
				contested = append(contested, candidate.ID)
				logger.Log.Debug().
					Str("video_id", candidate.ID.String()).
					Str("category", string(category)).
					Msg("Lost resolution race, reselecting")
				continue
			}
			// resolveServed: candidate now carries the resolved metadata
			// and the updated_at the resolution wrote, so the stamp guard
			// below stays valid without a reload
		}

		now := time.Now().UTC()
		stamped, err := s.repos.Videos.StampPlayed(ctx, candidate.ID, candidate.UpdatedAt, now)
		if err != nil {
			return nil, fmt.Errorf("failed to stamp selection: %w", err)
		}
		if !stamped {
			contested = append(contested, candidate.ID)
			logger.Log.Debug().
				Str("video_id", candidate.ID.String()).
				Str("category", string(category)).
				Msg("Lost selection race, reselecting")
			continue
		}

		candidate.LastPlayedAt = &now
		candidate.UpdatedAt = now

		logger.Log.Info().
			Str("video_id", candidate.ID.String()).
			Str("category", string(category)).
			Str("url", candidate.URL).
			Msg("Selected next video")

		return candidate, nil
	}
}

// resolveOutcome reports how resolving an unknown-visibility candidate ended.
type resolveOutcome int

const (
	// resolveServed means the video resolved public and the resolution was
	// persisted; the candidate may be stamped and served.
	resolveServed resolveOutcome = iota
	// resolveDemoted means the video was marked private and dropped out of
	// the eligible set.
	resolveDemoted
	// resolveContested means a concurrent request modified the video between
	// selection and resolution; the caller must reselect.
	resolveContested
)

// resolveCandidate establishes eligibility for a video whose visibility was
// never determined. Any per-video failure (unextractable URL, not found,
// non-public, provider outage) demotes the video; only storage failures
// surface as errors. On resolveServed the candidate is updated in place with
// the resolved metadata and the updated_at the resolution wrote.
func (s *Service) resolveCandidate(ctx context.Context, video *models.Video) (resolveOutcome, error) {
	videoID := video.VideoID
	if videoID == "" {
		videoID = youtube.ExtractVideoID(video.URL)
	}
	if videoID == "" {
		logger.Log.Warn().
			Str("video_id", video.ID.String()).
			Str("url", video.URL).
			Msg("Demoting video with unrecognizable URL")
		return resolveDemoted, s.demote(ctx, video.ID)
	}

	details, err := s.resolver.ResolveOne(ctx, videoID)
	if err != nil {
		// Not found and provider outages both demote: forward progress of
		// the rotation beats surfacing a transient provider error
		logger.Log.Warn().
			Err(err).
			Str("video_id", video.ID.String()).
			Str("url", video.URL).
			Msg("Demoting video after failed metadata resolution")
		return resolveDemoted, s.demote(ctx, video.ID)
	}

	if !details.Public {
		logger.Log.Info().
			Str("video_id", video.ID.String()).
			Str("url", video.URL).
			Msg("Demoting non-public video")
		return resolveDemoted, s.demote(ctx, video.ID)
	}

	resolvedAt, applied, err := s.repos.Videos.ApplyResolution(ctx, video.ID, video.UpdatedAt,
		models.VisibilityPublic, details.Duration, details.Title, details.Description, details.ChannelTitle)
	if err != nil {
		return resolveContested, fmt.Errorf("failed to persist resolution: %w", err)
	}
	if !applied {
		return resolveContested, nil
	}

	video.Visibility = models.VisibilityPublic
	video.Duration = details.Duration
	video.Title = &details.Title
	video.Description = &details.Description
	video.ChannelTitle = &details.ChannelTitle
	video.UpdatedAt = resolvedAt

	return resolveServed, nil
}

// demote marks a video private so it drops out of the eligible set.
func (s *Service) demote(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repos.Videos.SetVisibility(ctx, id, models.VisibilityPrivate); err != nil {
		return fmt.Errorf("failed to demote video: %w", err)
	}
	return nil
}

// MarkPrivate soft-deletes a video by setting its visibility to private.
// Idempotent: marking an already-private video succeeds unchanged. Used by
// playback failure reports and by the scheduler's own healing path.
func (s *Service) MarkPrivate(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	video, err := s.repos.Videos.SetVisibility(ctx, id, models.VisibilityPrivate)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, id)
		}
		return nil, fmt.Errorf("failed to mark video private: %w", err)
	}

	logger.Log.Info().
		Str("video_id", id.String()).
		Msg("Video marked private")

	return video, nil
}
