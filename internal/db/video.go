package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mehuldv/satsangtv/internal/models"
)

// VideoRepository handles database operations for videos
type VideoRepository struct {
	db *DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create inserts a new video into the database
func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	result := r.db.WithContext(ctx).Create(video)
	if result.Error != nil {
		return fmt.Errorf("failed to create video: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a video by its UUID
func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	var video models.Video
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&video)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &video, nil
}

// GetByURL retrieves a video by its canonical URL (the dedup key)
func (r *VideoRepository) GetByURL(ctx context.Context, url string) (*models.Video, error) {
	var video models.Video
	result := r.db.WithContext(ctx).Where("url = ?", url).First(&video)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &video, nil
}

// List retrieves videos with pagination, newest first
func (r *VideoRepository) List(ctx context.Context, limit, offset int) ([]*models.Video, error) {
	var videos []*models.Video
	query := r.db.WithContext(ctx).Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	result := query.Find(&videos)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list videos: %w", MapGormError(result.Error))
	}
	return videos, nil
}

// Count returns the total number of videos
func (r *VideoRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Video{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count videos: %w", MapGormError(result.Error))
	}
	return count, nil
}

// CountByCategory returns the number of videos in a category
func (r *VideoRepository) CountByCategory(ctx context.Context, category models.Category) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Video{}).Where("category = ?", category).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count videos by category: %w", MapGormError(result.Error))
	}
	return count, nil
}

// BulkInsert inserts videos in a single transaction, silently skipping URLs
// already present in the catalog. Returns the number of rows actually
// inserted, which may be less than len(videos) when duplicates are skipped.
func (r *VideoRepository) BulkInsert(ctx context.Context, videos []*models.Video) (int64, error) {
	if len(videos) == 0 {
		return 0, nil
	}

	var inserted int64
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			DoNothing: true,
		}).Create(&videos)
		if result.Error != nil {
			return fmt.Errorf("failed to bulk insert videos: %w", MapGormError(result.Error))
		}
		inserted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// NextForRotation returns the rotation candidate for a category: the
// least-recently-played video that is not private, with never-played videos
// first. SQLite sorts NULLs first on ASC, so a NULL last_played_at precedes
// every stamped row; ties among never-played rows break by created_at.
// excludeIDs removes videos the caller has already contested this request.
func (r *VideoRepository) NextForRotation(ctx context.Context, category models.Category, excludeIDs []uuid.UUID) (*models.Video, error) {
	query := r.db.WithContext(ctx).
		Where("category = ? AND visibility IN ?", category,
			[]models.Visibility{models.VisibilityPublic, models.VisibilityUnknown})

	if len(excludeIDs) > 0 {
		excluded := make([]string, len(excludeIDs))
		for i, id := range excludeIDs {
			excluded[i] = id.String()
		}
		query = query.Where("id NOT IN ?", excluded)
	}

	var video models.Video
	result := query.
		Order("last_played_at ASC, created_at ASC").
		First(&video)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &video, nil
}

// StampPlayed records a selection by setting last_played_at and updated_at.
// The update is conditional on updated_at still matching the value read at
// selection time; a concurrent selection or visibility change invalidates
// it. Returns false when the guard failed and the caller must reselect.
func (r *VideoRepository) StampPlayed(ctx context.Context, id uuid.UUID, prevUpdatedAt, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Video{}).
		Where("id = ? AND updated_at = ?", id.String(), prevUpdatedAt).
		Updates(map[string]interface{}{
			"last_played_at": now,
			"updated_at":     now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to stamp video as played: %w", MapGormError(result.Error))
	}
	return result.RowsAffected > 0, nil
}

// SetVisibility updates a video's visibility and returns the updated record.
// Setting the current value again succeeds without touching the row, so a
// repeated mark-private leaves updated_at alone.
func (r *VideoRepository) SetVisibility(ctx context.Context, id uuid.UUID, visibility models.Visibility) (*models.Video, error) {
	result := r.db.WithContext(ctx).Model(&models.Video{}).
		Where("id = ? AND visibility <> ?", id.String(), visibility).
		Updates(map[string]interface{}{
			"visibility": visibility,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to set video visibility: %w", MapGormError(result.Error))
	}

	// Zero rows means the visibility already matched or the video does not
	// exist; the read distinguishes the two
	return r.GetByID(ctx, id)
}

// ApplyResolution persists resolved provider metadata on a video. The write
// is guarded on updated_at still matching the value read at selection time,
// making resolution part of the selection's atomic read-modify-write: a
// concurrent caller that already resolved or stamped the video invalidates
// the guard. Returns the new updated_at and true when the write applied, or
// false when the guard failed and the caller must reselect.
func (r *VideoRepository) ApplyResolution(ctx context.Context, id uuid.UUID, prevUpdatedAt time.Time, visibility models.Visibility, duration int64, title, description, channelTitle string) (time.Time, bool, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.Video{}).
		Where("id = ? AND updated_at = ?", id.String(), prevUpdatedAt).
		Updates(map[string]interface{}{
			"visibility":    visibility,
			"duration":      duration,
			"title":         title,
			"description":   description,
			"channel_title": channelTitle,
			"updated_at":    now,
		})
	if result.Error != nil {
		return time.Time{}, false, fmt.Errorf("failed to apply video resolution: %w", MapGormError(result.Error))
	}
	return now, result.RowsAffected > 0, nil
}
