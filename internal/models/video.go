package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is the closed set of rotation categories.
type Category string

const (
	CategoryKirtan Category = "kirtan"
	CategoryDhun   Category = "dhun"
	CategoryKatha  Category = "katha"
)

// Categories lists every valid category, in display order.
var Categories = []Category{CategoryKirtan, CategoryDhun, CategoryKatha}

// Valid reports whether the category is one of the known values
func (c Category) Valid() bool {
	switch c {
	case CategoryKirtan, CategoryDhun, CategoryKatha:
		return true
	}
	return false
}

// ParseCategory validates a raw string against the closed category set.
// Returns the category and true on success, empty and false otherwise.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.Valid()
}

// Visibility is the playback eligibility state of a video.
// A video stays "unknown" until its metadata has been resolved against
// the provider; only "public" videos are served.
type Visibility string

const (
	VisibilityUnknown Visibility = "unknown"
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Video represents one catalogued YouTube video.
//
// The JSON field names "type" and "length" are kept from the original wire
// format so existing players keep working.
type Video struct {
	ID           uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	URL          string     `json:"url" gorm:"type:text;not null;uniqueIndex;column:url" validate:"required"`
	VideoID      string     `json:"videoId" gorm:"type:text;not null;column:video_id"`
	Category     Category   `json:"category" gorm:"type:text;not null;index;column:category" validate:"required"`
	Visibility   Visibility `json:"type" gorm:"type:text;not null;default:unknown;column:visibility"`
	Duration     int64      `json:"length" gorm:"type:integer;not null;default:0;column:duration"` // seconds
	Title        *string    `json:"title,omitempty" gorm:"type:text;column:title"`
	Description  *string    `json:"description,omitempty" gorm:"type:text;column:description"`
	ChannelTitle *string    `json:"channelTitle,omitempty" gorm:"type:text;column:channel_title"`
	LastPlayedAt *time.Time `json:"lastPlayedAt" gorm:"type:datetime;column:last_played_at"`
	CreatedAt    time.Time  `json:"createdAt" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// NewVideo creates a new Video with a generated UUID and timestamps.
// Visibility starts as unknown until metadata resolution fills it in.
func NewVideo(url, videoID string, category Category) *Video {
	now := time.Now().UTC()
	return &Video{
		ID:         uuid.New(),
		URL:        url,
		VideoID:    videoID,
		Category:   category,
		Visibility: VisibilityUnknown,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Eligible reports whether the video may be considered for rotation.
// Unknown visibility counts as eligible; the scheduler resolves it lazily.
func (v *Video) Eligible() bool {
	return v.Visibility == VisibilityPublic || v.Visibility == VisibilityUnknown
}

// Played reports whether the video has ever been selected.
func (v *Video) Played() bool {
	return v.LastPlayedAt != nil
}
