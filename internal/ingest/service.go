// Package ingest implements the bulk submission pipeline: validate entries,
// extract video IDs, resolve metadata, and commit survivors to the catalog
// with a per-entry accounting of what failed and why.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/mehuldv/satsangtv/internal/db"
	"github.com/mehuldv/satsangtv/internal/logger"
	"github.com/mehuldv/satsangtv/internal/models"
	"github.com/mehuldv/satsangtv/internal/youtube"
)

// Entry is one submitted video: a URL and the rotation category it joins.
type Entry struct {
	URL      string `json:"url"`
	Category string `json:"category"`
}

// Rejection explains why one entry was not ingested.
type Rejection struct {
	URL    string `json:"url"`
	Reason Reason `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// Report summarizes an ingestion run. Partial success is normal: some
// entries accepted, some rejected. Re-submitted URLs already in the catalog
// count as neither.
type Report struct {
	Accepted int         `json:"accepted"`
	Rejected []Rejection `json:"rejected"`
}

// candidate is an entry that survived validation, paired with its
// extracted video ID.
type candidate struct {
	entry    Entry
	category models.Category
	videoID  string
}

// Service handles bulk video ingestion
type Service struct {
	repos    *db.Repositories
	resolver youtube.Resolver
}

// NewService creates a new ingestion service instance
func NewService(repos *db.Repositories, resolver youtube.Resolver) *Service {
	return &Service{
		repos:    repos,
		resolver: resolver,
	}
}

// Ingest validates and commits a batch of submitted videos.
//
// Each entry is checked independently: missing fields, unknown categories,
// and unrecognizable URLs reject that entry only. Survivors are resolved
// against the provider as one batch; entries the provider cannot find are
// rejected individually, and a provider outage rejects the surviving set
// without failing the request. Whatever remains is committed atomically,
// with already-catalogued URLs silently skipped.
//
// Only an empty batch or a storage failure produce an error.
func (s *Service) Ingest(ctx context.Context, entries []Entry) (*Report, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyBatch
	}

	report := &Report{}
	survivors := s.validate(entries, report)
	resolved := s.resolveMetadata(ctx, survivors, report)

	videos := make([]*models.Video, 0, len(resolved))
	seen := make(map[string]bool, len(resolved))
	for _, v := range resolved {
		// In-batch duplicates collapse to one row, same as catalog duplicates
		if seen[v.URL] {
			continue
		}
		seen[v.URL] = true
		videos = append(videos, v)
	}

	inserted, err := s.repos.Videos.BulkInsert(ctx, videos)
	if err != nil {
		urls := make([]string, len(videos))
		for i, v := range videos {
			urls[i] = v.URL
		}
		logger.Log.Error().
			Err(err).
			Strs("urls", urls).
			Msg("Bulk insert failed")
		return nil, fmt.Errorf("failed to store videos [%s]: %w", strings.Join(urls, ", "), err)
	}
	report.Accepted = int(inserted)

	logger.Log.Info().
		Int("submitted", len(entries)).
		Int("accepted", report.Accepted).
		Int("rejected", len(report.Rejected)).
		Msg("Ingestion batch completed")

	return report, nil
}

// validate screens entries for shape problems, recording rejections and
// returning the candidates worth resolving.
func (s *Service) validate(entries []Entry, report *Report) []candidate {
	survivors := make([]candidate, 0, len(entries))

	for _, entry := range entries {
		url := strings.TrimSpace(entry.URL)
		rawCategory := strings.TrimSpace(entry.Category)

		if url == "" || rawCategory == "" {
			report.Rejected = append(report.Rejected, Rejection{
				URL:    url,
				Reason: ReasonMissingField,
				Detail: "each video must have url and category",
			})
			continue
		}

		category, ok := models.ParseCategory(rawCategory)
		if !ok {
			report.Rejected = append(report.Rejected, Rejection{
				URL:    url,
				Reason: ReasonInvalidCategory,
				Detail: fmt.Sprintf("unknown category %q", rawCategory),
			})
			continue
		}

		videoID := youtube.ExtractVideoID(url)
		if videoID == "" {
			report.Rejected = append(report.Rejected, Rejection{
				URL:    url,
				Reason: ReasonUnrecognizedURL,
				Detail: "not a recognizable YouTube video URL",
			})
			continue
		}

		survivors = append(survivors, candidate{entry: Entry{URL: url, Category: rawCategory}, category: category, videoID: videoID})
	}

	return survivors
}

// resolveMetadata resolves all surviving candidates as one provider batch
// and builds the video records to commit. Candidates the provider cannot
// find are rejected individually; a batch-level provider failure rejects
// every candidate with the underlying message rather than failing the run.
func (s *Service) resolveMetadata(ctx context.Context, survivors []candidate, report *Report) []*models.Video {
	if len(survivors) == 0 {
		return nil
	}

	ids := make([]string, 0, len(survivors))
	seen := make(map[string]bool, len(survivors))
	for _, c := range survivors {
		if !seen[c.videoID] {
			seen[c.videoID] = true
			ids = append(ids, c.videoID)
		}
	}

	details, err := s.resolver.Resolve(ctx, ids)
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Int("id_count", len(ids)).
			Msg("Provider batch resolution failed")
		for _, c := range survivors {
			report.Rejected = append(report.Rejected, Rejection{
				URL:    c.entry.URL,
				Reason: ReasonMetadataUnavailable,
				Detail: err.Error(),
			})
		}
		return nil
	}

	videos := make([]*models.Video, 0, len(survivors))
	for _, c := range survivors {
		d, ok := details[c.videoID]
		if !ok {
			report.Rejected = append(report.Rejected, Rejection{
				URL:    c.entry.URL,
				Reason: ReasonMetadataUnavailable,
				Detail: fmt.Sprintf("video %s not found at provider", c.videoID),
			})
			continue
		}

		video := models.NewVideo(c.entry.URL, c.videoID, c.category)
		video.Duration = d.Duration
		video.Title = strPtr(d.Title)
		video.Description = strPtr(d.Description)
		video.ChannelTitle = strPtr(d.ChannelTitle)
		// Non-public videos are still catalogued, just never eligible
		if d.Public {
			video.Visibility = models.VisibilityPublic
		} else {
			video.Visibility = models.VisibilityPrivate
		}
		videos = append(videos, video)
	}

	return videos
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
