package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mehuldv/satsangtv/internal/logger"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"

	// The videos.list endpoint accepts at most 50 IDs per call.
	maxBatchSize = 50

	// Parts requested from the provider: descriptive fields, duration,
	// and privacy status.
	listParts = "snippet,contentDetails,status"
)

// Client resolves video metadata through the YouTube Data API v3.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Data API client. The timeout bounds each provider
// request; expiry surfaces as ErrProvider.
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// listResponse mirrors the videos.list response shape.
type listResponse struct {
	Items []listItem `json:"items"`
}

type listItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		ChannelTitle string `json:"channelTitle"`
	} `json:"snippet"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
	Status struct {
		PrivacyStatus string `json:"privacyStatus"`
	} `json:"status"`
}

// Resolve looks up a batch of video IDs, chunking requests at the
// provider's 50-ID limit. IDs the provider knows nothing about are simply
// absent from the result map.
func (c *Client) Resolve(ctx context.Context, ids []string) (map[string]VideoDetails, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: API key not configured", ErrProvider)
	}

	results := make(map[string]VideoDetails, len(ids))

	for start := 0; start < len(ids); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		if err := c.listVideos(ctx, ids[start:end], results); err != nil {
			return nil, err
		}
	}

	return results, nil
}

// ResolveOne looks up a single video ID.
func (c *Client) ResolveOne(ctx context.Context, id string) (VideoDetails, error) {
	results, err := c.Resolve(ctx, []string{id})
	if err != nil {
		return VideoDetails{}, err
	}

	details, ok := results[id]
	if !ok {
		return VideoDetails{}, fmt.Errorf("%w: %s", ErrVideoNotFound, id)
	}
	return details, nil
}

// listVideos performs one videos.list call and merges the items into results.
func (c *Client) listVideos(ctx context.Context, ids []string, results map[string]VideoDetails) error {
	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("part", listParts)
	query.Set("id", strings.Join(ids, ","))

	endpoint := fmt.Sprintf("%s/videos?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024)) // nolint:errcheck
		logger.Log.Warn().
			Int("status", resp.StatusCode).
			Int("id_count", len(ids)).
			Msg("Provider rejected videos.list request")
		return fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed listResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrProvider, err)
	}

	for _, item := range parsed.Items {
		results[item.ID] = VideoDetails{
			Public:       item.Status.PrivacyStatus == "public",
			Duration:     ParseISODuration(item.ContentDetails.Duration),
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelTitle: item.Snippet.ChannelTitle,
		}
	}

	return nil
}
