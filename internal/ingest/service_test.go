package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehuldv/satsangtv/internal/db"
	"github.com/mehuldv/satsangtv/internal/models"
	"github.com/mehuldv/satsangtv/internal/youtube"
)

// fakeResolver is a test double for the metadata provider
type fakeResolver struct {
	details map[string]youtube.VideoDetails
	err     error
}

func (f *fakeResolver) Resolve(_ context.Context, ids []string) (map[string]youtube.VideoDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	results := make(map[string]youtube.VideoDetails)
	for _, id := range ids {
		if d, ok := f.details[id]; ok {
			results[id] = d
		}
	}
	return results, nil
}

func (f *fakeResolver) ResolveOne(_ context.Context, id string) (youtube.VideoDetails, error) {
	if f.err != nil {
		return youtube.VideoDetails{}, f.err
	}
	d, ok := f.details[id]
	if !ok {
		return youtube.VideoDetails{}, fmt.Errorf("%w: %s", youtube.ErrVideoNotFound, id)
	}
	return d, nil
}

// setupTestService creates an ingestion service with a migrated temp database
func setupTestService(t *testing.T, resolver youtube.Resolver) (*Service, *db.Repositories) {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(tmpFile)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(sqlDB, "file://../../migrations"))

	repos := db.NewRepositories(database)
	return NewService(repos, resolver), repos
}

func publicDetails(title string) youtube.VideoDetails {
	return youtube.VideoDetails{
		Public:       true,
		Duration:     253,
		Title:        title,
		ChannelTitle: "Satsang Channel",
	}
}

func TestIngest_EmptyBatch(t *testing.T) {
	service, _ := setupTestService(t, &fakeResolver{})

	_, err := service.Ingest(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, IsEmptyBatch(err))

	_, err = service.Ingest(context.Background(), []Entry{})
	require.Error(t, err)
	assert.True(t, IsEmptyBatch(err))
}

func TestIngest_MixedValidAndUnrecognized(t *testing.T) {
	resolver := &fakeResolver{details: map[string]youtube.VideoDetails{
		"AAAAAAAAAAA": publicDetails("Morning Kirtan"),
	}}
	service, repos := setupTestService(t, resolver)
	ctx := context.Background()

	report, err := service.Ingest(ctx, []Entry{
		{URL: "https://youtu.be/AAAAAAAAAAA", Category: "kirtan"},
		{URL: "not-a-video", Category: "kirtan"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Accepted)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, "not-a-video", report.Rejected[0].URL)
	assert.Equal(t, ReasonUnrecognizedURL, report.Rejected[0].Reason)

	stored, err := repos.Videos.GetByURL(ctx, "https://youtu.be/AAAAAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPublic, stored.Visibility)
	assert.Equal(t, int64(253), stored.Duration)
	require.NotNil(t, stored.Title)
	assert.Equal(t, "Morning Kirtan", *stored.Title)
	assert.Equal(t, "AAAAAAAAAAA", stored.VideoID)
}

func TestIngest_MissingFields(t *testing.T) {
	service, _ := setupTestService(t, &fakeResolver{})

	report, err := service.Ingest(context.Background(), []Entry{
		{URL: "", Category: "kirtan"},
		{URL: "https://youtu.be/AAAAAAAAAAA", Category: ""},
		{URL: "   ", Category: "   "},
	})
	require.NoError(t, err)

	assert.Zero(t, report.Accepted)
	require.Len(t, report.Rejected, 3)
	for _, rejection := range report.Rejected {
		assert.Equal(t, ReasonMissingField, rejection.Reason)
	}
}

func TestIngest_InvalidCategory(t *testing.T) {
	service, _ := setupTestService(t, &fakeResolver{})

	report, err := service.Ingest(context.Background(), []Entry{
		{URL: "https://youtu.be/AAAAAAAAAAA", Category: "opera"},
	})
	require.NoError(t, err)

	assert.Zero(t, report.Accepted)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, ReasonInvalidCategory, report.Rejected[0].Reason)
	assert.Contains(t, report.Rejected[0].Detail, "opera")
}

func TestIngest_MetadataNotFound(t *testing.T) {
	resolver := &fakeResolver{details: map[string]youtube.VideoDetails{
		"AAAAAAAAAAA": publicDetails("Found"),
	}}
	service, _ := setupTestService(t, resolver)

	report, err := service.Ingest(context.Background(), []Entry{
		{URL: "https://youtu.be/AAAAAAAAAAA", Category: "dhun"},
		{URL: "https://youtu.be/BBBBBBBBBBB", Category: "dhun"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Accepted)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, "https://youtu.be/BBBBBBBBBBB", report.Rejected[0].URL)
	assert.Equal(t, ReasonMetadataUnavailable, report.Rejected[0].Reason)
}

func TestIngest_ProviderOutageRejectsSurvivors(t *testing.T) {
	resolver := &fakeResolver{err: fmt.Errorf("%w: quota exceeded", youtube.ErrProvider)}
	service, _ := setupTestService(t, resolver)

	report, err := service.Ingest(context.Background(), []Entry{
		{URL: "https://youtu.be/AAAAAAAAAAA", Category: "kirtan"},
		{URL: "not-a-video", Category: "kirtan"},
	})
	require.NoError(t, err)

	assert.Zero(t, report.Accepted)
	require.Len(t, report.Rejected, 2)

	byURL := make(map[string]Rejection)
	for _, r := range report.Rejected {
		byURL[r.URL] = r
	}
	assert.Equal(t, ReasonMetadataUnavailable, byURL["https://youtu.be/AAAAAAAAAAA"].Reason)
	assert.Contains(t, byURL["https://youtu.be/AAAAAAAAAAA"].Detail, "quota exceeded")
	assert.Equal(t, ReasonUnrecognizedURL, byURL["not-a-video"].Reason)
}

func TestIngest_NonPublicVideoCataloguedPrivate(t *testing.T) {
	resolver := &fakeResolver{details: map[string]youtube.VideoDetails{
		"AAAAAAAAAAA": {Public: false, Duration: 100, Title: "Hidden"},
	}}
	service, repos := setupTestService(t, resolver)
	ctx := context.Background()

	report, err := service.Ingest(ctx, []Entry{
		{URL: "https://youtu.be/AAAAAAAAAAA", Category: "katha"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Accepted)

	stored, err := repos.Videos.GetByURL(ctx, "https://youtu.be/AAAAAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPrivate, stored.Visibility)
}

func TestIngest_ResubmittedURLIsNoOp(t *testing.T) {
	resolver := &fakeResolver{details: map[string]youtube.VideoDetails{
		"AAAAAAAAAAA": publicDetails("Morning Kirtan"),
	}}
	service, repos := setupTestService(t, resolver)
	ctx := context.Background()

	first, err := service.Ingest(ctx, []Entry{
		{URL: "https://youtu.be/AAAAAAAAAAA", Category: "kirtan"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Accepted)

	// Second submission: neither accepted as new nor rejected as an error
	second, err := service.Ingest(ctx, []Entry{
		{URL: "https://youtu.be/AAAAAAAAAAA", Category: "kirtan"},
	})
	require.NoError(t, err)
	assert.Zero(t, second.Accepted)
	assert.Empty(t, second.Rejected)

	count, err := repos.Videos.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestIngest_InBatchDuplicatesCollapse(t *testing.T) {
	resolver := &fakeResolver{details: map[string]youtube.VideoDetails{
		"AAAAAAAAAAA": publicDetails("Morning Kirtan"),
	}}
	service, repos := setupTestService(t, resolver)
	ctx := context.Background()

	report, err := service.Ingest(ctx, []Entry{
		{URL: "https://youtu.be/AAAAAAAAAAA", Category: "kirtan"},
		{URL: "https://youtu.be/AAAAAAAAAAA", Category: "kirtan"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Accepted)
	assert.Empty(t, report.Rejected)

	count, err := repos.Videos.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
