package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a client at a stub provider.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient("test-key", 5*time.Second)
	client.baseURL = srv.URL
	return client
}

func TestClientResolve_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "snippet,contentDetails,status", r.URL.Query().Get("part"))
		assert.Equal(t, "aaaaaaaaaaa,bbbbbbbbbbb", r.URL.Query().Get("id"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"items": [
				{
					"id": "aaaaaaaaaaa",
					"snippet": {"title": "Morning Kirtan", "description": "desc", "channelTitle": "Satsang Channel"},
					"contentDetails": {"duration": "PT1H2M3S"},
					"status": {"privacyStatus": "public"}
				},
				{
					"id": "bbbbbbbbbbb",
					"snippet": {"title": "Hidden", "description": "", "channelTitle": ""},
					"contentDetails": {"duration": "PT30S"},
					"status": {"privacyStatus": "unlisted"}
				}
			]
		}`)
	})

	results, err := client.Resolve(context.Background(), []string{"aaaaaaaaaaa", "bbbbbbbbbbb"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results["aaaaaaaaaaa"]
	assert.True(t, first.Public)
	assert.Equal(t, int64(3723), first.Duration)
	assert.Equal(t, "Morning Kirtan", first.Title)
	assert.Equal(t, "Satsang Channel", first.ChannelTitle)

	// Anything other than exactly "public" is not public
	second := results["bbbbbbbbbbb"]
	assert.False(t, second.Public)
	assert.Equal(t, int64(30), second.Duration)
}

func TestClientResolve_MissingIDsAbsentFromResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items": []}`)
	})

	results, err := client.Resolve(context.Background(), []string{"ccccccccccc"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClientResolveOne_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items": []}`)
	})

	_, err := client.ResolveOne(context.Background(), "ccccccccccc")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestClientResolve_ProviderRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"message": "quota exceeded"}}`)
	})

	_, err := client.Resolve(context.Background(), []string{"aaaaaaaaaaa"})
	require.Error(t, err)
	assert.True(t, IsProviderError(err))
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestClientResolve_MissingAPIKey(t *testing.T) {
	client := NewClient("", 5*time.Second)

	_, err := client.Resolve(context.Background(), []string{"aaaaaaaaaaa"})
	require.Error(t, err)
	assert.True(t, IsProviderError(err))
}
