package transcript

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubYouTube serves a player response advertising one caption track per
// language, plus the canned track body itself
func stubYouTube(t *testing.T, langs []string, track map[string]any) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/youtubei/v1/player", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var body playerRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotEmpty(t, body.VideoID)

		resp := map[string]any{
			"playabilityStatus": map[string]any{"status": "OK"},
		}
		if len(langs) > 0 {
			tracks := make([]map[string]any, 0, len(langs))
			for _, lang := range langs {
				tracks = append(tracks, map[string]any{
					"baseUrl":      "http://" + r.Host + "/api/timedtext?lang=" + lang,
					"languageCode": lang,
				})
			}
			resp["captions"] = map[string]any{
				"playerCaptionsTracklistRenderer": map[string]any{
					"captionTracks": tracks,
				},
			}
		}
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/api/timedtext", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json3", r.URL.Query().Get("fmt"))
		json.NewEncoder(w).Encode(track)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFetch(t *testing.T) {
	track := map[string]any{
		"events": []map[string]any{
			{"tStartMs": 0, "dDurationMs": 2000, "segs": []map[string]any{{"utf8": "Hello "}, {"utf8": "world"}}},
			{"tStartMs": 2000, "dDurationMs": 1000, "segs": []map[string]any{{"utf8": "\n"}}},
			{"tStartMs": 3000, "dDurationMs": 1500, "segs": []map[string]any{{"utf8": "second line"}}},
		},
	}

	t.Run("returns ordered lines for the preferred language", func(t *testing.T) {
		server := stubYouTube(t, []string{"de", "en"}, track)

		client := NewClientWithBaseURL(server.URL, 5*time.Second)
		lines, err := client.Fetch(context.Background(), "abc123", []string{"en", "hi"})
		require.NoError(t, err)

		require.Len(t, lines, 2)
		assert.Equal(t, "Hello world", lines[0].Text)
		assert.Equal(t, 0.0, lines[0].Start)
		assert.Equal(t, 2.0, lines[0].Duration)
		assert.Equal(t, "second line", lines[1].Text)
		assert.Equal(t, 3.0, lines[1].Start)
	})

	t.Run("transcripts disabled", func(t *testing.T) {
		server := stubYouTube(t, nil, nil)

		client := NewClientWithBaseURL(server.URL, 5*time.Second)
		_, err := client.Fetch(context.Background(), "abc123", []string{"en"})
		assert.ErrorIs(t, err, ErrTranscriptsDisabled)
	})

	t.Run("no transcript for requested languages", func(t *testing.T) {
		server := stubYouTube(t, []string{"fr", "de"}, nil)

		client := NewClientWithBaseURL(server.URL, 5*time.Second)
		_, err := client.Fetch(context.Background(), "abc123", []string{"en", "hi"})
		assert.ErrorIs(t, err, ErrNoTranscriptFound)
	})

	t.Run("upstream failure wraps an acquisition error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		t.Cleanup(server.Close)

		client := NewClientWithBaseURL(server.URL, 5*time.Second)
		_, err := client.Fetch(context.Background(), "abc123", []string{"en"})

		var acqErr *AcquisitionError
		require.ErrorAs(t, err, &acqErr)
		assert.Equal(t, "abc123", acqErr.VideoID)
	})

	t.Run("malformed player response wraps an acquisition error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		t.Cleanup(server.Close)

		client := NewClientWithBaseURL(server.URL, 5*time.Second)
		_, err := client.Fetch(context.Background(), "abc123", []string{"en"})

		var acqErr *AcquisitionError
		assert.ErrorAs(t, err, &acqErr)
	})

	t.Run("unplayable video wraps an acquisition error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"playabilityStatus": map[string]any{"status": "LOGIN_REQUIRED", "reason": "age restricted"},
			})
		}))
		t.Cleanup(server.Close)

		client := NewClientWithBaseURL(server.URL, 5*time.Second)
		_, err := client.Fetch(context.Background(), "abc123", []string{"en"})

		var acqErr *AcquisitionError
		require.ErrorAs(t, err, &acqErr)
		assert.Contains(t, acqErr.Error(), "LOGIN_REQUIRED")
	})
}

func TestSelectTrack(t *testing.T) {
	tracks := []captionTrack{
		{LanguageCode: "fr"},
		{LanguageCode: "en-US"},
		{LanguageCode: "hi"},
	}

	t.Run("exact match wins", func(t *testing.T) {
		track, ok := selectTrack(tracks, []string{"hi", "en"})
		require.True(t, ok)
		assert.Equal(t, "hi", track.LanguageCode)
	})

	t.Run("prefix match as fallback", func(t *testing.T) {
		track, ok := selectTrack(tracks, []string{"en"})
		require.True(t, ok)
		assert.Equal(t, "en-US", track.LanguageCode)
	})

	t.Run("preference order decides", func(t *testing.T) {
		track, ok := selectTrack(tracks, []string{"zh", "fr", "hi"})
		require.True(t, ok)
		assert.Equal(t, "fr", track.LanguageCode)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := selectTrack(tracks, []string{"zh", "bn"})
		assert.False(t, ok)
	})
}

func TestFlatten(t *testing.T) {
	lines := []Line{
		{Text: "  Hello\nworld  "},
		{Text: "\n \n"},
		{Text: "this is a test"},
		{Text: ""},
	}

	assert.Equal(t, "Hello world this is a test", Flatten(lines))
	assert.Equal(t, "", Flatten(nil))
}
