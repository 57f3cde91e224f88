package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Line is a single time-coded caption line from a video's transcript
type Line struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Fetcher retrieves the ordered caption lines for a video in the first
// available language from a preference-ordered language list
type Fetcher interface {
	Fetch(ctx context.Context, videoID string, languages []string) ([]Line, error)
}

// Client fetches caption tracks through YouTube's Innertube API
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a transcript client with the given timeout on upstream calls
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://www.youtube.com",
	}
}

// NewClientWithBaseURL creates a transcript client against a custom endpoint.
// Used by tests to point the client at a stub server
func NewClientWithBaseURL(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

/** Innertube wire types **/

type playerRequest struct {
	Context playerContext `json:"context"`
	VideoID string        `json:"videoId"`
}

type playerContext struct {
	Client playerClient `json:"client"`
}

type playerClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// json3 caption track format
type trackResponse struct {
	Events []struct {
		StartMs    float64 `json:"tStartMs"`
		DurationMs float64 `json:"dDurationMs"`
		Segs       []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// Fetch returns the caption lines for videoID in the first language from
// languages that has a caption track.
// Returns ErrTranscriptsDisabled when the video has no captions at all,
// ErrNoTranscriptFound when no track matches a requested language, and an
// AcquisitionError for any other upstream failure
func (c *Client) Fetch(ctx context.Context, videoID string, languages []string) ([]Line, error) {
	tracks, err := c.listCaptionTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, ErrTranscriptsDisabled
	}

	track, ok := selectTrack(tracks, languages)
	if !ok {
		return nil, ErrNoTranscriptFound
	}

	return c.fetchTrack(ctx, videoID, track)
}

// listCaptionTracks queries the Innertube player endpoint for the video's caption tracks
func (c *Client) listCaptionTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	body, err := json.Marshal(playerRequest{
		Context: playerContext{
			Client: playerClient{ClientName: "ANDROID", ClientVersion: "20.10.38"},
		},
		VideoID: videoID,
	})
	if err != nil {
		return nil, &AcquisitionError{VideoID: videoID, Err: err}
	}

	url := c.baseURL + "/youtubei/v1/player"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &AcquisitionError{VideoID: videoID, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &AcquisitionError{VideoID: videoID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &AcquisitionError{VideoID: videoID, Err: fmt.Errorf("player request failed: %s", resp.Status)}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AcquisitionError{VideoID: videoID, Err: err}
	}

	var player playerResponse
	if err := json.Unmarshal(payload, &player); err != nil {
		return nil, &AcquisitionError{VideoID: videoID, Err: fmt.Errorf("malformed player response: %w", err)}
	}

	if s := player.PlayabilityStatus.Status; s != "" && s != "OK" {
		return nil, &AcquisitionError{VideoID: videoID, Err: fmt.Errorf("video not playable: %s (%s)", s, player.PlayabilityStatus.Reason)}
	}

	return player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, nil
}

// fetchTrack downloads a caption track in json3 format and decodes its events
func (c *Client) fetchTrack(ctx context.Context, videoID string, track captionTrack) ([]Line, error) {
	url := track.BaseURL
	if !strings.Contains(url, "fmt=") {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		url += sep + "fmt=json3"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &AcquisitionError{VideoID: videoID, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &AcquisitionError{VideoID: videoID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &AcquisitionError{VideoID: videoID, Err: fmt.Errorf("caption track request failed: %s", resp.Status)}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AcquisitionError{VideoID: videoID, Err: err}
	}

	var decoded trackResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, &AcquisitionError{VideoID: videoID, Err: fmt.Errorf("malformed caption track: %w", err)}
	}

	var lines []Line
	for _, event := range decoded.Events {
		var sb strings.Builder
		for _, seg := range event.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := sb.String()
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, Line{
			Text:     text,
			Start:    event.StartMs / 1000,
			Duration: event.DurationMs / 1000,
		})
	}

	return lines, nil
}

// selectTrack picks the first caption track matching the language preference order.
// Exact language code matches are tried first, then prefix matches (en matches en-US)
func selectTrack(tracks []captionTrack, languages []string) (captionTrack, bool) {
	for _, lang := range languages {
		for _, track := range tracks {
			if strings.EqualFold(track.LanguageCode, lang) {
				return track, true
			}
		}
		for _, track := range tracks {
			if strings.HasPrefix(strings.ToLower(track.LanguageCode), strings.ToLower(lang)+"-") {
				return track, true
			}
		}
	}
	return captionTrack{}, false
}

// Flatten concatenates caption lines into one normalized text stream.
// Newlines are collapsed to spaces, whitespace is trimmed, and empty lines are dropped
func Flatten(lines []Line) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		text := strings.TrimSpace(strings.ReplaceAll(line.Text, "\n", " "))
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}
