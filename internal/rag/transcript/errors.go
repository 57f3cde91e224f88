package transcript

import (
	"errors"
	"fmt"
)

var (
	// ErrTranscriptsDisabled is returned when captioning is turned off for a video
	ErrTranscriptsDisabled = errors.New("transcripts are disabled for this video")

	// ErrNoTranscriptFound is returned when no caption track matches any requested language
	ErrNoTranscriptFound = errors.New("no transcript found for the requested languages")
)

// AcquisitionError wraps any other upstream captioning failure (network errors,
// rate limits, malformed responses) together with the video it occurred for
type AcquisitionError struct {
	VideoID string
	Err     error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("failed to acquire transcript for video %s: %v", e.VideoID, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}
