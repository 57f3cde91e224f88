package sdk

import "time"

/** Requests */

// ProcessVideoRequest represents the request body for processing a video
type ProcessVideoRequest struct {
	VideoID string `json:"video_id" binding:"required"`
}

// ChatRequest represents the request body for chatting with a processed video
type ChatRequest struct {
	VideoID string `json:"video_id" binding:"required"`
	Query   string `json:"query" binding:"required"`
}

/** Responses */

// Processing status values returned by the process_video endpoint
const (
	StatusProcessed        = "processed"
	StatusAlreadyProcessed = "already_processed"
)

// ProcessVideoResponse is returned after a video has been processed
type ProcessVideoResponse struct {
	Message   string `json:"message"`
	VideoID   string `json:"video_id"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ChatResponse carries the generated answer for a chat query
type ChatResponse struct {
	Response  string `json:"response"`
	VideoID   string `json:"video_id"`
	Query     string `json:"query"`
	Timestamp string `json:"timestamp"`
}

// ProcessedVideo is the listing view of one processed video
type ProcessedVideo struct {
	VideoID          string `json:"video_id"`
	ProcessedAt      string `json:"processed_at"`
	TranscriptLength int    `json:"transcript_length"`
}

// ListVideosResponse lists all processed videos
type ListVideosResponse struct {
	ProcessedVideos []ProcessedVideo `json:"processed_videos"`
	Count           int              `json:"count"`
	Timestamp       string           `json:"timestamp"`
}

// DeleteVideoResponse is returned after a video session has been evicted
type DeleteVideoResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// HealthResponse reports the detailed service health
type HealthResponse struct {
	Status           string `json:"status"`
	EmbeddingsLoaded bool   `json:"embeddings_loaded"`
	ModelLoaded      bool   `json:"model_loaded"`
	ProcessedVideos  int    `json:"processed_videos"`
	Timestamp        string `json:"timestamp"`
}

// StatusResponse is the root liveness message
type StatusResponse struct {
	Message   string `json:"message"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Detail    string `json:"detail"`
	Timestamp string `json:"timestamp"`
}

// NewErrorResponse creates an error body with the current timestamp
func NewErrorResponse(detail string) ErrorResponse {
	return ErrorResponse{Detail: detail, Timestamp: Timestamp()}
}

// Timestamp returns the current time in the wire format used by all responses
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
