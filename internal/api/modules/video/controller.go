package video

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethanbaker/ytchat/internal/rag/composer"
	"github.com/ethanbaker/ytchat/internal/rag/embedding"
	"github.com/ethanbaker/ytchat/internal/rag/transcript"
	videostore "github.com/ethanbaker/ytchat/internal/stores/video"
	"github.com/ethanbaker/ytchat/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// ProcessVideo handles POST requests to fetch, chunk, embed, and index a
// video's transcript. Processing the same video twice is a no-op
func ProcessVideo(c *gin.Context) {
	// Parse request body
	var req sdk.ProcessVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, sdk.NewErrorResponse("Video ID is required"))
		return
	}

	videoID := strings.TrimSpace(req.VideoID)
	if videoID == "" {
		c.JSON(http.StatusBadRequest, sdk.NewErrorResponse("Video ID is required"))
		return
	}

	service := GetService()
	_, already, err := service.Store().Process(c.Request.Context(), videoID)
	if err != nil {
		c.JSON(processErrorStatus(err), sdk.NewErrorResponse(err.Error()))
		return
	}

	status := sdk.StatusProcessed
	message := fmt.Sprintf("Video %s processed successfully and is ready for chat", videoID)
	if already {
		status = sdk.StatusAlreadyProcessed
		message = fmt.Sprintf("Video %s was already processed and is ready for chat", videoID)
	}

	c.JSON(http.StatusOK, sdk.ProcessVideoResponse{
		Message:   message,
		VideoID:   videoID,
		Status:    status,
		Timestamp: sdk.Timestamp(),
	})
}

// Chat handles POST requests to answer a question about a processed video
func Chat(c *gin.Context) {
	// Parse request body
	var req sdk.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, sdk.NewErrorResponse("Video ID and query are required"))
		return
	}

	videoID := strings.TrimSpace(req.VideoID)
	query := strings.TrimSpace(req.Query)
	if videoID == "" {
		c.JSON(http.StatusBadRequest, sdk.NewErrorResponse("Video ID is required"))
		return
	}
	if query == "" {
		c.JSON(http.StatusBadRequest, sdk.NewErrorResponse("Query is required"))
		return
	}

	service := GetService()
	answer, err := service.Store().Chat(c.Request.Context(), videoID, query)
	if err != nil {
		c.JSON(chatErrorStatus(err), sdk.NewErrorResponse(chatErrorDetail(videoID, err)))
		return
	}

	c.JSON(http.StatusOK, sdk.ChatResponse{
		Response:  answer,
		VideoID:   videoID,
		Query:     query,
		Timestamp: sdk.Timestamp(),
	})
}

// ListVideos handles GET requests to list all processed videos
func ListVideos(c *gin.Context) {
	service := GetService()

	videos := []sdk.ProcessedVideo{}
	for _, info := range service.Store().List() {
		videos = append(videos, sdk.ProcessedVideo{
			VideoID:          info.VideoID,
			ProcessedAt:      info.ProcessedAt.Format(time.RFC3339),
			TranscriptLength: info.TranscriptLength,
		})
	}

	c.JSON(http.StatusOK, sdk.ListVideosResponse{
		ProcessedVideos: videos,
		Count:           len(videos),
		Timestamp:       sdk.Timestamp(),
	})
}

// DeleteVideo handles DELETE requests to evict a processed video from memory
func DeleteVideo(c *gin.Context) {
	videoID := c.Param("video_id")

	service := GetService()
	if err := service.Store().Evict(videoID); err != nil {
		c.JSON(http.StatusNotFound, sdk.NewErrorResponse("Video not found"))
		return
	}

	c.JSON(http.StatusOK, sdk.DeleteVideoResponse{
		Message:   fmt.Sprintf("Video %s deleted successfully", videoID),
		Timestamp: sdk.Timestamp(),
	})
}

// processErrorStatus maps pipeline failures to HTTP statuses: disabled
// captions are a client error, a missing transcript is not found, and
// anything else (acquisition, embedding, indexing) is a server error
func processErrorStatus(err error) int {
	switch {
	case errors.Is(err, transcript.ErrTranscriptsDisabled):
		return http.StatusBadRequest
	case errors.Is(err, transcript.ErrNoTranscriptFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func chatErrorStatus(err error) int {
	if errors.Is(err, videostore.ErrSessionNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func chatErrorDetail(videoID string, err error) string {
	switch {
	case errors.Is(err, videostore.ErrSessionNotFound):
		return fmt.Sprintf("Video %s has not been processed. Please process it first.", videoID)
	case errors.Is(err, composer.ErrUnavailable):
		return "Language model not available"
	case errors.Is(err, embedding.ErrUnavailable):
		return "Embeddings model not available"
	default:
		return err.Error()
	}
}
