package health

import (
	"net/http"

	video_module "github.com/ethanbaker/ytchat/internal/api/modules/video"
	"github.com/ethanbaker/ytchat/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// Return the root liveness message of the API
func getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, sdk.StatusResponse{
		Message:   "YouTube RAG Chat API is running",
		Status:    "healthy",
		Timestamp: sdk.Timestamp(),
	})
}

// Return the detailed health of the API: model load state and session count
func getHealth(c *gin.Context) {
	service := video_module.GetService()

	c.JSON(http.StatusOK, sdk.HealthResponse{
		Status:           "healthy",
		EmbeddingsLoaded: service.EmbeddingsLoaded(),
		ModelLoaded:      service.ModelLoaded(),
		ProcessedVideos:  service.Store().Count(),
		Timestamp:        sdk.Timestamp(),
	})
}
