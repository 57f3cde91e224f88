package video

import (
	"github.com/gin-gonic/gin"
)

// Register routes for the video module
func RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/process_video", ProcessVideo)     // Fetch, chunk, embed, and index a video's transcript
	g.POST("/chat", Chat)                      // Answer a question about a processed video
	g.GET("/videos", ListVideos)               // List all processed videos
	g.DELETE("/videos/:video_id", DeleteVideo) // Evict a processed video from memory
}
