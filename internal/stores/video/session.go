package video

import (
	"time"

	"github.com/ethanbaker/ytchat/internal/rag/retriever"
	"github.com/ethanbaker/ytchat/internal/rag/vectorstore"
)

// VideoSession is the per-video state built by Process: the vector index over
// the video's transcript plus metadata. Sessions are owned exclusively by the
// Store for the lifetime of the process and never persisted
type VideoSession struct {
	VideoID          string
	Index            *vectorstore.Index
	Retriever        *retriever.Retriever
	TranscriptLength int
	CreatedAt        time.Time
}

// SessionInfo is the listing view of a session
type SessionInfo struct {
	VideoID          string
	ProcessedAt      time.Time
	TranscriptLength int
}
