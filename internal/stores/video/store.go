package video

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ethanbaker/ytchat/internal/rag/chunker"
	"github.com/ethanbaker/ytchat/internal/rag/composer"
	"github.com/ethanbaker/ytchat/internal/rag/embedding"
	"github.com/ethanbaker/ytchat/internal/rag/retriever"
	"github.com/ethanbaker/ytchat/internal/rag/transcript"
	"github.com/ethanbaker/ytchat/internal/rag/vectorstore"
)

// ErrSessionNotFound is returned when no session exists for a video id
var ErrSessionNotFound = errors.New("video has not been processed")

// BuildError wraps a chunking, embedding, or indexing failure during Process.
// No partial session is ever stored when it occurs
type BuildError struct {
	VideoID string
	Err     error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("failed to build index for video %s: %v", e.VideoID, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Options configures the processing pipeline run by the store
type Options struct {
	Languages    []string // preference-ordered caption languages
	ChunkSize    int
	ChunkOverlap int
	RetrievalK   int
}

// Store is the process-wide registry mapping video ids to their built
// sessions. It runs the full acquisition/chunking/embedding/indexing pipeline
// on first Process of an id and reuses the session on every later call.
// All methods are safe for concurrent use
type Store struct {
	fetcher  transcript.Fetcher
	embedder embedding.Embedder
	composer *composer.Composer
	splitter *chunker.Splitter
	opts     Options

	mu       sync.RWMutex
	sessions map[string]*VideoSession
	group    singleflight.Group
}

// NewStore creates an empty registry using the given collaborators
func NewStore(fetcher transcript.Fetcher, embedder embedding.Embedder, comp *composer.Composer, opts Options) *Store {
	if len(opts.Languages) == 0 {
		opts.Languages = []string{"en"}
	}
	return &Store{
		fetcher:  fetcher,
		embedder: embedder,
		composer: comp,
		splitter: chunker.NewSplitter(opts.ChunkSize, opts.ChunkOverlap),
		opts:     opts,
		sessions: make(map[string]*VideoSession),
	}
}

// Process builds a session for videoID, or returns the existing one. The
// returned bool is true when the video was already processed. Concurrent
// calls for the same new id are collapsed into a single pipeline execution
// and only the call that ran the pipeline reports a fresh build;
// the registry lock is only held for map access, never across upstream I/O.
// Any pipeline failure leaves the registry unchanged
func (s *Store) Process(ctx context.Context, videoID string) (*VideoSession, bool, error) {
	s.mu.RLock()
	session, exists := s.sessions[videoID]
	s.mu.RUnlock()
	if exists {
		return session, true, nil
	}

	// built is only set by the goroutine whose closure actually runs the
	// pipeline; coalesced callers keep it false and report already processed
	built := false
	result, err, _ := s.group.Do(videoID, func() (any, error) {
		// A concurrent flight may have stored the session between the check
		// above and this call
		s.mu.RLock()
		session, exists := s.sessions[videoID]
		s.mu.RUnlock()
		if exists {
			return session, nil
		}

		session, err := s.build(ctx, videoID)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.sessions[videoID] = session
		s.mu.Unlock()
		built = true
		return session, nil
	})
	if err != nil {
		log.Printf("[VIDEO-STORE]: Failed to process video %s: %v", videoID, err)
		return nil, false, err
	}

	return result.(*VideoSession), !built, nil
}

// build runs acquisition -> chunking -> embedding -> index construction
func (s *Store) build(ctx context.Context, videoID string) (*VideoSession, error) {
	lines, err := s.fetcher.Fetch(ctx, videoID, s.opts.Languages)
	if err != nil {
		return nil, err
	}

	text := transcript.Flatten(lines)
	chunks := s.splitter.Split(text)
	if len(chunks) == 0 {
		return nil, &BuildError{VideoID: videoID, Err: errors.New("transcript is empty")}
	}

	vectors, err := s.embedder.Embed(ctx, chunks)
	if err != nil {
		return nil, &BuildError{VideoID: videoID, Err: err}
	}

	index, err := vectorstore.Build(chunks, vectors)
	if err != nil {
		return nil, &BuildError{VideoID: videoID, Err: err}
	}

	log.Printf("[VIDEO-STORE]: Indexed video %s (%d chars, %d segments)", videoID, len(text), index.Len())

	return &VideoSession{
		VideoID:          videoID,
		Index:            index,
		Retriever:        retriever.New(index, s.embedder, s.opts.RetrievalK),
		TranscriptLength: len(text),
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// Chat answers a question about a processed video. The session lookup happens
// before any retrieval or generation work; an unknown id fails with
// ErrSessionNotFound immediately
func (s *Store) Chat(ctx context.Context, videoID, query string) (string, error) {
	s.mu.RLock()
	session, exists := s.sessions[videoID]
	s.mu.RUnlock()
	if !exists {
		return "", ErrSessionNotFound
	}

	retrieved, err := session.Retriever.Retrieve(ctx, query, 0)
	if err != nil {
		log.Printf("[VIDEO-STORE]: Retrieval failed for video %s: %v", videoID, err)
		return "", err
	}

	answer, err := s.composer.Compose(ctx, retrieved, query)
	if err != nil {
		log.Printf("[VIDEO-STORE]: Generation failed for video %s: %v", videoID, err)
		return "", err
	}

	return answer, nil
}

// List returns the listing view of all sessions, oldest first
func (s *Store) List() []SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(s.sessions))
	for _, session := range s.sessions {
		infos = append(infos, SessionInfo{
			VideoID:          session.VideoID,
			ProcessedAt:      session.CreatedAt,
			TranscriptLength: session.TranscriptLength,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ProcessedAt.Before(infos[j].ProcessedAt) })
	return infos
}

// Evict removes the session for videoID
func (s *Store) Evict(videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[videoID]; !exists {
		return ErrSessionNotFound
	}
	delete(s.sessions, videoID)
	log.Printf("[VIDEO-STORE]: Evicted video %s", videoID)
	return nil
}

// Count returns the number of stored sessions
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// EvictExpired removes every session older than ttl and returns how many were
// evicted. Used by the optional TTL sweeper
func (s *Store) EvictExpired(ttl time.Duration) int {
	cutoff := time.Now().UTC().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, session := range s.sessions {
		if session.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		log.Printf("[VIDEO-STORE]: TTL sweep evicted %d session(s)", evicted)
	}
	return evicted
}
