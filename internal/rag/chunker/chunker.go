package chunker

import (
	"strings"
	"unicode"
)

const (
	// DefaultChunkSize is the maximum segment length in characters
	DefaultChunkSize = 1000

	// DefaultOverlap is the number of characters shared between consecutive segments
	DefaultOverlap = 200
)

// Splitter splits a text stream into overlapping fixed-size segments.
// Cut points prefer paragraph boundaries, then sentence boundaries, then
// whitespace, and fall back to an arbitrary character boundary. Splitting is
// deterministic: the same input always yields the same segments
type Splitter struct {
	chunkSize int
	overlap   int
}

// NewSplitter creates a splitter with the given segment size and overlap.
// Non-positive values fall back to the defaults, and the overlap is clamped
// below half the segment size so every split makes forward progress
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if overlap >= chunkSize/2 {
		overlap = chunkSize/2 - 1
	}
	if overlap < 0 {
		overlap = 0
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}
}

// ChunkSize returns the maximum segment length
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the overlap between consecutive segments
func (s *Splitter) Overlap() int { return s.overlap }

// Split cuts text into overlapping segments. Every returned segment is
// non-empty and at most ChunkSize characters long. Each segment after the
// first starts exactly Overlap characters before the end of its predecessor,
// so stripping the first Overlap characters from every segment but the first
// and concatenating reconstructs the input
func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	if len(strings.TrimSpace(text)) == 0 {
		return nil
	}
	if len(runes) <= s.chunkSize {
		return []string{text}
	}

	var segments []string
	start := 0
	for start < len(runes) {
		end := start + s.chunkSize
		if end >= len(runes) {
			segments = append(segments, string(runes[start:]))
			break
		}

		end = s.cutPoint(runes, start, end)
		segments = append(segments, string(runes[start:end]))
		start = end - s.overlap
	}
	return segments
}

// cutPoint finds the best boundary to cut at inside runes[start:limit].
// The search never moves the cut into the first half of the window, so the
// next segment's start (cut - overlap) always lies beyond the current start
func (s *Splitter) cutPoint(runes []rune, start, limit int) int {
	floor := start + s.chunkSize/2

	// Paragraph boundary: cut after a blank line
	for i := limit; i > floor; i-- {
		if runes[i-1] == '\n' && i >= 2 && runes[i-2] == '\n' {
			return i
		}
	}
	// Line boundary
	for i := limit; i > floor; i-- {
		if runes[i-1] == '\n' {
			return i
		}
	}
	// Sentence boundary: terminator followed by whitespace
	for i := limit; i > floor; i-- {
		if isSentenceEnd(runes[i-1]) && i < len(runes) && unicode.IsSpace(runes[i]) {
			return i
		}
	}
	// Any whitespace
	for i := limit; i > floor; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	// Arbitrary character boundary
	return limit
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}
