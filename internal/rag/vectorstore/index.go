package vectorstore

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
)

// Segment is one chunk of transcript text held by an index
type Segment struct {
	ID      uuid.UUID
	Ordinal int
	Text    string
}

// EmbeddedSegment pairs a segment with its embedding vector
type EmbeddedSegment struct {
	Segment
	Vector []float64
}

// Result is a segment matched by a similarity query
type Result struct {
	Segment  Segment
	Distance float64
}

// Index holds embedded segments and answers nearest-neighbour queries by
// cosine distance. An index is immutable once built and safe for concurrent
// reads without locking
type Index struct {
	dimension int
	segments  []EmbeddedSegment
}

// Build creates an index from parallel slices of segment texts and vectors.
// Construction is all-or-nothing: any mismatch fails without retaining a
// partial index
func Build(texts []string, vectors [][]float64) (*Index, error) {
	if len(texts) == 0 {
		return nil, errors.New("no segments to index")
	}
	if len(texts) != len(vectors) {
		return nil, fmt.Errorf("got %d texts but %d vectors", len(texts), len(vectors))
	}

	dimension := len(vectors[0])
	if dimension == 0 {
		return nil, errors.New("empty embedding vector")
	}

	segments := make([]EmbeddedSegment, len(texts))
	for i := range texts {
		if len(vectors[i]) != dimension {
			return nil, fmt.Errorf("vector %d has dimension %d, index dimension is %d", i, len(vectors[i]), dimension)
		}
		segments[i] = EmbeddedSegment{
			Segment: Segment{ID: uuid.New(), Ordinal: i, Text: texts[i]},
			Vector:  vectors[i],
		}
	}

	return &Index{dimension: dimension, segments: segments}, nil
}

// Dimension returns the vector dimensionality of the index
func (ix *Index) Dimension() int { return ix.dimension }

// Len returns the number of indexed segments
func (ix *Index) Len() int { return len(ix.segments) }

// Query returns the k segments closest to vector, ordered by increasing
// cosine distance. Ties are broken by insertion order
func (ix *Index) Query(vector []float64, k int) ([]Result, error) {
	if len(vector) != ix.dimension {
		return nil, fmt.Errorf("query vector has dimension %d, index dimension is %d", len(vector), ix.dimension)
	}
	if k <= 0 {
		return nil, nil
	}

	results := make([]Result, len(ix.segments))
	for i, seg := range ix.segments {
		results[i] = Result{Segment: seg.Segment, Distance: cosineDistance(vector, seg.Vector)}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// cosineDistance is 1 - cosine similarity. Zero vectors are treated as
// maximally distant
func cosineDistance(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}
