package storage

import (
	"context"
	"math"

	"github.com/blavejr/studybuddy/models"
)

// VectorStore is the append-only semantic index the pipeline writes into and
// the retriever reads from.
type VectorStore interface {
	// Add appends chunk/embedding triples. Writes are atomic: either every
	// chunk of the batch is stored or none is.
	Add(ctx context.Context, chunks []models.NoteChunk) error

	// Search returns the k stored chunks most similar to the query embedding,
	// closest first. Fewer than k stored chunks returns all of them; an empty
	// store returns an empty result, not an error.
	Search(ctx context.Context, queryEmbedding []float32, k int) ([]models.SearchResult, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int64, error)

	// GetDocumentIDs returns the distinct document IDs present in the index.
	GetDocumentIDs(ctx context.Context) ([]string, error)

	Close() error
}

// calculate cosine similarity between two vectors
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0 // can't compare vectors of different lengths
	}

	var dotProduct, normA, normB float32
	for i := 0; i < len(a); i++ {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
