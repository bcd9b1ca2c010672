package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/blavejr/studybuddy/models"
)

// MemoryStore keeps the index in process memory for the life of the serving
// process. Growth is unbounded; nothing is ever evicted.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks []models.NoteChunk
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Add(ctx context.Context, chunks []models.NoteChunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks to insert")
	}

	for i, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("chunk %d has no embedding", i)
		}
	}

	s.mu.Lock()
	s.chunks = append(s.chunks, chunks...)
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) Search(ctx context.Context, queryEmbedding []float32, k int) ([]models.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]models.SearchResult, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		if len(chunk.Embedding) != len(queryEmbedding) {
			continue
		}

		score := cosineSimilarity(queryEmbedding, chunk.Embedding)
		results = append(results, models.SearchResult{
			Chunk: chunk,
			Score: float64(score),
		})
	}

	// sort by score (descending)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}

	return results, nil
}

func (s *MemoryStore) GetDocumentIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	ids := []string{}
	for _, chunk := range s.chunks {
		if seen[chunk.DocumentID] {
			continue
		}
		seen[chunk.DocumentID] = true
		ids = append(ids, chunk.DocumentID)
	}
	return ids, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.chunks)), nil
}

func (s *MemoryStore) Close() error {
	return nil
}
