package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/blavejr/studybuddy/models"
	"github.com/blavejr/studybuddy/storage"
)

// Retriever finds the stored note chunks most relevant to a topic and joins
// them into the context string injected into model prompts.
type Retriever struct {
	store    storage.VectorStore
	embedder *Embedder
	topK     int
}

func NewRetriever(store storage.VectorStore, embedder *Embedder, topK int) *Retriever {
	return &Retriever{
		store:    store,
		embedder: embedder,
		topK:     topK,
	}
}

// ContextFor embeds the topic, queries the index for the nearest chunks and
// concatenates their text nearest-first with single spaces. An empty index
// yields an empty string, not an error.
func (r *Retriever) ContextFor(ctx context.Context, topic string) (string, error) {
	topicEmbedding, err := r.embedder.GenerateEmbedding(topic)
	if err != nil {
		return "", fmt.Errorf("failed to generate topic embedding: %w", err)
	}

	results, err := r.store.Search(ctx, topicEmbedding, r.topK)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrRetrievalFailure, err)
	}

	texts := make([]string, len(results))
	for i, result := range results {
		texts[i] = result.Chunk.Text
	}

	return strings.Join(texts, " "), nil
}
