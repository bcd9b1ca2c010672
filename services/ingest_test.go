package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blavejr/studybuddy/models"
	"github.com/blavejr/studybuddy/storage"
)

func newTestPipeline(t *testing.T, store storage.VectorStore) *IngestionPipeline {
	t.Helper()

	chunker, err := NewChunker(1000, 200)
	require.NoError(t, err)

	embedder := simpleTestEmbedder()
	topics := NewTopicExtractor(embedder, 5)
	ocr := NewOCRClient("http://localhost:8884")

	return NewIngestionPipeline(chunker, topics, ocr, store)
}

// notesDocument builds a plain-text document of exactly n characters whose
// regions use distinct vocabularies, so clustering separates them cleanly.
func notesDocument(n int) string {
	sections := []string{
		"biology cells organelles membranes mitochondria ribosomes nucleus ",
		"physics entropy thermodynamics momentum velocity acceleration force ",
		"linguistics grammar syntax morphology phonetics semantics pragmatics ",
		"economics markets supply demand inflation equilibrium scarcity trade ",
	}

	var sb strings.Builder
	for i := 0; sb.Len() < n; i++ {
		sb.WriteString(sections[(sb.Len()/800)%len(sections)])
	}
	return sb.String()[:n]
}

func TestIngest_PlainTextEndToEnd(t *testing.T) {
	store := storage.NewMemoryStore()
	pipeline := newTestPipeline(t, store)

	text := notesDocument(2500)
	result, err := pipeline.Ingest(context.Background(), []byte(text), "notes.txt")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.DocumentID)

	// 2500 characters at size 1000 / overlap 200: windows at 0, 800, 1600, 2400
	assert.Equal(t, 4, result.ChunkCount)
	assert.Len(t, result.Topics, 4) // min(5, 4) clusters

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	queryEmbedding, err := simpleTestEmbedder().GenerateEmbedding("biology cells")
	require.NoError(t, err)
	stored, err := store.Search(context.Background(), queryEmbedding, 10)
	require.NoError(t, err)
	require.Len(t, stored, 4)

	starts := make([]int, 0, len(stored))
	for _, res := range stored {
		starts = append(starts, res.Chunk.Metadata.CharacterStart)
		assert.Equal(t, result.DocumentID, res.Chunk.DocumentID)
		assert.Equal(t, "notes.txt", res.Chunk.Metadata.Filename)
		assert.Equal(t, result.Topics, res.Chunk.Metadata.Topics)
		assert.NotEmpty(t, res.Chunk.ID)
	}
	assert.ElementsMatch(t, []int{0, 800, 1600, 2400}, starts)
}

func TestIngest_EmptyDocument(t *testing.T) {
	store := storage.NewMemoryStore()
	pipeline := newTestPipeline(t, store)

	result, err := pipeline.Ingest(context.Background(), nil, "empty.txt")
	require.NoError(t, err)
	assert.Empty(t, result.Topics)
	assert.Equal(t, 0, result.ChunkCount)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestIngest_InvalidUTF8FailsAtExtraction(t *testing.T) {
	store := storage.NewMemoryStore()
	pipeline := newTestPipeline(t, store)

	_, err := pipeline.Ingest(context.Background(), []byte{0xff, 0xfe, 0xfd}, "garbage.txt")
	require.Error(t, err)

	var procErr *models.ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, models.StageExtraction, procErr.Stage)
}

func TestIngest_OCRBackendUnreachableFailsAtExtraction(t *testing.T) {
	store := storage.NewMemoryStore()
	chunker, err := NewChunker(1000, 200)
	require.NoError(t, err)
	embedder := simpleTestEmbedder()
	// port 1: connection refused immediately
	pipeline := NewIngestionPipeline(chunker, NewTopicExtractor(embedder, 5), NewOCRClient("http://localhost:1"), store)

	_, err = pipeline.Ingest(context.Background(), []byte("%PDF-1.4"), "scanned.pdf")
	require.Error(t, err)

	var procErr *models.ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, models.StageExtraction, procErr.Stage)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

type failingStore struct {
	storage.VectorStore
}

func (f *failingStore) Add(ctx context.Context, chunks []models.NoteChunk) error {
	return fmt.Errorf("disk full")
}

func TestIngest_StorageFailureIsTagged(t *testing.T) {
	store := &failingStore{VectorStore: storage.NewMemoryStore()}
	pipeline := newTestPipeline(t, store)

	_, err := pipeline.Ingest(context.Background(), []byte(notesDocument(1200)), "notes.txt")
	require.Error(t, err)

	var procErr *models.ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, models.StageStorage, procErr.Stage)
	assert.True(t, errors.Is(err, procErr.Err) || strings.Contains(err.Error(), "disk full"))
}

func TestIngest_UnknownExtensionFallsBackToPlainText(t *testing.T) {
	store := storage.NewMemoryStore()
	pipeline := newTestPipeline(t, store)

	result, err := pipeline.Ingest(context.Background(), []byte("plain notes without extension hints"), "notes")
	require.NoError(t, err)
	assert.Equal(t, 1, result.ChunkCount)
	assert.Equal(t, []string{"plain notes without extension hints"}, result.Topics)
}
