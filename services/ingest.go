package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/blavejr/studybuddy/models"
	"github.com/blavejr/studybuddy/storage"
)

// IngestionPipeline turns an uploaded document into stored, embedded chunks:
// extract text, split, extract topics, append to the index. All three steps
// happen within one Ingest call; there is no partial or resumable ingestion.
type IngestionPipeline struct {
	chunker *Chunker
	topics  *TopicExtractor
	ocr     *OCRClient
	store   storage.VectorStore
}

func NewIngestionPipeline(chunker *Chunker, topics *TopicExtractor, ocr *OCRClient, store storage.VectorStore) *IngestionPipeline {
	return &IngestionPipeline{
		chunker: chunker,
		topics:  topics,
		ocr:     ocr,
		store:   store,
	}
}

// IngestResult summarizes a completed ingestion.
type IngestResult struct {
	DocumentID string
	Topics     []string
	ChunkCount int
}

// Ingest processes one uploaded document and returns its generated ID and the
// extracted topic labels. Failures carry the stage they happened in.
func (p *IngestionPipeline) Ingest(ctx context.Context, content []byte, filename string) (*IngestResult, error) {
	startTime := time.Now()
	documentID := uuid.NewString()

	log.Printf("Ingesting document %s (%s, %d bytes)", documentID, filename, len(content))

	text, err := p.extractText(content, filename)
	if err != nil {
		return nil, models.NewProcessingError(models.StageExtraction, err)
	}

	chunks := p.chunker.Split(text)
	if len(chunks) == 0 {
		log.Printf("Document %s produced no chunks, nothing to store", documentID)
		return &IngestResult{DocumentID: documentID}, nil
	}

	topics, embeddings, err := p.topics.Extract(chunks)
	if err != nil {
		return nil, models.NewProcessingError(models.StageTopicExtraction, err)
	}

	if len(embeddings) != len(chunks) {
		return nil, models.NewProcessingError(models.StageStorage,
			fmt.Errorf("embedding count (%d) does not match chunk count (%d)", len(embeddings), len(chunks)))
	}

	noteChunks := make([]models.NoteChunk, len(chunks))
	for i, chunk := range chunks {
		noteChunks[i] = models.NoteChunk{
			ID:         uuid.NewString(),
			DocumentID: documentID,
			ChunkIndex: i,
			Text:       chunk.Text,
			Embedding:  embeddings[i],
			Metadata: models.ChunkMetadata{
				Filename:       filename,
				Topics:         topics,
				CharacterStart: chunk.Start,
				CharacterEnd:   chunk.End,
			},
			CreatedAt: time.Now(),
		}
	}

	if err := p.store.Add(ctx, noteChunks); err != nil {
		return nil, models.NewProcessingError(models.StageStorage, err)
	}

	log.Printf("Document %s ingested: %d chunks, %d topics in %v", documentID, len(chunks), len(topics), time.Since(startTime))
	return &IngestResult{
		DocumentID: documentID,
		Topics:     topics,
		ChunkCount: len(chunks),
	}, nil
}

// extractText spools the upload to a scoped temp file, dispatches on the
// filename extension and removes the temp file on every exit path.
func (p *IngestionPipeline) extractText(content []byte, filename string) (string, error) {
	tmp, err := os.CreateTemp("", "studybuddy-*"+strings.ToLower(filepath.Ext(filename)))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if needsOCR(filename) {
		return p.ocr.ExtractText(tmp.Name())
	}
	return readPlainText(tmp.Name())
}
