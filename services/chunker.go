package services

import (
	"fmt"
	"log"

	"github.com/blavejr/studybuddy/models"
)

// Chunker splits raw document text into fixed-size overlapping windows.
type Chunker struct {
	ChunkSize    int
	ChunkOverlap int
}

// NewChunker validates the window parameters. A non-positive step
// (overlap >= size) would make the split loop never advance.
func NewChunker(chunkSize, chunkOverlap int) (*Chunker, error) {
	if chunkOverlap < 0 || chunkSize <= chunkOverlap {
		return nil, fmt.Errorf("%w: chunk size (%d) must be greater than overlap (%d) and overlap must be non-negative",
			models.ErrInvalidConfiguration, chunkSize, chunkOverlap)
	}
	return &Chunker{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
	}, nil
}

// Split cuts text into windows of ChunkSize characters advancing by
// ChunkSize-ChunkOverlap per step. The final window may be shorter.
// Identical text and parameters always produce an identical sequence.
func (c *Chunker) Split(text string) []models.Chunk {
	if len(text) == 0 {
		return nil
	}

	step := c.ChunkSize - c.ChunkOverlap
	chunks := make([]models.Chunk, 0, len(text)/step+1)

	for start := 0; start < len(text); start += step {
		end := start + c.ChunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, models.Chunk{
			Text:  text[start:end],
			Start: start,
			End:   end,
		})
	}

	log.Printf("Split %d characters into %d chunks (size: %d, overlap: %d)", len(text), len(chunks), c.ChunkSize, c.ChunkOverlap)
	return chunks
}
