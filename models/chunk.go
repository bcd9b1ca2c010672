package models

import "time"

// Chunk is a fixed-size overlapping window of extracted document text.
type Chunk struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// NoteChunk is a chunk as stored in the semantic index, together with its embedding.
type NoteChunk struct {
	ID         string        `bson:"_id,omitempty" json:"id"`
	DocumentID string        `bson:"document_id" json:"document_id"`
	ChunkIndex int           `bson:"chunk_index" json:"chunk_index"`
	Text       string        `bson:"text" json:"text"`
	Embedding  []float32     `bson:"embedding" json:"-"`
	Metadata   ChunkMetadata `bson:"metadata" json:"metadata"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
}

type ChunkMetadata struct {
	Filename       string   `bson:"filename" json:"filename"`
	Topics         []string `bson:"topics" json:"topics"`
	CharacterStart int      `bson:"character_start" json:"character_start"`
	CharacterEnd   int      `bson:"character_end" json:"character_end"`
}

type SearchResult struct {
	Chunk NoteChunk `json:"chunk"`
	Score float64   `json:"score"`
}

type UploadResponse struct {
	Message          string   `json:"message"`
	DocumentID       string   `json:"document_id"`
	Topics           []string `json:"topics"`
	TotalChunks      int      `json:"total_chunks"`
	ProcessingTimeMs int64    `json:"processing_time_ms"`
}
