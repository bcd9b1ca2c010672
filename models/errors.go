package models

import (
	"errors"
	"fmt"
)

// sentinel errors for the failure classes callers branch on
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrEmbeddingFailure     = errors.New("embedding failure")
	ErrRetrievalFailure     = errors.New("retrieval failure")
	ErrExternalModel        = errors.New("external model error")
)

// ingestion stages a ProcessingError can be tagged with
const (
	StageExtraction      = "extraction"
	StageTopicExtraction = "topic-extraction"
	StageStorage         = "storage"
)

// ProcessingError reports an ingestion failure together with the stage it happened in.
type ProcessingError struct {
	Stage string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("document processing failed at %s: %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

func NewProcessingError(stage string, err error) *ProcessingError {
	return &ProcessingError{Stage: stage, Err: err}
}
