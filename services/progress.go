package services

import (
	"sync"

	"github.com/blavejr/studybuddy/models"
)

// ProgressTracker keeps per-topic mastery counters for the life of the
// process. The difficulty level is recomputed from scratch after every
// answer, so it can move down as well as up.
type ProgressTracker struct {
	mu      sync.Mutex
	records map[string]*models.ProgressRecord
}

func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		records: make(map[string]*models.ProgressRecord),
	}
}

// RecordAnswer increments the counters for the topic and recomputes the
// level. The record is created lazily on first use. The returned copy is the
// state after the update.
func (t *ProgressTracker) RecordAnswer(topic string, isCorrect bool) models.ProgressRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	record := t.records[topic]
	if record == nil {
		record = &models.ProgressRecord{DifficultyLevel: models.DifficultyBeginner}
		t.records[topic] = record
	}

	record.QuestionsAnswered++
	if isCorrect {
		record.CorrectAnswers++
	}

	ratio := float64(record.CorrectAnswers) / float64(record.QuestionsAnswered)
	record.DifficultyLevel = levelForRatio(ratio)

	return *record
}

// SetInitialLevel seeds the level from the first learning response for a
// topic without touching the counters. Once the learner has answered
// questions the recomputed level wins.
func (t *ProgressTracker) SetInitialLevel(topic, level string) {
	if level != models.DifficultyBeginner && level != models.DifficultyIntermediate && level != models.DifficultyAdvanced {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	record := t.records[topic]
	if record == nil {
		t.records[topic] = &models.ProgressRecord{DifficultyLevel: level}
		return
	}
	if record.QuestionsAnswered == 0 {
		record.DifficultyLevel = level
	}
}

// Get returns the current record for the topic, or the zero record at
// beginner level for topics with no interactions yet.
func (t *ProgressTracker) Get(topic string) models.ProgressRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	if record := t.records[topic]; record != nil {
		return *record
	}
	return models.ProgressRecord{DifficultyLevel: models.DifficultyBeginner}
}

// both thresholds are strict: exactly 0.8 is still intermediate, exactly 0.6
// is still beginner
func levelForRatio(ratio float64) string {
	switch {
	case ratio > 0.8:
		return models.DifficultyAdvanced
	case ratio > 0.6:
		return models.DifficultyIntermediate
	default:
		return models.DifficultyBeginner
	}
}
