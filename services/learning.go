package services

import (
	"context"
	"log"

	"github.com/blavejr/studybuddy/models"
)

// ContextProvider supplies the note context injected into model prompts.
type ContextProvider interface {
	ContextFor(ctx context.Context, topic string) (string, error)
}

// LearningMode drives the tutor: it grounds the model in the learner's notes,
// generates explanation and questions and tracks per-topic progress.
type LearningMode struct {
	generator ResponseGenerator
	retriever ContextProvider
	progress  *ProgressTracker
}

func NewLearningMode(generator ResponseGenerator, retriever ContextProvider, progress *ProgressTracker) *LearningMode {
	return &LearningMode{
		generator: generator,
		retriever: retriever,
		progress:  progress,
	}
}

// HandleRequest serves one learning request for a topic. If the caller did
// not supply context it is retrieved from the index. Failures come back as a
// structured error result, never as a panic or a half-updated tracker.
func (m *LearningMode) HandleRequest(ctx context.Context, topic, noteContext string) models.LearningResult {
	if noteContext == "" {
		retrieved, err := m.retriever.ContextFor(ctx, topic)
		if err != nil {
			log.Printf("Failed to retrieve context for topic %q: %v", topic, err)
			return models.LearningResult{Status: "error", Message: err.Error()}
		}
		noteContext = retrieved
	}

	content, err := m.generator.GenerateLearning(topic, noteContext)
	if err != nil {
		log.Printf("Learning generation failed for topic %q: %v", topic, err)
		return models.LearningResult{Status: "error", Message: err.Error()}
	}

	// state updates only after the external call succeeded
	if content.DifficultyLevel != "" {
		m.progress.SetInitialLevel(topic, content.DifficultyLevel)
	}

	progress := m.progress.Get(topic)
	return models.LearningResult{
		Status:   "success",
		Content:  content,
		Progress: &progress,
	}
}

// EvaluateAnswer grades one learner answer via the model and records the
// outcome against the topic's progress.
func (m *LearningMode) EvaluateAnswer(ctx context.Context, topic string, question models.Question, userAnswer string) models.AnswerResult {
	evaluation, err := m.generator.EvaluateAnswer(question, userAnswer)
	if err != nil {
		log.Printf("Answer evaluation failed for topic %q: %v", topic, err)
		return models.AnswerResult{Status: "error", Message: err.Error()}
	}

	progress := m.progress.RecordAnswer(topic, evaluation.IsCorrect)
	return models.AnswerResult{
		Status:     "success",
		Evaluation: evaluation,
		Progress:   &progress,
	}
}
