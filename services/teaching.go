package services

import (
	"context"
	"log"

	"github.com/blavejr/studybuddy/models"
)

// TeachingMode drives the evaluator: the learner explains a topic in their
// own words, the model identifies gaps and awards badges.
type TeachingMode struct {
	generator ResponseGenerator
	retriever ContextProvider
	badges    *BadgeTracker
}

func NewTeachingMode(generator ResponseGenerator, retriever ContextProvider, badges *BadgeTracker) *TeachingMode {
	return &TeachingMode{
		generator: generator,
		retriever: retriever,
		badges:    badges,
	}
}

// HandleRequest serves one teaching request for a topic. Badges named in the
// model reply are added to the topic's earned set; re-awarding is a no-op.
func (m *TeachingMode) HandleRequest(ctx context.Context, topic, noteContext string) models.TeachingResult {
	if noteContext == "" {
		retrieved, err := m.retriever.ContextFor(ctx, topic)
		if err != nil {
			log.Printf("Failed to retrieve context for topic %q: %v", topic, err)
			return models.TeachingResult{Status: "error", Message: err.Error()}
		}
		noteContext = retrieved
	}

	content, err := m.generator.GenerateTeaching(topic, noteContext)
	if err != nil {
		log.Printf("Teaching generation failed for topic %q: %v", topic, err)
		return models.TeachingResult{Status: "error", Message: err.Error()}
	}

	badges := m.badges.Award(topic, content.Badges)
	return models.TeachingResult{
		Status:  "success",
		Content: content,
		Badges:  badges,
	}
}
