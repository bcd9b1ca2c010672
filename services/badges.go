package services

import (
	"sync"
)

// badgeCriteria is the static catalog of earnable badges and what each one
// rewards.
var badgeCriteria = map[string]string{
	"Master Explainer":   "Demonstrates exceptional clarity and depth in explanations",
	"Concept Explorer":   "Shows thorough understanding of related concepts",
	"Detail Dynamo":      "Provides comprehensive coverage of important details",
	"Logic Legend":       "Presents information in a clear, logical sequence",
	"Example Expert":     "Uses relevant examples effectively",
	"Connection Creator": "Makes meaningful connections between concepts",
	"Clarity Champion":   "Explains complex ideas in simple terms",
	"Structure Star":     "Organizes information effectively",
	"Application Ace":    "Demonstrates practical understanding",
	"Insight Innovator":  "Offers unique perspectives or insights",
}

// BadgeTracker accumulates the badges a learner has earned per topic.
// Badge sets are created lazily and never removed.
type BadgeTracker struct {
	mu     sync.Mutex
	earned map[string][]string
}

func NewBadgeTracker() *BadgeTracker {
	return &BadgeTracker{
		earned: make(map[string][]string),
	}
}

// Award adds each badge not already present to the topic's set. Awarding the
// same badge twice has no additional effect. Returns the topic's badges after
// the update, in insertion order.
func (t *BadgeTracker) Award(topic string, badges []string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	current := t.earned[topic]
	for _, badge := range badges {
		if badge == "" {
			continue
		}
		exists := false
		for _, have := range current {
			if have == badge {
				exists = true
				break
			}
		}
		if !exists {
			current = append(current, badge)
		}
	}
	t.earned[topic] = current

	return append([]string(nil), current...)
}

// Get returns the badges earned for the topic.
func (t *BadgeTracker) Get(topic string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]string(nil), t.earned[topic]...)
}

// Criteria returns the static badge catalog.
func (t *BadgeTracker) Criteria() map[string]string {
	criteria := make(map[string]string, len(badgeCriteria))
	for name, description := range badgeCriteria {
		criteria[name] = description
	}
	return criteria
}
