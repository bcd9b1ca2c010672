package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAward_Idempotent(t *testing.T) {
	tracker := NewBadgeTracker()

	tracker.Award("biology", []string{"Master Explainer", "Master Explainer"})
	badges := tracker.Award("biology", []string{"Master Explainer"})

	assert.Equal(t, []string{"Master Explainer"}, badges)
	assert.Equal(t, []string{"Master Explainer"}, tracker.Get("biology"))
}

func TestAward_AccumulatesAcrossCalls(t *testing.T) {
	tracker := NewBadgeTracker()

	tracker.Award("biology", []string{"Master Explainer"})
	badges := tracker.Award("biology", []string{"Logic Legend", "Master Explainer", "Example Expert"})

	assert.Equal(t, []string{"Master Explainer", "Logic Legend", "Example Expert"}, badges)
}

func TestAward_IgnoresEmptyNames(t *testing.T) {
	tracker := NewBadgeTracker()

	badges := tracker.Award("biology", []string{"", "Clarity Champion", ""})
	assert.Equal(t, []string{"Clarity Champion"}, badges)
}

func TestAward_TopicsAreIndependent(t *testing.T) {
	tracker := NewBadgeTracker()

	tracker.Award("biology", []string{"Master Explainer"})
	tracker.Award("physics", []string{"Logic Legend"})

	assert.Equal(t, []string{"Master Explainer"}, tracker.Get("biology"))
	assert.Equal(t, []string{"Logic Legend"}, tracker.Get("physics"))
}

func TestGet_UnknownTopic(t *testing.T) {
	tracker := NewBadgeTracker()
	assert.Empty(t, tracker.Get("nothing earned"))
}

func TestCriteria_Catalog(t *testing.T) {
	tracker := NewBadgeTracker()

	criteria := tracker.Criteria()
	require.Len(t, criteria, 10)
	assert.Contains(t, criteria, "Master Explainer")
	assert.Contains(t, criteria, "Insight Innovator")

	// callers get a copy, not the catalog itself
	criteria["Master Explainer"] = "mutated"
	assert.NotEqual(t, "mutated", tracker.Criteria()["Master Explainer"])
}
