package evaluation

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blavejr/studybuddy/config"
	"github.com/blavejr/studybuddy/services"
	"github.com/blavejr/studybuddy/storage"
)

func evaluationConfig() *config.Config {
	return &config.Config{
		OllamaURL:        "http://localhost:1",
		OllamaEmbedModel: "simple",
		OCRURL:           "http://localhost:1",
		ChunkSize:        1000,
		ChunkOverlap:     200,
		TopK:             3,
		MaxTopics:        5,
	}
}

func newEvaluationPipeline(t *testing.T, cfg *config.Config, store storage.VectorStore) *services.IngestionPipeline {
	t.Helper()
	chunker, err := services.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	require.NoError(t, err)
	embedder := services.NewEmbedder(cfg.OllamaURL, cfg.OllamaEmbedModel)
	topics := services.NewTopicExtractor(embedder, cfg.MaxTopics)
	ocr := services.NewOCRClient(cfg.OCRURL)
	return services.NewIngestionPipeline(chunker, topics, ocr, store)
}

func TestLoadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	data := `[
		{
			"id": 1,
			"topic": "photosynthesis",
			"relevant_keywords": ["chlorophyll", "sunlight"],
			"notes": "Photosynthesis uses chlorophyll to capture sunlight."
		}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	questions, err := LoadDataset(path)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, 1, questions[0].ID)
	assert.Equal(t, "photosynthesis", questions[0].Topic)
	assert.Equal(t, []string{"chlorophyll", "sunlight"}, questions[0].RelevantKeywords)
	assert.Contains(t, questions[0].Notes, "chlorophyll")
}

func TestLoadDataset_MissingFile(t *testing.T) {
	_, err := LoadDataset(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestIngestQuestionNotesAndEvaluate(t *testing.T) {
	cfg := evaluationConfig()
	store := storage.NewMemoryStore()
	pipeline := newEvaluationPipeline(t, cfg, store)

	questions := []Question{
		{
			ID:               1,
			Topic:            "photosynthesis",
			RelevantKeywords: []string{"chlorophyll", "sunlight"},
			Notes:            "Photosynthesis is the process where plants use chlorophyll to turn sunlight into chemical energy.",
		},
		{
			ID:               2,
			Topic:            "topic without notes",
			RelevantKeywords: []string{"absent"},
		},
	}

	require.NoError(t, IngestQuestionNotes(context.Background(), pipeline, questions))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "only the question with notes is ingested")

	evaluator := NewEvaluator(cfg, store)
	report, err := evaluator.Evaluate(questions)
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.Equal(t, 2, report.Metrics.TotalQuestions)

	first := report.Results[0]
	assert.True(t, first.Success)
	assert.InDelta(t, 1.0, first.Recall, 1e-9)
	assert.ElementsMatch(t, []string{"chlorophyll", "sunlight"}, first.KeywordsFound)

	second := report.Results[1]
	assert.False(t, second.Success)
	assert.Zero(t, second.Recall)
}

func TestSaveReport_CreatesDirectory(t *testing.T) {
	report := &EvaluationReport{
		Metrics: Metrics{TotalQuestions: 1},
	}

	path := filepath.Join(t.TempDir(), "results", "baseline.json")
	require.NoError(t, SaveReport(report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"total_questions": 1`))
}
