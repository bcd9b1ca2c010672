package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blavejr/studybuddy/config"
	"github.com/blavejr/studybuddy/services"
	"github.com/blavejr/studybuddy/storage"
)

// Question is one entry of the retrieval-quality dataset: a topic the learner
// might ask about and the keywords its context should contain.
type Question struct {
	ID               int      `json:"id"`
	Topic            string   `json:"topic"`
	RelevantKeywords []string `json:"relevant_keywords"`
	Notes            string   `json:"notes"`
}

type EvaluationResult struct {
	QuestionID     int      `json:"question_id"`
	Topic          string   `json:"topic"`
	ContextLength  int      `json:"context_length"`
	KeywordsFound  []string `json:"keywords_found"`
	ResponseTimeMs int64    `json:"response_time_ms"`
	Success        bool     `json:"success"`
	Recall         float64  `json:"recall"`
}

type Metrics struct {
	TotalQuestions    int                    `json:"total_questions"`
	SuccessfulQueries int                    `json:"successful_queries"`
	RetrievalAccuracy float64                `json:"retrieval_accuracy"`
	AvgResponseTime   float64                `json:"avg_response_time_ms"`
	AvgRecall         float64                `json:"avg_recall"`
	Timestamp         string                 `json:"timestamp"`
	Configuration     map[string]interface{} `json:"configuration"`
}

type EvaluationReport struct {
	Metrics Metrics            `json:"metrics"`
	Results []EvaluationResult `json:"results"`
}

// Evaluator measures how well topic retrieval surfaces the note passages a
// learner's question actually needs.
type Evaluator struct {
	config    *config.Config
	retriever *services.Retriever
}

func NewEvaluator(cfg *config.Config, store storage.VectorStore) *Evaluator {
	embedder := services.NewEmbedder(cfg.OllamaURL, cfg.OllamaEmbedModel)
	retriever := services.NewRetriever(store, embedder, cfg.TopK)

	return &Evaluator{
		config:    cfg,
		retriever: retriever,
	}
}

func LoadDataset(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	return questions, nil
}

// IngestQuestionNotes stores the notes attached to dataset questions so the
// retriever has something to find. Questions without notes are skipped.
func IngestQuestionNotes(ctx context.Context, pipeline *services.IngestionPipeline, questions []Question) error {
	for _, q := range questions {
		if q.Notes == "" {
			continue
		}
		filename := fmt.Sprintf("question-%d.txt", q.ID)
		if _, err := pipeline.Ingest(ctx, []byte(q.Notes), filename); err != nil {
			return fmt.Errorf("failed to ingest notes for question %d: %w", q.ID, err)
		}
	}
	return nil
}

func (e *Evaluator) Evaluate(questions []Question) (*EvaluationReport, error) {
	results := make([]EvaluationResult, 0, len(questions))

	totalResponseTime := int64(0)
	totalRecall := 0.0
	successfulQueries := 0

	ctx := context.Background()

	fmt.Println("Starting evaluation...")
	fmt.Printf("Total questions: %d\n", len(questions))
	fmt.Println("---")

	for i, q := range questions {
		fmt.Printf("[%d/%d] Evaluating topic: %s\n", i+1, len(questions), q.Topic)

		startTime := time.Now()

		noteContext, err := e.retriever.ContextFor(ctx, q.Topic)
		if err != nil {
			fmt.Printf("Failed: %v\n", err)
			continue
		}

		responseTime := time.Since(startTime).Milliseconds()

		// how many relevant keywords made it into the retrieved context
		keywordsFound := findKeywords(q.RelevantKeywords, noteContext)

		recall := 0.0
		if len(q.RelevantKeywords) > 0 {
			recall = float64(len(keywordsFound)) / float64(len(q.RelevantKeywords))
		}

		// consider it successful if at least one relevant keyword was found
		success := len(keywordsFound) > 0

		results = append(results, EvaluationResult{
			QuestionID:     q.ID,
			Topic:          q.Topic,
			ContextLength:  len(noteContext),
			KeywordsFound:  keywordsFound,
			ResponseTimeMs: responseTime,
			Success:        success,
			Recall:         recall,
		})

		totalResponseTime += responseTime
		totalRecall += recall
		if success {
			successfulQueries++
		}

		fmt.Printf("Completed in %dms (keywords: %d/%d)\n", responseTime, len(keywordsFound), len(q.RelevantKeywords))
	}

	totalQuestions := len(results)
	retrievalAccuracy := 0.0
	avgResponseTime := 0.0
	avgRecall := 0.0
	if totalQuestions > 0 {
		retrievalAccuracy = float64(successfulQueries) / float64(totalQuestions)
		avgResponseTime = float64(totalResponseTime) / float64(totalQuestions)
		avgRecall = totalRecall / float64(totalQuestions)
	}

	metrics := Metrics{
		TotalQuestions:    totalQuestions,
		SuccessfulQueries: successfulQueries,
		RetrievalAccuracy: retrievalAccuracy,
		AvgResponseTime:   avgResponseTime,
		AvgRecall:         avgRecall,
		Timestamp:         time.Now().Format(time.RFC3339),
		Configuration: map[string]interface{}{
			"chunk_size":    e.config.ChunkSize,
			"chunk_overlap": e.config.ChunkOverlap,
			"top_k":         e.config.TopK,
			"max_topics":    e.config.MaxTopics,
			"embed_model":   e.config.OllamaEmbedModel,
		},
	}

	return &EvaluationReport{
		Metrics: metrics,
		Results: results,
	}, nil
}

// findKeywords returns the keywords that appear in the context (case-insensitive).
func findKeywords(keywords []string, noteContext string) []string {
	found := []string{}
	lowered := strings.ToLower(noteContext)

	for _, keyword := range keywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			found = append(found, keyword)
		}
	}

	return found
}

// save the evaluation report to a JSON file
func SaveReport(report *EvaluationReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// print a summary of the evaluation results
func PrintSummary(report *EvaluationReport) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("EVALUATION SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Total Questions:      %d\n", report.Metrics.TotalQuestions)
	fmt.Printf("Successful Queries:   %d\n", report.Metrics.SuccessfulQueries)
	fmt.Printf("Retrieval Accuracy:   %.2f%%\n", report.Metrics.RetrievalAccuracy*100)
	fmt.Printf("Avg Keyword Recall:   %.3f\n", report.Metrics.AvgRecall)
	fmt.Printf("Avg Response Time:    %.0f ms\n", report.Metrics.AvgResponseTime)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Println("\nConfiguration:")
	for key, value := range report.Metrics.Configuration {
		fmt.Printf("  %s: %v\n", key, value)
	}
	fmt.Println(strings.Repeat("=", 60) + "\n")
}
