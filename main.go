package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/blavejr/studybuddy/config"
	"github.com/blavejr/studybuddy/controllers"
	"github.com/blavejr/studybuddy/evaluation"
	"github.com/blavejr/studybuddy/services"
	"github.com/blavejr/studybuddy/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "evaluate" {
		// usage: go run main.go evaluate <dataset.json> [notes-file...]
		runEvaluation()
		return
	}

	runServer()
}

func newStore(cfg *config.Config) (storage.VectorStore, error) {
	switch cfg.StorageBackend {
	case "mongodb":
		store, err := storage.NewMongoStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndexes(); err != nil {
			log.Printf("Note: index creation skipped: %v", err)
		}
		return store, nil
	case "memory", "":
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func runServer() {
	cfg := config.Load()

	store, err := newStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	studyController, err := controllers.NewStudyController(cfg, store)
	if err != nil {
		log.Fatalf("Failed to initialize controller: %v", err)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "studybuddy",
		})
	})

	api := router.Group("/api")
	{
		api.POST("/upload", studyController.Upload)
		api.POST("/study", studyController.Study)
		api.POST("/evaluate-answer", studyController.EvaluateAnswer)
		api.GET("/progress/:topic", studyController.GetProgress)
		api.GET("/badges/:topic", studyController.GetBadges)
		api.GET("/badge-criteria", studyController.GetBadgeCriteria)
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Study buddy server starting on %s", addr)
	log.Printf("Storage backend: %s", cfg.StorageBackend)
	log.Printf("Ollama: %s", cfg.OllamaURL)
	log.Printf("Environment: %s", cfg.Environment)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func runEvaluation() {
	log.Println("Starting evaluation mode...")

	cfg := config.Load()

	store, err := newStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	datasetPath := "evaluation/dataset.json"
	if len(os.Args) > 2 {
		datasetPath = os.Args[2]
	}

	questions, err := evaluation.LoadDataset(datasetPath)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	log.Printf("Loaded %d questions from %s", len(questions), datasetPath)

	// notes come from the dataset questions themselves and from any extra
	// notes files passed on the command line
	chunker, err := services.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatalf("Invalid chunking configuration: %v", err)
	}
	embedder := services.NewEmbedder(cfg.OllamaURL, cfg.OllamaEmbedModel)
	topics := services.NewTopicExtractor(embedder, cfg.MaxTopics)
	ocr := services.NewOCRClient(cfg.OCRURL)
	pipeline := services.NewIngestionPipeline(chunker, topics, ocr, store)

	if err := evaluation.IngestQuestionNotes(context.Background(), pipeline, questions); err != nil {
		log.Fatalf("Failed to ingest dataset notes: %v", err)
	}

	for _, notesPath := range os.Args[3:] {
		content, err := os.ReadFile(notesPath)
		if err != nil {
			log.Fatalf("Failed to read notes file %s: %v", notesPath, err)
		}
		result, err := pipeline.Ingest(context.Background(), content, filepath.Base(notesPath))
		if err != nil {
			log.Fatalf("Failed to ingest %s: %v", notesPath, err)
		}
		log.Printf("Ingested %s: %d chunks, %d topics", notesPath, result.ChunkCount, len(result.Topics))
	}

	documentIDs, err := store.GetDocumentIDs(context.Background())
	if err != nil {
		log.Printf("Note: could not list stored documents: %v", err)
	} else {
		log.Printf("Index contains %d documents", len(documentIDs))
	}

	evaluator := evaluation.NewEvaluator(cfg, store)

	report, err := evaluator.Evaluate(questions)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	evaluation.PrintSummary(report)

	outputFile := "evaluation/results/baseline.json"
	if err := evaluation.SaveReport(report, outputFile); err != nil {
		log.Fatalf("Failed to save report: %v", err)
	}

	log.Printf("Evaluation complete! Results saved to %s", outputFile)
}
