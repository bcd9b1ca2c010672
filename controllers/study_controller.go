package controllers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/blavejr/studybuddy/config"
	"github.com/blavejr/studybuddy/models"
	"github.com/blavejr/studybuddy/services"
	"github.com/blavejr/studybuddy/storage"

	"github.com/gin-gonic/gin"
)

type StudyController struct {
	config   *config.Config
	pipeline *services.IngestionPipeline
	learning *services.LearningMode
	teaching *services.TeachingMode
	progress *services.ProgressTracker
	badges   *services.BadgeTracker
}

func NewStudyController(cfg *config.Config, store storage.VectorStore) (*StudyController, error) {
	chunker, err := services.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	embedder := services.NewEmbedder(cfg.OllamaURL, cfg.OllamaEmbedModel)
	topics := services.NewTopicExtractor(embedder, cfg.MaxTopics)
	ocr := services.NewOCRClient(cfg.OCRURL)
	pipeline := services.NewIngestionPipeline(chunker, topics, ocr, store)
	retriever := services.NewRetriever(store, embedder, cfg.TopK)
	generator := services.NewGenerator(cfg.OllamaURL, cfg.OllamaLLMModel)
	progress := services.NewProgressTracker()
	badges := services.NewBadgeTracker()

	if err := embedder.TestConnection(); err != nil {
		log.Printf("Warning: Ollama embedder connection test failed: %v", err)
	} else {
		log.Println("Connected to Ollama embeddings")
	}

	if err := generator.TestConnection(); err != nil {
		log.Printf("Warning: Ollama generator connection test failed: %v", err)
	} else {
		log.Println("Connected to Ollama LLM")
	}

	return &StudyController{
		config:   cfg,
		pipeline: pipeline,
		learning: services.NewLearningMode(generator, retriever, progress),
		teaching: services.NewTeachingMode(generator, retriever, badges),
		progress: progress,
		badges:   badges,
	}, nil
}

// Upload ingests an uploaded notes document and returns its topics.
func (sc *StudyController) Upload(c *gin.Context) {
	startTime := time.Now()

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "No file uploaded"})
		return
	}
	log.Printf("File received - Name: %s, Size: %d bytes", file.Filename, file.Size)

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to open file"})
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to read file"})
		return
	}

	result, err := sc.pipeline.Ingest(context.Background(), content, file.Filename)
	if err != nil {
		log.Printf("Ingestion failed - %v", err)

		status := http.StatusInternalServerError
		var procErr *models.ProcessingError
		if errors.As(err, &procErr) && procErr.Stage == models.StageExtraction {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"status": "error", "message": err.Error()})
		return
	}

	topics := result.Topics
	if topics == nil {
		topics = []string{}
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		Message:          "Document processed successfully",
		DocumentID:       result.DocumentID,
		Topics:           topics,
		TotalChunks:      result.ChunkCount,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	})
}

// Study dispatches a study request to the learning or teaching mode.
func (sc *StudyController) Study(c *gin.Context) {
	var req models.StudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request"})
		return
	}

	ctx := context.Background()

	switch req.Mode {
	case models.ModeLearning:
		result := sc.learning.HandleRequest(ctx, req.Topic, req.Context)
		c.JSON(statusCode(result.Status), result)
	case models.ModeTeaching:
		result := sc.teaching.HandleRequest(ctx, req.Topic, req.Context)
		c.JSON(statusCode(result.Status), result)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "mode must be 'learning' or 'teaching'"})
	}
}

// EvaluateAnswer grades a learner's answer and updates topic progress.
func (sc *StudyController) EvaluateAnswer(c *gin.Context) {
	var req models.EvaluateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request"})
		return
	}

	result := sc.learning.EvaluateAnswer(context.Background(), req.Topic, req.Question, req.UserAnswer)
	c.JSON(statusCode(result.Status), result)
}

// GetProgress returns the progress record for one topic.
func (sc *StudyController) GetProgress(c *gin.Context) {
	topic := c.Param("topic")
	progress := sc.progress.Get(topic)
	c.JSON(http.StatusOK, gin.H{"topic": topic, "progress": progress})
}

// GetBadges returns the badges earned for one topic.
func (sc *StudyController) GetBadges(c *gin.Context) {
	topic := c.Param("topic")
	badges := sc.badges.Get(topic)
	if badges == nil {
		badges = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"topic": topic, "badges": badges})
}

// GetBadgeCriteria returns the static badge catalog.
func (sc *StudyController) GetBadgeCriteria(c *gin.Context) {
	c.JSON(http.StatusOK, sc.badges.Criteria())
}

func statusCode(status string) int {
	if status == "error" {
		return http.StatusInternalServerError
	}
	return http.StatusOK
}
