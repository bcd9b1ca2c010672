package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/blavejr/studybuddy/models"
)

// Embedder turns text into fixed-length vectors, either via the Ollama
// embeddings API or via a deterministic local hash embedding ("simple" model).
// Both modes are pure functions of the input text, so batching N texts
// produces the same vectors as encoding them one at a time.
type Embedder struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewEmbedder(baseURL, model string) *Embedder {
	return &Embedder{
		BaseURL: baseURL,
		Model:   model,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type OllamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type OllamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (e *Embedder) GenerateEmbedding(text string) ([]float32, error) {
	if e.Model == "simple" {
		return e.generateSimpleEmbedding(text), nil
	}

	// else use the ollama api
	reqBody := OllamaEmbedRequest{
		Model:  e.Model,
		Prompt: text,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", models.ErrEmbeddingFailure, err)
	}

	url := fmt.Sprintf("%s/api/embeddings", e.BaseURL)
	resp, err := e.Client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to call Ollama API: %v", models.ErrEmbeddingFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: ollama API error (status %d): %s", models.ErrEmbeddingFailure, resp.StatusCode, string(body))
	}

	var embedResp OllamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", models.ErrEmbeddingFailure, err)
	}

	if len(embedResp.Embedding) == 0 {
		return nil, fmt.Errorf("%w: received empty embedding from ollama", models.ErrEmbeddingFailure)
	}

	return embedResp.Embedding, nil
}

// generateSimpleEmbedding creates a lightweight embedding using word frequency.
// Identical input text always maps to the identical vector.
func (e *Embedder) generateSimpleEmbedding(text string) []float32 {
	text = strings.ToLower(text)
	words := strings.Fields(text)

	embedding := make([]float32, 128)

	wordCounts := make(map[string]int)
	for _, word := range words {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if len(word) > 0 {
			wordCounts[word]++
		}
	}

	for word, count := range wordCounts {
		hash := 0
		for _, char := range word {
			hash = hash*31 + int(char)
		}
		pos := (hash & 0x7FFFFFFF) % 128
		embedding[pos] += float32(count) / float32(len(words))
	}

	norm := float32(0)
	for _, val := range embedding {
		norm += val * val
	}
	if norm > 0 {
		norm = float32(math.Sqrt(float64(norm)))
		for i := range embedding {
			embedding[i] /= norm
		}
	}

	return embedding
}

// GenerateEmbeddings embeds a batch of texts.
func (e *Embedder) GenerateEmbeddings(texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	startTime := time.Now()
	embeddings := make([][]float32, len(texts))

	// simple mode is pure local computation, process in parallel
	if e.Model == "simple" {
		var wg sync.WaitGroup
		for i := range texts {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				embeddings[idx] = e.generateSimpleEmbedding(texts[idx])
			}(i)
		}
		wg.Wait()

		log.Printf("Generated %d embeddings locally in %v", len(texts), time.Since(startTime))
		return embeddings, nil
	}

	// API mode: one call per text
	for i := range texts {
		if i > 0 && i%10 == 0 {
			log.Printf("Progress: %d/%d embeddings generated...", i, len(texts))
		}

		embedding, err := e.GenerateEmbedding(texts[i])
		if err != nil {
			return nil, fmt.Errorf("failed to generate embedding for chunk %d: %w", i, err)
		}
		embeddings[i] = embedding
	}

	log.Printf("Generated %d embeddings in %v", len(texts), time.Since(startTime))
	return embeddings, nil
}

func (e *Embedder) TestConnection() error {
	// simple mode, runs locally
	if e.Model == "simple" {
		return nil
	}

	url := fmt.Sprintf("%s/api/tags", e.BaseURL)
	resp, err := e.Client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama API returned status %d", resp.StatusCode)
	}

	return nil
}
