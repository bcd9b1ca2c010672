package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/blavejr/studybuddy/models"
)

// ResponseGenerator is the LLM collaborator the study modes call. The core
// consumes only the difficulty_level and badges fields of the replies and
// passes the rest through to the caller unmodified.
type ResponseGenerator interface {
	GenerateLearning(topic, context string) (*models.LearningContent, error)
	GenerateTeaching(topic, context string) (*models.TeachingContent, error)
	EvaluateAnswer(question models.Question, userAnswer string) (*models.AnswerEvaluation, error)
}

// Generator produces structured study responses via the Ollama generation API.
type Generator struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewGenerator(baseURL, model string) *Generator {
	return &Generator{
		BaseURL: baseURL,
		Model:   model,
		Client: &http.Client{
			Timeout: 120 * time.Second, // longer timeout for generation
		},
	}
}

type OllamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type OllamaGenerateResponse struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
}

const learningPromptTemplate = `You are an expert tutor helping a student learn. Your goal is to:
1. Explain concepts clearly and concisely
2. Ask targeted questions to test understanding
3. Provide detailed feedback
4. Adapt difficulty based on performance
5. Encourage active recall

Current topic: %s
Context from notes: %s

Respond in JSON format with the following structure:
{
    "explanation": "Clear explanation of the concept",
    "questions": [
        {
            "type": "multiple_choice|true_false|short_answer|conceptual",
            "question": "The question text",
            "options": ["option1", "option2"],
            "correct_answer": "The correct answer",
            "explanation": "Why this is correct"
        }
    ],
    "active_recall_prompt": "A prompt to encourage active recall",
    "difficulty_level": "beginner|intermediate|advanced"
}`

const teachingPromptTemplate = `You are evaluating a student's explanation of a concept. Your goal is to:
1. Listen carefully to their explanation
2. Identify gaps in understanding
3. Provide constructive feedback
4. Suggest areas for improvement
5. Award appropriate badges

Current topic: %s
Context from notes: %s

Respond in JSON format with the following structure:
{
    "missing_concepts": ["List of missing or unclear concepts"],
    "gaps": ["List of identified gaps in understanding"],
    "feedback": "Detailed constructive feedback",
    "suggested_readings": ["Specific sections to review"],
    "rating": "excellent|good|needs_improvement",
    "badges": ["List of earned badges"]
}`

const evaluationPromptTemplate = `Evaluate the following answer to a question:

Question: %s
Correct Answer: %s
User's Answer: %s

Provide feedback in JSON format:
{
    "is_correct": true,
    "feedback": "Detailed feedback on the answer",
    "suggested_improvements": ["List of suggestions"]
}`

// GenerateLearning asks the model for a tutor response for the topic.
func (g *Generator) GenerateLearning(topic, context string) (*models.LearningContent, error) {
	prompt := fmt.Sprintf(learningPromptTemplate, topic, orDefault(context))

	raw, err := g.generate(prompt)
	if err != nil {
		return nil, err
	}

	var content models.LearningContent
	if err := decodeModelJSON(raw, &content); err != nil {
		return nil, err
	}

	return &content, nil
}

// GenerateTeaching asks the model to grade the learner's own explanation.
func (g *Generator) GenerateTeaching(topic, context string) (*models.TeachingContent, error) {
	prompt := fmt.Sprintf(teachingPromptTemplate, topic, orDefault(context))

	raw, err := g.generate(prompt)
	if err != nil {
		return nil, err
	}

	var content models.TeachingContent
	if err := decodeModelJSON(raw, &content); err != nil {
		return nil, err
	}

	return &content, nil
}

// EvaluateAnswer asks the model to grade a single answer.
func (g *Generator) EvaluateAnswer(question models.Question, userAnswer string) (*models.AnswerEvaluation, error) {
	prompt := fmt.Sprintf(evaluationPromptTemplate, question.Question, question.CorrectAnswer, userAnswer)

	raw, err := g.generate(prompt)
	if err != nil {
		return nil, err
	}

	var evaluation models.AnswerEvaluation
	if err := decodeModelJSON(raw, &evaluation); err != nil {
		return nil, err
	}

	return &evaluation, nil
}

// generate runs one non-streaming generation call.
func (g *Generator) generate(prompt string) (string, error) {
	reqBody := OllamaGenerateRequest{
		Model:  g.Model,
		Prompt: prompt,
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %v", models.ErrExternalModel, err)
	}

	url := fmt.Sprintf("%s/api/generate", g.BaseURL)
	resp, err := g.Client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("%w: failed to call Ollama API: %v", models.ErrExternalModel, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: ollama API error (status %d): %s", models.ErrExternalModel, resp.StatusCode, string(body))
	}

	var genResp OllamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", models.ErrExternalModel, err)
	}

	if genResp.Response == "" {
		return "", fmt.Errorf("%w: received empty response from Ollama", models.ErrExternalModel)
	}

	return strings.TrimSpace(genResp.Response), nil
}

// decodeModelJSON parses the model's JSON reply into v. Malformed output is
// surfaced as an external model error, not silently coerced.
func decodeModelJSON(raw string, v interface{}) error {
	raw = stripCodeFence(raw)
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: model returned malformed JSON: %v", models.ErrExternalModel, err)
	}
	return nil
}

// stripCodeFence removes a surrounding markdown code fence, which some models
// wrap JSON replies in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func orDefault(context string) string {
	if context == "" {
		return "No additional context provided"
	}
	return context
}

// test the connection to Ollama
func (g *Generator) TestConnection() error {
	url := fmt.Sprintf("%s/api/tags", g.BaseURL)
	resp, err := g.Client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Ollama API returned status %d", resp.StatusCode)
	}

	return nil
}
