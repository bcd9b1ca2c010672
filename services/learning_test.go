package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blavejr/studybuddy/models"
)

type fakeGenerator struct {
	learning    *models.LearningContent
	teaching    *models.TeachingContent
	evaluation  *models.AnswerEvaluation
	err         error
	lastTopic   string
	lastContext string
}

func (f *fakeGenerator) GenerateLearning(topic, context string) (*models.LearningContent, error) {
	f.lastTopic, f.lastContext = topic, context
	return f.learning, f.err
}

func (f *fakeGenerator) GenerateTeaching(topic, context string) (*models.TeachingContent, error) {
	f.lastTopic, f.lastContext = topic, context
	return f.teaching, f.err
}

func (f *fakeGenerator) EvaluateAnswer(question models.Question, userAnswer string) (*models.AnswerEvaluation, error) {
	return f.evaluation, f.err
}

type fakeContextProvider struct {
	context string
	err     error
	calls   int
}

func (f *fakeContextProvider) ContextFor(ctx context.Context, topic string) (string, error) {
	f.calls++
	return f.context, f.err
}

func TestLearningHandleRequest_RetrievesContextWhenMissing(t *testing.T) {
	generator := &fakeGenerator{learning: &models.LearningContent{
		Explanation:     "explanation",
		DifficultyLevel: models.DifficultyIntermediate,
	}}
	provider := &fakeContextProvider{context: "retrieved notes"}
	mode := NewLearningMode(generator, provider, NewProgressTracker())

	result := mode.HandleRequest(context.Background(), "photosynthesis", "")
	require.Equal(t, "success", result.Status)
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, "retrieved notes", generator.lastContext)
	require.NotNil(t, result.Content)
	assert.Equal(t, "explanation", result.Content.Explanation)

	// the first response seeds the topic's level
	require.NotNil(t, result.Progress)
	assert.Equal(t, models.DifficultyIntermediate, result.Progress.DifficultyLevel)
	assert.Equal(t, 0, result.Progress.QuestionsAnswered)
}

func TestLearningHandleRequest_CallerContextSkipsRetrieval(t *testing.T) {
	generator := &fakeGenerator{learning: &models.LearningContent{Explanation: "ok"}}
	provider := &fakeContextProvider{}
	mode := NewLearningMode(generator, provider, NewProgressTracker())

	result := mode.HandleRequest(context.Background(), "photosynthesis", "my own notes")
	require.Equal(t, "success", result.Status)
	assert.Equal(t, 0, provider.calls)
	assert.Equal(t, "my own notes", generator.lastContext)
}

func TestLearningHandleRequest_RetrievalFailure(t *testing.T) {
	generator := &fakeGenerator{}
	provider := &fakeContextProvider{err: errors.New("index unavailable")}
	mode := NewLearningMode(generator, provider, NewProgressTracker())

	result := mode.HandleRequest(context.Background(), "photosynthesis", "")
	assert.Equal(t, "error", result.Status)
	assert.Contains(t, result.Message, "index unavailable")
	assert.Nil(t, result.Content)
}

func TestLearningHandleRequest_GeneratorFailure(t *testing.T) {
	generator := &fakeGenerator{err: models.ErrExternalModel}
	provider := &fakeContextProvider{context: "notes"}
	tracker := NewProgressTracker()
	mode := NewLearningMode(generator, provider, tracker)

	result := mode.HandleRequest(context.Background(), "photosynthesis", "")
	assert.Equal(t, "error", result.Status)
	assert.NotEmpty(t, result.Message)

	// failed requests leave no tracker state behind
	record := tracker.Get("photosynthesis")
	assert.Equal(t, models.DifficultyBeginner, record.DifficultyLevel)
	assert.Equal(t, 0, record.QuestionsAnswered)
}

func TestEvaluateAnswer_UpdatesProgress(t *testing.T) {
	tracker := NewProgressTracker()
	provider := &fakeContextProvider{}

	question := models.Question{Question: "Q", CorrectAnswer: "A"}

	// four correct answers, then one incorrect: ratio 0.8, intermediate
	correct := &fakeGenerator{evaluation: &models.AnswerEvaluation{IsCorrect: true, Feedback: "yes"}}
	mode := NewLearningMode(correct, provider, tracker)
	for i := 0; i < 4; i++ {
		result := mode.EvaluateAnswer(context.Background(), "photosynthesis", question, "answer")
		require.Equal(t, "success", result.Status)
	}

	incorrect := &fakeGenerator{evaluation: &models.AnswerEvaluation{IsCorrect: false, Feedback: "no"}}
	mode = NewLearningMode(incorrect, provider, tracker)
	result := mode.EvaluateAnswer(context.Background(), "photosynthesis", question, "answer")
	require.Equal(t, "success", result.Status)

	require.NotNil(t, result.Progress)
	assert.Equal(t, 5, result.Progress.QuestionsAnswered)
	assert.Equal(t, 4, result.Progress.CorrectAnswers)
	assert.Equal(t, models.DifficultyIntermediate, result.Progress.DifficultyLevel)
	require.NotNil(t, result.Evaluation)
	assert.False(t, result.Evaluation.IsCorrect)
}

func TestEvaluateAnswer_GeneratorFailureLeavesProgressUntouched(t *testing.T) {
	tracker := NewProgressTracker()
	generator := &fakeGenerator{err: errors.New("model offline")}
	mode := NewLearningMode(generator, &fakeContextProvider{}, tracker)

	result := mode.EvaluateAnswer(context.Background(), "photosynthesis", models.Question{}, "answer")
	assert.Equal(t, "error", result.Status)
	assert.Equal(t, 0, tracker.Get("photosynthesis").QuestionsAnswered)
}
