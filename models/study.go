package models

// difficulty levels, entered in this order only via accumulated correctness
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// study modes
const (
	ModeLearning = "learning"
	ModeTeaching = "teaching"
)

// ProgressRecord tracks per-topic learner mastery counters and the derived level.
type ProgressRecord struct {
	QuestionsAnswered int    `json:"questions_answered"`
	CorrectAnswers    int    `json:"correct_answers"`
	DifficultyLevel   string `json:"difficulty_level"`
}

// Question is a single question generated by the tutor.
type Question struct {
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// LearningContent is the structured reply of the tutor for a topic.
type LearningContent struct {
	Explanation        string     `json:"explanation"`
	Questions          []Question `json:"questions"`
	ActiveRecallPrompt string     `json:"active_recall_prompt"`
	DifficultyLevel    string     `json:"difficulty_level"`
}

// TeachingContent is the structured reply of the evaluator for a learner explanation.
type TeachingContent struct {
	MissingConcepts   []string `json:"missing_concepts"`
	Gaps              []string `json:"gaps"`
	Feedback          string   `json:"feedback"`
	SuggestedReadings []string `json:"suggested_readings"`
	Rating            string   `json:"rating"`
	Badges            []string `json:"badges"`
}

// AnswerEvaluation is the graded result of a single learner answer.
type AnswerEvaluation struct {
	IsCorrect             bool     `json:"is_correct"`
	Feedback              string   `json:"feedback"`
	SuggestedImprovements []string `json:"suggested_improvements"`
}

// LearningResult is what a learning request returns to the caller.
type LearningResult struct {
	Status   string           `json:"status"`
	Message  string           `json:"message,omitempty"`
	Content  *LearningContent `json:"content,omitempty"`
	Progress *ProgressRecord  `json:"progress,omitempty"`
}

// AnswerResult is what an answer evaluation returns to the caller.
type AnswerResult struct {
	Status     string            `json:"status"`
	Message    string            `json:"message,omitempty"`
	Evaluation *AnswerEvaluation `json:"evaluation,omitempty"`
	Progress   *ProgressRecord   `json:"progress,omitempty"`
}

// TeachingResult is what a teaching request returns to the caller.
type TeachingResult struct {
	Status  string           `json:"status"`
	Message string           `json:"message,omitempty"`
	Content *TeachingContent `json:"content,omitempty"`
	Badges  []string         `json:"badges,omitempty"`
}

type StudyRequest struct {
	Topic   string `json:"topic" binding:"required"`
	Mode    string `json:"mode" binding:"required"`
	Context string `json:"context,omitempty"`
}

type EvaluateAnswerRequest struct {
	Topic      string   `json:"topic" binding:"required"`
	Question   Question `json:"question" binding:"required"`
	UserAnswer string   `json:"user_answer" binding:"required"`
}
