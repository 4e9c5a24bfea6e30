package model

// AnswerValue is a test-taker's answer to one question. Its shape is
// variant-dependent: OptionIndex for mcq/cloze, OptionIndexes for mca,
// Categorization (item id -> category id) for categorize. Indexes refer
// to the form's persisted option order at submission time.
type AnswerValue struct {
	OptionIndex    *int              `json:"optionIndex,omitempty"`
	OptionIndexes  []int             `json:"optionIndexes,omitempty"`
	Categorization map[string]string `json:"categorization,omitempty"`
}

// Submission holds answers keyed by question order index. Submissions
// are ephemeral: graded on request, never persisted.
type Submission struct {
	FormID  string              `json:"formId,omitempty"`
	Answers map[int]AnswerValue `json:"answers"`
}

// GradeResult is the outcome of grading a single question
type GradeResult struct {
	IsCorrect bool    `json:"isCorrect"`
	Score     float64 `json:"score"`
	Feedback  string  `json:"feedback"`
}

// FormGrade is the aggregate over an entire submission. MaxScore sums
// points over gradable questions only.
type FormGrade struct {
	PerQuestion []GradeResult `json:"perQuestion"`
	TotalScore  float64       `json:"totalScore"`
	MaxScore    float64       `json:"maxScore"`
}
