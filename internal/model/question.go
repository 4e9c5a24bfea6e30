package model

import "fmt"

// QuestionType identifies the variant of a question
type QuestionType string

const (
	QuestionMCQ           QuestionType = "mcq"           // Single-select multiple choice
	QuestionMCA           QuestionType = "mca"           // Multi-select, all-or-nothing
	QuestionCloze         QuestionType = "cloze"         // Fill-in-the-blank from candidates
	QuestionCategorize    QuestionType = "categorize"    // Drag items into category buckets
	QuestionComprehension QuestionType = "comprehension" // Passage with linked sub-questions
	QuestionShortText     QuestionType = "shorttext"     // Free text, manually graded
)

// Gradable reports whether the engine can score this variant
// automatically. Comprehension and shorttext answers need a human.
func (t QuestionType) Gradable() bool {
	switch t {
	case QuestionMCQ, QuestionMCA, QuestionCloze, QuestionCategorize:
		return true
	}
	return false
}

// Valid reports whether t is one of the six recognized variants
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMCQ, QuestionMCA, QuestionCloze, QuestionCategorize, QuestionComprehension, QuestionShortText:
		return true
	}
	return false
}

// Option is an answer candidate for mcq/mca/cloze questions
type Option struct {
	Text      string `json:"text" bson:"text"`
	IsCorrect bool   `json:"isCorrect" bson:"isCorrect"`
	Order     int    `json:"order" bson:"order"`
}

// Category is a bucket items are dragged into
type Category struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// CategorizeItem is a draggable item in a categorize question
type CategorizeItem struct {
	ID   string `json:"id" bson:"id"`
	Text string `json:"text" bson:"text"`
}

// CategorizationAnswer maps one item to its correct category (the answer key)
type CategorizationAnswer struct {
	ItemID     string `json:"itemId" bson:"itemId"`
	CategoryID string `json:"categoryId" bson:"categoryId"`
}

// Question is one entry in a form. Type selects which of the variant
// field groups below is meaningful; the rest stay at their zero values.
type Question struct {
	Type             QuestionType `json:"type" bson:"type" validate:"required,oneof=mcq mca cloze categorize comprehension shorttext"`
	QuestionText     string       `json:"questionText" bson:"questionText"`
	QuestionImageURL string       `json:"questionImageUrl,omitempty" bson:"questionImageUrl,omitempty"`
	Points           float64      `json:"points" bson:"points" validate:"gte=0"`
	Order            int          `json:"order" bson:"order"`
	Feedback         string       `json:"feedback,omitempty" bson:"feedback,omitempty"`

	// mcq / mca
	Options                []Option `json:"options,omitempty" bson:"options,omitempty"`
	MultipleAnswersAllowed bool     `json:"multipleAnswersAllowed" bson:"multipleAnswersAllowed"`

	// cloze
	ClozeSentence string   `json:"clozeSentence,omitempty" bson:"clozeSentence,omitempty"`
	ClozeOptions  []Option `json:"clozeOptions,omitempty" bson:"clozeOptions,omitempty"`

	// categorize
	Categories            []Category             `json:"categories,omitempty" bson:"categories,omitempty"`
	ItemsToCategorize     []CategorizeItem       `json:"itemsToCategorize,omitempty" bson:"itemsToCategorize,omitempty"`
	CategorizationAnswers []CategorizationAnswer `json:"categorizationAnswers,omitempty" bson:"categorizationAnswers,omitempty"`

	// comprehension
	ComprehensionPassage  string     `json:"comprehensionPassage,omitempty" bson:"comprehensionPassage,omitempty"`
	ComprehensionImageURL string     `json:"comprehensionImageUrl,omitempty" bson:"comprehensionImageUrl,omitempty"`
	LinkedQuestions       []Question `json:"linkedQuestions,omitempty" bson:"linkedQuestions,omitempty"`
}

// Validate checks structural well-formedness beyond what struct tags
// cover: unique ids within the question and an answer key that only
// references declared categories and items. Grading rules live in the
// grading package, not here. A mcq/mca question with zero correct
// options is valid but ungradable, so that is not rejected.
func (q *Question) Validate() error {
	if !q.Type.Valid() {
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown question type %q", q.Type)}
	}
	if q.Points < 0 {
		return &ValidationError{Field: "points", Reason: "points must not be negative"}
	}

	if q.Type == QuestionCategorize {
		catIDs := make(map[string]bool, len(q.Categories))
		for _, c := range q.Categories {
			if c.ID == "" {
				continue
			}
			if catIDs[c.ID] {
				return &ValidationError{Field: "categories", Reason: fmt.Sprintf("duplicate category id %q", c.ID)}
			}
			catIDs[c.ID] = true
		}
		itemIDs := make(map[string]bool, len(q.ItemsToCategorize))
		for _, it := range q.ItemsToCategorize {
			if it.ID == "" {
				continue
			}
			if itemIDs[it.ID] {
				return &ValidationError{Field: "itemsToCategorize", Reason: fmt.Sprintf("duplicate item id %q", it.ID)}
			}
			itemIDs[it.ID] = true
		}
		keyed := make(map[string]bool, len(q.CategorizationAnswers))
		for _, ca := range q.CategorizationAnswers {
			if !itemIDs[ca.ItemID] {
				return &ValidationError{Field: "categorizationAnswers", Reason: fmt.Sprintf("answer key references undeclared item %q", ca.ItemID)}
			}
			if !catIDs[ca.CategoryID] {
				return &ValidationError{Field: "categorizationAnswers", Reason: fmt.Sprintf("answer key references undeclared category %q", ca.CategoryID)}
			}
			if keyed[ca.ItemID] {
				return &ValidationError{Field: "categorizationAnswers", Reason: fmt.Sprintf("item %q keyed to more than one category", ca.ItemID)}
			}
			keyed[ca.ItemID] = true
		}
	}

	for i := range q.LinkedQuestions {
		if err := q.LinkedQuestions[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
