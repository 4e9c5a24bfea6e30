package model

import (
	"fmt"
	"time"
)

// Form is the unit of persistence: an ordered sequence of questions
// plus metadata. Edits replace the whole questions slice; there are no
// per-field question patches.
type Form struct {
	ID             string     `json:"id" bson:"_id,omitempty"`
	Title          string     `json:"title" bson:"title" validate:"required"`
	Description    string     `json:"description,omitempty" bson:"description,omitempty"`
	HeaderImageURL string     `json:"headerImageUrl,omitempty" bson:"headerImageUrl,omitempty"`
	Questions      []Question `json:"questions" bson:"questions" validate:"dive"`
	CreatedAt      time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// AddQuestion appends q to the form
func (f *Form) AddQuestion(q Question) {
	f.Questions = append(f.Questions, q)
}

// RemoveQuestion deletes the question at index
func (f *Form) RemoveQuestion(index int) error {
	if index < 0 || index >= len(f.Questions) {
		return fmt.Errorf("question index %d out of range", index)
	}
	f.Questions = append(f.Questions[:index:index], f.Questions[index+1:]...)
	return nil
}

// ReplaceQuestion swaps the question at index for q
func (f *Form) ReplaceQuestion(index int, q Question) error {
	if index < 0 || index >= len(f.Questions) {
		return fmt.Errorf("question index %d out of range", index)
	}
	f.Questions[index] = q
	return nil
}

// ReorderQuestions moves the question at from to position to, building
// a fresh slice rather than splicing in place so concurrent readers of
// the old slice are unaffected.
func (f *Form) ReorderQuestions(from, to int) error {
	n := len(f.Questions)
	if from < 0 || from >= n {
		return fmt.Errorf("question index %d out of range", from)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("question index %d out of range", to)
	}
	if from == to {
		return nil
	}

	reordered := make([]Question, 0, n)
	for i, q := range f.Questions {
		if i == from {
			continue
		}
		reordered = append(reordered, q)
	}
	reordered = append(reordered[:to:to], append([]Question{f.Questions[from]}, reordered[to:]...)...)
	f.Questions = reordered
	return nil
}

// Normalize makes sequence position authoritative: every question,
// option and cloze option gets Order equal to its index, overwriting
// whatever the caller supplied, and categories/items with no id get a
// deterministic cat_<index> / item_<index> one. Grading looks ids up
// by these values, so this runs before every save and before grading.
// Idempotent: a second pass assigns nothing new.
func (f *Form) Normalize() {
	for i := range f.Questions {
		q := &f.Questions[i]
		q.Order = i
		normalizeQuestion(q)
	}
}

func normalizeQuestion(q *Question) {
	for j := range q.Options {
		q.Options[j].Order = j
	}
	for j := range q.ClozeOptions {
		q.ClozeOptions[j].Order = j
	}
	for j := range q.Categories {
		if q.Categories[j].ID == "" {
			q.Categories[j].ID = fmt.Sprintf("cat_%d", j)
		}
	}
	for j := range q.ItemsToCategorize {
		if q.ItemsToCategorize[j].ID == "" {
			q.ItemsToCategorize[j].ID = fmt.Sprintf("item_%d", j)
		}
	}
	for j := range q.LinkedQuestions {
		q.LinkedQuestions[j].Order = j
		normalizeQuestion(&q.LinkedQuestions[j])
	}
}

// Validate checks the form and every question in it
func (f *Form) Validate() error {
	if f.Title == "" {
		return &ValidationError{Field: "title", Reason: "title is required"}
	}
	for i := range f.Questions {
		if err := f.Questions[i].Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}
