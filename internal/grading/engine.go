// Package grading scores submitted answers against a question's answer
// key. Everything here is pure: no I/O, no shared state, identical
// inputs always produce identical results. Malformed or absent answers
// degrade into an incorrect result instead of returning an error, so
// one bad answer can never abort grading the rest of a submission.
package grading

import (
	"fmt"
	"regexp"
	"strings"

	"formforge/internal/model"
)

const (
	feedbackCorrect      = "Correct!"
	feedbackNoAnswer     = "No answer provided"
	feedbackManualGrade  = "This question requires manual grading."
	feedbackUnsupported  = "Question type not supported for automatic grading"
	feedbackNoneProvided = "No feedback available"
	notSpecified         = "Not specified"
)

var clozeBlankRe = regexp.MustCompile(`<u>(.*?)</u>`)

// Grade evaluates one answer against one question. ans is nil when the
// test-taker submitted nothing for this question.
func Grade(q *model.Question, ans *model.AnswerValue) model.GradeResult {
	var res model.GradeResult

	switch q.Type {
	case model.QuestionMCQ:
		res = gradeSingleChoice(q, ans, q.Options, "")
	case model.QuestionMCA:
		res = gradeMultiChoice(q, ans)
	case model.QuestionCloze:
		res = gradeSingleChoice(q, ans, q.ClozeOptions, q.ClozeSentence)
	case model.QuestionCategorize:
		res = gradeCategorize(q, ans)
	case model.QuestionComprehension:
		res = model.GradeResult{Feedback: feedbackManualGrade}
	case model.QuestionShortText:
		res = model.GradeResult{Feedback: feedbackUnsupported}
	default:
		res = model.GradeResult{Feedback: feedbackUnsupported}
	}

	if res.Feedback == "" {
		res.Feedback = q.Feedback
	}
	if res.Feedback == "" {
		res.Feedback = feedbackNoneProvided
	}
	return res
}

// gradeSingleChoice covers mcq and cloze, which share single-reference
// semantics. For cloze the sentence is passed so the failure feedback
// can name the blanked-out text.
func gradeSingleChoice(q *model.Question, ans *model.AnswerValue, options []model.Option, clozeSentence string) model.GradeResult {
	if ans == nil || ans.OptionIndex == nil {
		return model.GradeResult{Feedback: feedbackNoAnswer}
	}
	idx := *ans.OptionIndex
	if idx < 0 || idx >= len(options) {
		return model.GradeResult{Feedback: feedbackNoAnswer}
	}

	if options[idx].IsCorrect {
		return model.GradeResult{IsCorrect: true, Score: q.Points, Feedback: feedbackCorrect}
	}

	correctText := notSpecified
	if c := firstCorrect(options); c != nil {
		correctText = c.Text
	}
	if q.Type == model.QuestionCloze {
		blank := "the blank"
		if m := clozeBlankRe.FindStringSubmatch(clozeSentence); m != nil {
			blank = m[1]
		}
		return model.GradeResult{Feedback: fmt.Sprintf("Incorrect. The correct answer was: \"%s\". You were supposed to fill in: \"%s\"", correctText, blank)}
	}
	return model.GradeResult{Feedback: "Incorrect. The correct answer was: " + correctText}
}

func gradeMultiChoice(q *model.Question, ans *model.AnswerValue) model.GradeResult {
	if ans == nil || ans.OptionIndexes == nil {
		return model.GradeResult{Feedback: feedbackNoAnswer}
	}

	selected := make(map[int]bool, len(ans.OptionIndexes))
	for _, idx := range ans.OptionIndexes {
		if idx < 0 || idx >= len(q.Options) {
			return model.GradeResult{Feedback: feedbackNoAnswer}
		}
		selected[idx] = true
	}

	// Symmetric set equality: every selection correct and every correct
	// option selected. All-or-nothing, no partial credit.
	correct := true
	var correctTexts []string
	for i, opt := range q.Options {
		if opt.IsCorrect {
			correctTexts = append(correctTexts, opt.Text)
			if !selected[i] {
				correct = false
			}
		} else if selected[i] {
			correct = false
		}
	}
	if len(correctTexts) == 0 {
		// Ungradable key: nothing marked correct
		correct = false
	}

	if correct {
		return model.GradeResult{IsCorrect: true, Score: q.Points, Feedback: feedbackCorrect}
	}
	return model.GradeResult{Feedback: "Incorrect. Correct answers: " + strings.Join(correctTexts, ", ")}
}

func gradeCategorize(q *model.Question, ans *model.AnswerValue) model.GradeResult {
	if ans == nil || ans.Categorization == nil {
		return model.GradeResult{Feedback: feedbackNoAnswer}
	}

	key := make(map[string]string, len(q.CategorizationAnswers))
	for _, ca := range q.CategorizationAnswers {
		key[ca.ItemID] = ca.CategoryID
	}
	names := make(map[string]string, len(q.Categories))
	for _, c := range q.Categories {
		names[c.ID] = c.Name
	}

	// Every declared item must be present and correctly placed. Items
	// missing from the submission count as mismatches, so an incomplete
	// submission can never grade as fully correct.
	total := len(q.ItemsToCategorize)
	matches := 0
	var wrong []string
	for _, item := range q.ItemsToCategorize {
		chosen, submitted := ans.Categorization[item.ID]
		if submitted && chosen == key[item.ID] {
			matches++
			continue
		}
		wrong = append(wrong, fmt.Sprintf("%s (you: %s, correct: %s)",
			itemLabel(item), categoryLabel(names, chosen), categoryLabel(names, key[item.ID])))
	}

	if matches == total {
		return model.GradeResult{IsCorrect: true, Score: q.Points, Feedback: feedbackCorrect}
	}

	feedback := fmt.Sprintf("Incorrect (%d/%d correct). ", matches, total)
	if len(wrong) > 0 {
		feedback += "Wrong categorizations: " + strings.Join(wrong, ", ")
	}
	return model.GradeResult{Feedback: feedback}
}

func firstCorrect(options []model.Option) *model.Option {
	for i := range options {
		if options[i].IsCorrect {
			return &options[i]
		}
	}
	return nil
}

func itemLabel(item model.CategorizeItem) string {
	if item.Text != "" {
		return item.Text
	}
	return "Item " + item.ID
}

func categoryLabel(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return "Unknown"
}
