package grading

import "formforge/internal/model"

// GradeForm grades an entire submission. Questions are visited in
// sequence order; a question with no entry in answers is graded as
// unanswered. MaxScore accumulates points for gradable variants only,
// so comprehension and shorttext questions never inflate the attainable
// total. The result is freshly allocated per call, making repeated
// grading of the same inputs (retakes) safe and identical.
func GradeForm(form *model.Form, answers map[int]model.AnswerValue) model.FormGrade {
	grade := model.FormGrade{
		PerQuestion: make([]model.GradeResult, 0, len(form.Questions)),
	}

	for i := range form.Questions {
		q := &form.Questions[i]

		var ans *model.AnswerValue
		if a, ok := answers[i]; ok {
			ans = &a
		}

		res := Grade(q, ans)
		grade.PerQuestion = append(grade.PerQuestion, res)
		grade.TotalScore += res.Score
		if q.Type.Gradable() {
			grade.MaxScore += q.Points
		}
	}
	return grade
}
