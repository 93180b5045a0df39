package app

import (
	"sort"

	"learnquiz-service/internal/domain"
)

// Evaluate grades a set of answer selections against a hydrated quiz.
// Selections map question ID to the selected answer ID; questions without
// an entry are graded as not answered. Evaluate has no side effects;
// persisting the score is the caller's responsibility.
func Evaluate(quiz domain.Quiz, selections map[int64]int64) (domain.SubmissionResult, error) {
	if len(quiz.Questions) == 0 {
		return domain.SubmissionResult{}, domain.ErrNoQuestions
	}

	questions := make([]domain.Question, len(quiz.Questions))
	copy(questions, quiz.Questions)
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })

	result := domain.SubmissionResult{
		QuizID:         quiz.ID,
		TotalQuestions: len(questions),
		Results:        make([]domain.QuestionResult, 0, len(questions)),
	}

	for _, question := range questions {
		correct := firstCorrectAnswer(question)
		qr := domain.QuestionResult{
			QuestionID:      question.ID,
			Question:        question.Content,
			CorrectAnswerID: correct.ID,
			CorrectAnswer:   correct.Content,
		}

		selectedID, answered := selections[question.ID]
		switch {
		case !answered:
			qr.Outcome = domain.OutcomeNotAnswered
			qr.UserAnswer = domain.NotAnsweredText
		default:
			selected, ok := findAnswer(question, selectedID)
			id := selectedID
			qr.UserAnswerID = &id
			if !ok {
				qr.Outcome = domain.OutcomeInvalidAnswer
				qr.UserAnswer = domain.InvalidAnswerText
			} else {
				qr.Outcome = domain.OutcomeAnswered
				qr.UserAnswer = selected.Content
				qr.IsCorrect = selected.Correct
			}
		}

		if qr.IsCorrect {
			result.CorrectAnswers++
		}
		result.Results = append(result.Results, qr)
	}

	result.Score = 100 * float64(result.CorrectAnswers) / float64(result.TotalQuestions)
	result.Passed = domain.Passed(result.Score)
	return result, nil
}

// firstCorrectAnswer picks the first answer flagged correct, falling back to
// the first answer when the single-correct invariant is violated upstream.
func firstCorrectAnswer(q domain.Question) domain.Answer {
	for _, a := range q.Answers {
		if a.Correct {
			return a
		}
	}
	if len(q.Answers) > 0 {
		return q.Answers[0]
	}
	return domain.Answer{}
}

func findAnswer(q domain.Question, answerID int64) (domain.Answer, bool) {
	for _, a := range q.Answers {
		if a.ID == answerID {
			return a, true
		}
	}
	return domain.Answer{}, false
}
