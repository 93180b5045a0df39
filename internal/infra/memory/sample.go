package memory

import "learnquiz-service/internal/domain"

// SampleCatalog provides a small demo catalog; swap in the Postgres-backed
// store for production.
func SampleCatalog() ([]domain.Discipline, []domain.Quiz) {
	disciplines := []domain.Discipline{
		{ID: 1, Name: "Contract Law", Slug: "contract-law"},
		{ID: 2, Name: "Constitutional Law", Slug: "constitutional-law"},
	}
	quizzes := []domain.Quiz{
		{
			ID:           1,
			Title:        "Contracts 101",
			Slug:         "contracts-101",
			DisciplineID: 1,
			Questions: []domain.Question{
				{
					ID:      1,
					Content: "What is required to form a contract?",
					QuizID:  1,
					Answers: []domain.Answer{
						{ID: 1, Content: "Offer, acceptance, and consideration", Correct: true},
						{ID: 2, Content: "A notarized signature"},
						{ID: 3, Content: "A witness"},
					},
				},
				{
					ID:      2,
					Content: "Which party makes the offer?",
					QuizID:  1,
					Answers: []domain.Answer{
						{ID: 4, Content: "The offeree"},
						{ID: 5, Content: "The offeror", Correct: true},
					},
				},
				{
					ID:      3,
					Content: "What voids a contract from the start?",
					QuizID:  1,
					Answers: []domain.Answer{
						{ID: 6, Content: "Late delivery"},
						{ID: 7, Content: "Illegal subject matter", Correct: true},
						{ID: 8, Content: "A verbal agreement"},
					},
				},
			},
		},
		{
			ID:           2,
			Title:        "Separation of Powers",
			Slug:         "separation-of-powers",
			DisciplineID: 2,
			Questions: []domain.Question{
				{
					ID:      4,
					Content: "Which branch interprets the law?",
					QuizID:  2,
					Answers: []domain.Answer{
						{ID: 9, Content: "Legislative"},
						{ID: 10, Content: "Judicial", Correct: true},
						{ID: 11, Content: "Executive"},
					},
				},
			},
		},
	}
	return disciplines, quizzes
}
