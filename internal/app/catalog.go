package app

import (
	"context"

	"learnquiz-service/internal/domain"
)

// QuizRepository loads fully hydrated quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID int64) (domain.Quiz, error)
}

// CatalogStore exposes the read-mostly catalog hierarchy. disciplineID and
// userID parameters of zero mean "unfiltered" and "anonymous" respectively.
type CatalogStore interface {
	ListDisciplines(ctx context.Context) ([]domain.DisciplineSummary, error)
	GetDiscipline(ctx context.Context, id int64) (domain.Discipline, error)
	ListQuizzes(ctx context.Context, disciplineID, userID int64) ([]domain.QuizSummary, error)
	ListQuestions(ctx context.Context) ([]domain.Question, error)
	ListAnswers(ctx context.Context) ([]domain.Answer, error)
}

// CatalogService serves the discipline/quiz/question/answer hierarchy.
// Single-quiz hydration goes through the QuizRepository cache; listings hit
// the store directly.
type CatalogService struct {
	store   CatalogStore
	quizzes QuizRepository
}

func NewCatalogService(store CatalogStore, quizzes QuizRepository) *CatalogService {
	return &CatalogService{store: store, quizzes: quizzes}
}

func (s *CatalogService) ListDisciplines(ctx context.Context) ([]domain.DisciplineSummary, error) {
	return s.store.ListDisciplines(ctx)
}

func (s *CatalogService) GetDiscipline(ctx context.Context, id int64) (domain.Discipline, error) {
	return s.store.GetDiscipline(ctx, id)
}

// DisciplineQuizzes lists the quizzes of one discipline, annotated with the
// requesting user's scores when authenticated.
func (s *CatalogService) DisciplineQuizzes(ctx context.Context, disciplineID, userID int64) ([]domain.QuizSummary, error) {
	if _, err := s.store.GetDiscipline(ctx, disciplineID); err != nil {
		return nil, err
	}
	return s.store.ListQuizzes(ctx, disciplineID, userID)
}

func (s *CatalogService) ListQuizzes(ctx context.Context, userID int64) ([]domain.QuizSummary, error) {
	return s.store.ListQuizzes(ctx, 0, userID)
}

// GetQuiz returns a quiz with questions and correct flags included.
func (s *CatalogService) GetQuiz(ctx context.Context, quizID int64) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, quizID)
}

// TakeQuiz returns the quiz with correct-answer flags stripped.
func (s *CatalogService) TakeQuiz(ctx context.Context, quizID int64) (domain.QuizTakeView, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.QuizTakeView{}, err
	}
	view := domain.QuizTakeView{
		ID:            quiz.ID,
		Title:         quiz.Title,
		QuestionCount: len(quiz.Questions),
		Questions:     make([]domain.TakeQuestion, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		tq := domain.TakeQuestion{
			ID:      q.ID,
			Content: q.Content,
			Answers: make([]domain.TakeAnswer, 0, len(q.Answers)),
		}
		for _, a := range q.Answers {
			tq.Answers = append(tq.Answers, domain.TakeAnswer{ID: a.ID, Content: a.Content})
		}
		view.Questions = append(view.Questions, tq)
	}
	return view, nil
}

func (s *CatalogService) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	return s.store.ListQuestions(ctx)
}

func (s *CatalogService) ListAnswers(ctx context.Context) ([]domain.Answer, error) {
	return s.store.ListAnswers(ctx)
}

// Roadmap builds the ordered learning path through a discipline, annotated
// with the user's progress per quiz.
func (s *CatalogService) Roadmap(ctx context.Context, disciplineID, userID int64) (domain.Roadmap, error) {
	discipline, err := s.store.GetDiscipline(ctx, disciplineID)
	if err != nil {
		return domain.Roadmap{}, err
	}
	quizzes, err := s.store.ListQuizzes(ctx, disciplineID, userID)
	if err != nil {
		return domain.Roadmap{}, err
	}

	roadmap := domain.Roadmap{Discipline: discipline, Items: make([]domain.RoadmapItem, 0, len(quizzes))}
	for _, quiz := range quizzes {
		item := domain.RoadmapItem{
			QuizID:        quiz.ID,
			Title:         quiz.Title,
			Slug:          quiz.Slug,
			QuestionCount: quiz.QuestionCount,
			Score:         quiz.UserScore,
		}
		if quiz.UserScore != nil {
			item.Attempted = true
			item.Completed = domain.Passed(*quiz.UserScore)
		}
		roadmap.Items = append(roadmap.Items, item)
	}
	return roadmap, nil
}
