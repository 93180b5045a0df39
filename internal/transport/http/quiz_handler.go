package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"learnquiz-service/internal/app"
	"learnquiz-service/internal/logger"
)

// timezoneHeader optionally overrides the stored profile timezone for
// streak computation; unknown identifiers are ignored.
const timezoneHeader = "X-User-Timezone"

// QuizHandler serves quiz reads and the submission flow.
type QuizHandler struct {
	catalog  *app.CatalogService
	quizzes  *app.QuizService
	progress *app.ProgressService
	log      *logger.Logger
}

func NewQuizHandler(catalog *app.CatalogService, quizzes *app.QuizService, progress *app.ProgressService, log *logger.Logger) *QuizHandler {
	return &QuizHandler{catalog: catalog, quizzes: quizzes, progress: progress, log: log.With("handler", "quiz")}
}

func (h *QuizHandler) List(c *gin.Context) {
	quizzes, err := h.catalog.ListQuizzes(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// Get returns the full quiz including correct-answer flags.
func (h *QuizHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	quiz, err := h.catalog.GetQuiz(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// Take returns the quiz with correct-answer flags stripped.
func (h *QuizHandler) Take(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.catalog.TakeQuiz(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type submitRequest struct {
	// Answers maps question IDs (as string keys) to selected answer IDs.
	Answers  map[string]int64 `json:"answers"`
	Timezone string           `json:"timezone"`
}

// Submit grades a submission and records progress and streak atomically.
func (h *QuizHandler) Submit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "malformed request body", Field: "answers"})
		return
	}

	selections := make(map[int64]int64, len(req.Answers))
	for key, answerID := range req.Answers {
		questionID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorBody{Error: "question keys must be numeric", Field: "answers"})
			return
		}
		selections[questionID] = answerID
	}

	tz := req.Timezone
	if tz == "" {
		tz = c.GetHeader(timezoneHeader)
	}

	response, err := h.quizzes.Submit(c.Request.Context(), id, currentUser(c), selections, tz)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// MyScores lists the requesting user's recorded scores.
func (h *QuizHandler) MyScores(c *gin.Context) {
	scores, err := h.progress.List(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, scores)
}
