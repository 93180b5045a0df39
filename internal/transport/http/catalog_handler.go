package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"learnquiz-service/internal/app"
	"learnquiz-service/internal/logger"
)

// CatalogHandler serves discipline, question, answer, and roadmap reads.
type CatalogHandler struct {
	catalog *app.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(catalog *app.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: log.With("handler", "catalog")}
}

func (h *CatalogHandler) ListDisciplines(c *gin.Context) {
	disciplines, err := h.catalog.ListDisciplines(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, disciplines)
}

func (h *CatalogHandler) GetDiscipline(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	discipline, err := h.catalog.GetDiscipline(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	quizzes, err := h.catalog.DisciplineQuizzes(c.Request.Context(), id, currentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         discipline.ID,
		"name":       discipline.Name,
		"slug":       discipline.Slug,
		"quizzes":    quizzes,
		"quiz_count": len(quizzes),
	})
}

func (h *CatalogHandler) DisciplineQuizzes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	quizzes, err := h.catalog.DisciplineQuizzes(c.Request.Context(), id, currentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

func (h *CatalogHandler) ListQuestions(c *gin.Context) {
	questions, err := h.catalog.ListQuestions(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *CatalogHandler) ListAnswers(c *gin.Context) {
	answers, err := h.catalog.ListAnswers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

func (h *CatalogHandler) Roadmap(c *gin.Context) {
	id, ok := pathID(c, "discipline_id")
	if !ok {
		return
	}
	roadmap, err := h.catalog.Roadmap(c.Request.Context(), id, currentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, roadmap)
}

// pathID parses a numeric path parameter, writing a 400 on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid " + name, Field: name})
		return 0, false
	}
	return id, true
}
