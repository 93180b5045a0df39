package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"learnquiz-service/internal/app"
	"learnquiz-service/internal/logger"
)

// ProgressHandler serves the owner-scoped user-progress endpoints.
type ProgressHandler struct {
	progress *app.ProgressService
	log      *logger.Logger
}

func NewProgressHandler(progress *app.ProgressService, log *logger.Logger) *ProgressHandler {
	return &ProgressHandler{progress: progress, log: log.With("handler", "progress")}
}

func (h *ProgressHandler) List(c *gin.Context) {
	records, err := h.progress.List(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

type progressRequest struct {
	QuizID int64    `json:"quiz"`
	Score  *float64 `json:"score"`
}

// Create upserts a directly supplied score for the requesting user.
func (h *ProgressHandler) Create(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return
	}
	if req.QuizID <= 0 {
		c.JSON(http.StatusBadRequest, errorBody{Error: "quiz is required", Field: "quiz"})
		return
	}
	if req.Score == nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "score is required", Field: "score"})
		return
	}
	rec, err := h.progress.Record(c.Request.Context(), currentUser(c), req.QuizID, *req.Score)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *ProgressHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rec, err := h.progress.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Update overwrites the score of an owned record.
func (h *ProgressHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return
	}
	if req.Score == nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "score is required", Field: "score"})
		return
	}
	rec, err := h.progress.Update(c.Request.Context(), currentUser(c), id, *req.Score)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *ProgressHandler) Summary(c *gin.Context) {
	summary, err := h.progress.Summary(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ProgressHandler) ByDiscipline(c *gin.Context) {
	raw := c.Query("discipline_id")
	disciplineID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || disciplineID <= 0 {
		c.JSON(http.StatusBadRequest, errorBody{Error: "discipline_id query parameter required", Field: "discipline_id"})
		return
	}
	records, err := h.progress.ListByDiscipline(c.Request.Context(), currentUser(c), disciplineID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
