package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learnquiz-service/internal/app"
	"learnquiz-service/internal/logger"
)

// StreakHandler serves streak reads and the daily update endpoint.
type StreakHandler struct {
	streaks *app.StreakService
	log     *logger.Logger
}

func NewStreakHandler(streaks *app.StreakService, log *logger.Logger) *StreakHandler {
	return &StreakHandler{streaks: streaks, log: log.With("handler", "streak")}
}

func (h *StreakHandler) Get(c *gin.Context) {
	state, err := h.streaks.Get(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type streakUpdateRequest struct {
	Timezone string `json:"timezone"`
}

// Update advances today's streak. The timezone may come from the body or
// the X-User-Timezone header; invalid values fall back silently.
func (h *StreakHandler) Update(c *gin.Context) {
	var req streakUpdateRequest
	// body is optional
	_ = c.ShouldBindJSON(&req)
	tz := req.Timezone
	if tz == "" {
		tz = c.GetHeader(timezoneHeader)
	}

	info, err := h.streaks.Update(c.Request.Context(), currentUser(c), tz)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
