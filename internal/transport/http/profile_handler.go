package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learnquiz-service/internal/app"
	"learnquiz-service/internal/logger"
)

// ProfileHandler serves the /me endpoints.
type ProfileHandler struct {
	profiles *app.ProfileService
	log      *logger.Logger
}

func NewProfileHandler(profiles *app.ProfileService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, log: log.With("handler", "profile")}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type profileUpdateRequest struct {
	Timezone string `json:"timezone"`
}

// Update stores new profile settings; today only the timezone is mutable.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return
	}
	if req.Timezone == "" {
		c.JSON(http.StatusBadRequest, errorBody{Error: "timezone is required", Field: "timezone"})
		return
	}
	profile, err := h.profiles.SetTimezone(c.Request.Context(), currentUser(c), req.Timezone)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
