package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learnquiz-service/internal/app"
	"learnquiz-service/internal/logger"
)

// AuthHandler serves the bearer-token endpoints.
type AuthHandler struct {
	auth *app.AuthService
	log  *logger.Logger
}

func NewAuthHandler(auth *app.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log.With("handler", "auth")}
}

type obtainRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Obtain issues an access/refresh pair for valid credentials.
func (h *AuthHandler) Obtain(c *gin.Context) {
	var req obtainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return
	}
	pair, err := h.auth.ObtainPair(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Refresh rotates a refresh token into a new pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Refresh == "" {
		c.JSON(http.StatusBadRequest, errorBody{Error: "refresh token required"})
		return
	}
	pair, err := h.auth.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

type verifyRequest struct {
	Token string `json:"token"`
}

// Verify checks an access token's signature and expiry.
func (h *AuthHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, errorBody{Error: "token required"})
		return
	}
	if err := h.auth.Verify(req.Token); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
