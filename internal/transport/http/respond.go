package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"learnquiz-service/internal/domain"
	"learnquiz-service/internal/logger"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// respondError maps domain errors to HTTP statuses: validation failures to
// 400, unknown entities to 404, ownership violations to 403, bad tokens to
// 401, everything else to 500.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errorBody{Error: verr.Reason, Field: verr.Field})
	case errors.Is(err, domain.ErrNoQuestions):
		c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrDisciplineNotFound),
		errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrProgressNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, errorBody{Error: err.Error()})
	default:
		log.Error("internal error", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}
