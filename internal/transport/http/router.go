package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"learnquiz-service/internal/logger"
)

// RouterConfig bundles the handlers and middleware the router mounts.
type RouterConfig struct {
	Auth     *AuthHandler
	AuthMW   *AuthMiddleware
	Catalog  *CatalogHandler
	Quiz     *QuizHandler
	Progress *ProgressHandler
	Streak   *StreakHandler
	Profile  *ProfileHandler

	Log         *logger.Logger
	CORSOrigins []string
}

// NewRouter mounts the REST surface. Catalog reads are public (with
// optional auth for score annotation); everything touching per-user state
// requires a bearer token.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Log != nil {
		r.Use(RequestLog(cfg.Log))
	}
	r.Use(corsMiddleware(cfg.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.POST("/auth/token/", cfg.Auth.Obtain)
	r.POST("/auth/token/refresh/", cfg.Auth.Refresh)
	r.POST("/auth/token/verify/", cfg.Auth.Verify)

	public := r.Group("/", cfg.AuthMW.OptionalAuth())
	{
		public.GET("/disciplines/", cfg.Catalog.ListDisciplines)
		public.GET("/disciplines/:id/", cfg.Catalog.GetDiscipline)
		public.GET("/disciplines/:id/quizzes/", cfg.Catalog.DisciplineQuizzes)

		public.GET("/quizzes/", cfg.Quiz.List)
		public.GET("/quizzes/:id/", cfg.Quiz.Get)
		public.GET("/quizzes/:id/take/", cfg.Quiz.Take)
	}

	protected := r.Group("/", cfg.AuthMW.RequireAuth())
	{
		protected.POST("/quizzes/:id/submit/", cfg.Quiz.Submit)
		protected.GET("/quizzes/my_scores/", cfg.Quiz.MyScores)

		protected.GET("/questions/", cfg.Catalog.ListQuestions)
		protected.GET("/answers/", cfg.Catalog.ListAnswers)

		protected.GET("/me/", cfg.Profile.Get)
		protected.PUT("/me/", cfg.Profile.Update)
		protected.PATCH("/me/", cfg.Profile.Update)

		protected.GET("/roadmap/:discipline_id/", cfg.Catalog.Roadmap)

		protected.GET("/streak/", cfg.Streak.Get)
		protected.POST("/streak/update/", cfg.Streak.Update)

		protected.GET("/user-progress/", cfg.Progress.List)
		protected.POST("/user-progress/", cfg.Progress.Create)
		protected.GET("/user-progress/summary/", cfg.Progress.Summary)
		protected.GET("/user-progress/by_discipline/", cfg.Progress.ByDiscipline)
		protected.GET("/user-progress/:id/", cfg.Progress.Get)
		protected.PUT("/user-progress/:id/", cfg.Progress.Update)
		protected.PATCH("/user-progress/:id/", cfg.Progress.Update)
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	if len(origins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", timezoneHeader)
	return cors.New(corsCfg)
}
