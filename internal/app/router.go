package app

import (
	"quizhub_backend/docs"
	"quizhub_backend/internal/config"
	"quizhub_backend/internal/middleware"
	"quizhub_backend/internal/model"
	"quizhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// test-taker routes
		authGroup.GET("/tests", c.test.ListTests)
		authGroup.GET("/tests/:id", c.test.GetTest)
		authGroup.GET("/tests/:id/questions", c.question.ListQuestions)
		authGroup.POST("/tests/:id/attempts", c.attempt.SubmitAttempt)
		authGroup.GET("/tests/:id/my-attempts", c.attempt.ListMyAttempts)
		authGroup.GET("/attempts/:id", c.attempt.GetReview)

		// author routes
		teacher := authGroup.Group("/teacher")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.POST("/tests", c.test.CreateTest)
			teacher.PUT("/tests/:id", c.test.UpdateTest)
			teacher.DELETE("/tests/:id", c.test.DeleteTest)
			teacher.POST("/tests/:id/questions", c.question.AddQuestion)
			teacher.POST("/tests/:id/questions/upload", c.question.UploadQuestions)
			teacher.GET("/tests/:id/attempts", c.attempt.ListTestAttempts)
			teacher.GET("/tests/:id/answers", c.test.GetAnswerKey)
		}
	}
}
