// file: routes/router.go
package routes

import (
	"ByteList/controllers"
	"ByteList/middlewares"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	apiV1 := r.Group("/api/v1")
	{
		usersPublic := apiV1.Group("/users")
		{
			usersPublic.POST("/register", controllers.Register)
			usersPublic.POST("/login", controllers.Login)
		}
		usersAuth := apiV1.Group("/users")
		usersAuth.Use(middlewares.JWTAuthMiddleware())
		{
			usersAuth.GET("/:id", controllers.GetUserDetail)
		}

		challengeRoutes := apiV1.Group("/challenges")
		{
			challengeRoutes.GET("", controllers.ListChallenges)
			challengeRoutes.GET("/:id", controllers.GetChallengeDetail)
			challengeRoutes.POST("", middlewares.JWTAuthMiddleware(), middlewares.AdminAuthMiddleware(), controllers.CreateChallenge)
			challengeRoutes.POST("/:id/claim", middlewares.JWTAuthMiddleware(), controllers.ClaimTask)
		}

		taskRoutes := apiV1.Group("/tasks")
		taskRoutes.Use(middlewares.JWTAuthMiddleware())
		{
			taskRoutes.GET("", controllers.ListMyTasks)
			taskRoutes.GET("/:id", controllers.GetTaskDetail)
			taskRoutes.PUT("/:id/abandon", controllers.AbandonTask)
			taskRoutes.PUT("/:id/progress", controllers.AppendTaskProgress)
		}

		artifactRoutes := apiV1.Group("/artifacts")
		{
			artifactRoutes.GET("", controllers.ListArtifacts)
			artifactRoutes.GET("/:id", controllers.GetArtifactDetail)
			artifactRoutes.GET("/:id/analysis", controllers.GetArtifactAnalysis)
			artifactRoutes.POST("", middlewares.JWTAuthMiddleware(), controllers.CreateArtifact)
			artifactRoutes.PUT("/:id/vote", middlewares.JWTAuthMiddleware(), controllers.VoteArtifact)
			artifactRoutes.POST("/:id/analyze", middlewares.JWTAuthMiddleware(), controllers.AnalyzeArtifact)
		}
	}

	return r
}
