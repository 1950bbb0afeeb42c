package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	// Init swagger doc
	_ "github.com/codingburgas/job-tracking-DKGeorgiev21/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/auth"
	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/controller/application"
	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/controller/job"
	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/middleware"
	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOriginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrigins := strings.Split(allowOriginsStr, ",")

	localAuth := auth.NewLocalAuthHandler(s.DB, s.Tokens)
	jobController := job.NewJobController(s.DB)
	applicationController := application.NewApplicationController(s.DB)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.SafeHeader())
	r.Use(middleware.EnvRateLimitMiddleware())
	r.Use(middleware.SizeLimit(1 << 20))

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)
	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.POST("register", localAuth.RegisterHandler)
			authRoute.POST("login", localAuth.LoginHandler)
		}

		// Catalog reads are reachable anonymously but personalize
		// has_applied when a token is attached.
		jobsRoute := v1.Group("/jobs")
		{
			jobsRoute.GET("", middleware.OptionalAuth(s.DB, s.Tokens), jobController.ListJobs)
			jobsRoute.GET(":id", middleware.OptionalAuth(s.DB, s.Tokens), jobController.GetJobByID)

			needAdmin := jobsRoute.Group("")
			{
				needAdmin.Use(middleware.RequireAuth(s.DB, s.Tokens), middleware.CheckRole(model.RoleAdmin))
				needAdmin.POST("", jobController.CreateJobHandler)
				needAdmin.PUT(":id", jobController.UpdateJobHandler)
				needAdmin.DELETE(":id", jobController.DeleteJobHandler)
			}
		}

		applicationsRoute := v1.Group("/applications")
		{
			applicationsRoute.Use(middleware.RequireAuth(s.DB, s.Tokens))

			needUser := applicationsRoute.Group("")
			{
				needUser.Use(middleware.CheckRole(model.RoleUser))
				needUser.POST("apply/:jobId", applicationController.SubmitHandler)
				needUser.GET("my-applications", applicationController.ListMineHandler)
			}

			needAdmin := applicationsRoute.Group("")
			{
				needAdmin.Use(middleware.CheckRole(model.RoleAdmin))
				needAdmin.GET("", applicationController.ListAllHandler)
				needAdmin.GET("job/:jobId", applicationController.ListForJobHandler)
				needAdmin.PUT(":id/status", applicationController.UpdateStatusHandler)
			}
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *MyServer) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Hello World"

	c.JSON(http.StatusOK, resp)
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
