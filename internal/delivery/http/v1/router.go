package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"resume-matcher-backend/internal/delivery/http/middleware"
	"resume-matcher-backend/internal/delivery/http/response"
	"resume-matcher-backend/internal/domain"
)

type RouterDeps struct {
	JobUC       domain.JobUsecase
	CandidateUC domain.CandidateUsecase
	AnalysisUC  domain.AnalysisUsecase
	ExportUC    domain.ExportUsecase
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware()) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	NewJobHandler(v1, deps.JobUC)
	NewCandidateHandler(v1, deps.CandidateUC, deps.AnalysisUC)
	NewAnalysisHandler(v1, deps.AnalysisUC)
	NewExportHandler(v1, deps.ExportUC)

	return r
}
