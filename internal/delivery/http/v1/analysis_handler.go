package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-matcher-backend/internal/delivery/http/response"
	"resume-matcher-backend/internal/domain"
	"resume-matcher-backend/pkg/apperror"
)

type AnalysisHandler struct {
	analysisUC domain.AnalysisUsecase
}

func NewAnalysisHandler(rg *gin.RouterGroup, analysisUC domain.AnalysisUsecase) *AnalysisHandler {
	handler := &AnalysisHandler{analysisUC: analysisUC}

	rg.POST("/candidates/:id/analyze", handler.AnalyzeCandidate)
	rg.POST("/jobs/:id/analyze", handler.AnalyzeJob)
	rg.GET("/jobs/:id/statistics", handler.Statistics)

	return handler
}

type AnalyzeCandidateRequest struct {
	JobID int64 `json:"job_id" binding:"required,gt=0"`
}

// AnalyzeCandidate godoc
// @Summary      Analyze a candidate
// @Description  Run the LLM relevance analysis for one candidate against a job
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        id       path      int                      true  "Candidate ID"
// @Param        request  body      AnalyzeCandidateRequest  true  "Target job"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /candidates/{id}/analyze [post]
func (h *AnalysisHandler) AnalyzeCandidate(c *gin.Context) {
	candidateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AnalyzeCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	result, err := h.analysisUC.AnalyzeCandidate(c, candidateID, req.JobID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate analyzed", result)
}

// AnalyzeJob godoc
// @Summary      Analyze all candidates for a job
// @Description  Run the LLM relevance analysis for every candidate of the job. Individual failures are reported per candidate and do not abort the batch.
// @Tags         analysis
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id}/analyze [post]
func (h *AnalysisHandler) AnalyzeJob(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	batch, err := h.analysisUC.AnalyzeAllForJob(c, jobID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Batch analysis finished", batch)
}

// Statistics godoc
// @Summary      Get job statistics
// @Description  Aggregated analysis progress and scores for the job's candidates
// @Tags         analysis
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id}/statistics [get]
func (h *AnalysisHandler) Statistics(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.analysisUC.Statistics(c, jobID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Statistics retrieved", stats)
}
