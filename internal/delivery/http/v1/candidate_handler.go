package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-matcher-backend/internal/delivery/http/response"
	"resume-matcher-backend/internal/domain"
	"resume-matcher-backend/pkg/apperror"
)

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
	analysisUC  domain.AnalysisUsecase
}

func NewCandidateHandler(rg *gin.RouterGroup, candidateUC domain.CandidateUsecase, analysisUC domain.AnalysisUsecase) *CandidateHandler {
	handler := &CandidateHandler{candidateUC: candidateUC, analysisUC: analysisUC}

	rg.POST("/jobs/:id/candidates", handler.Upload)
	rg.GET("/jobs/:id/candidates", handler.ListForJob)

	candidates := rg.Group("/candidates")
	{
		candidates.GET("/:id", handler.GetDetails)
		candidates.DELETE("/:id", handler.Delete)
	}

	return handler
}

// Upload godoc
// @Summary      Upload a resume
// @Description  Upload a resume file (pdf, docx or txt) as a candidate for the job
// @Tags         candidates
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      int   true  "Job ID"
// @Param        file  formData  file  true  "Resume file"
// @Success      201   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      422   {object}  response.Response
// @Router       /jobs/{id}/candidates [post]
func (h *CandidateHandler) Upload(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.BadRequest("Missing 'file' form field"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.BadRequest("Could not read uploaded file"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.Error(apperror.BadRequest("Could not read uploaded file"))
		return
	}

	candidate, err := h.candidateUC.IngestResume(c, jobID, domain.ResumeUpload{
		FileName: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  content,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Resume uploaded", candidate)
}

// ListForJob godoc
// @Summary      List candidates for a job
// @Description  Get the job's candidates with their analyses, sorted by score, name or date
// @Tags         candidates
// @Produce      json
// @Param        id    path      int     true   "Job ID"
// @Param        sort  query     string  false  "Sort order: score, name or date"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /jobs/{id}/candidates [get]
func (h *CandidateHandler) ListForJob(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	items, err := h.analysisUC.ListWithAnalysis(c, jobID, c.DefaultQuery("sort", "score"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidates retrieved", gin.H{
		"candidates": items,
		"total":      len(items),
	})
}

// GetDetails godoc
// @Summary      Get candidate details
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [get]
func (h *CandidateHandler) GetDetails(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	candidate, err := h.candidateUC.GetCandidate(c, id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate retrieved", candidate)
}

// Delete godoc
// @Summary      Delete a candidate
// @Description  Delete a candidate with its analysis and stored resume file
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [delete]
func (h *CandidateHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.candidateUC.DeleteCandidate(c, id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate deleted", nil)
}
