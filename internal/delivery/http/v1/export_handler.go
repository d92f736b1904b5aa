package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"resume-matcher-backend/internal/domain"
)

type ExportHandler struct {
	exportUC domain.ExportUsecase
}

func NewExportHandler(rg *gin.RouterGroup, exportUC domain.ExportUsecase) *ExportHandler {
	handler := &ExportHandler{exportUC: exportUC}

	rg.GET("/jobs/:id/export", handler.Export)

	return handler
}

// Export godoc
// @Summary      Export ranked candidates
// @Description  Download the job's ranked candidate list as csv, json, xlsx or pdf
// @Tags         export
// @Produce      octet-stream
// @Param        id      path      int     true   "Job ID"
// @Param        format  query     string  false  "Export format: csv, json, xlsx or pdf (default xlsx)"
// @Success      200     {file}    file
// @Failure      400     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /jobs/{id}/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	file, err := h.exportUC.Export(c, jobID, c.Query("format"))
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	c.Data(200, file.ContentType, file.Data)
}
