package domain

import "context"

// Export formats
const (
	ExportFormatCSV  = "csv"
	ExportFormatJSON = "json"
	ExportFormatXLSX = "xlsx"
	ExportFormatPDF  = "pdf"
)

// ExportFile is a rendered report ready to stream to the client.
type ExportFile struct {
	Data        []byte
	FileName    string
	ContentType string
}

type ExportUsecase interface {
	Export(ctx context.Context, jobID int64, format string) (*ExportFile, error)
}
