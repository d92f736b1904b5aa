package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/unidoc/unipdf/v3/creator"
	"github.com/xuri/excelize/v2"

	"resume-matcher-backend/internal/domain"
	"resume-matcher-backend/pkg/apperror"
)

type exportUsecase struct {
	jobRepo  domain.JobRepository
	analysis domain.AnalysisUsecase
}

func NewExportUsecase(jobRepo domain.JobRepository, analysis domain.AnalysisUsecase) domain.ExportUsecase {
	return &exportUsecase{jobRepo: jobRepo, analysis: analysis}
}

var exportColumns = []string{
	"rank", "name", "email", "phone", "relevance_score",
	"matched_skills", "missing_skills", "status", "feedback", "uploaded_at",
}

var exportHeaderNames = map[string]string{
	"rank":            "RANK",
	"name":            "NAME",
	"email":           "EMAIL",
	"phone":           "PHONE",
	"relevance_score": "RELEVANCE SCORE",
	"matched_skills":  "MATCHED SKILLS",
	"missing_skills":  "MISSING SKILLS",
	"status":          "STATUS",
	"feedback":        "FEEDBACK",
	"uploaded_at":     "UPLOADED AT",
}

// Export renders the job's ranked candidate list in the requested format.
// Candidates without a completed analysis keep empty analysis columns.
func (u *exportUsecase) Export(ctx context.Context, jobID int64, format string) (*domain.ExportFile, error) {
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, err
	}

	items, err := u.analysis.ListWithAnalysis(ctx, jobID, SortByScore)
	if err != nil {
		return nil, err
	}

	switch format {
	case domain.ExportFormatCSV:
		return u.exportCSV(job, items)
	case domain.ExportFormatJSON:
		return u.exportJSON(job, items)
	case domain.ExportFormatXLSX, "":
		return u.exportExcel(job, items)
	case domain.ExportFormatPDF:
		return u.exportPDF(ctx, job, items)
	default:
		return nil, apperror.BadRequest("Format must be one of: csv, json, xlsx, pdf")
	}
}

func exportFileName(jobID int64, ext string) string {
	return fmt.Sprintf("job_%d_candidates_%s.%s", jobID, time.Now().Format("20060102_150405"), ext)
}

func fieldValue(rank int, item *domain.CandidateWithAnalysis, field string) string {
	c := &item.Candidate
	switch field {
	case "rank":
		return strconv.Itoa(rank)
	case "name":
		return c.Name
	case "email":
		if c.Email != nil {
			return *c.Email
		}
	case "phone":
		if c.Phone != nil {
			return *c.Phone
		}
	case "uploaded_at":
		return c.UploadedAt.Format("2006-01-02 15:04:05")
	case "status":
		if item.Analysis != nil {
			return item.Analysis.Status
		}
		return domain.AnalysisStatusPending
	}

	if !item.HasCompletedAnalysis() {
		return ""
	}
	switch field {
	case "relevance_score":
		return strconv.FormatFloat(item.Analysis.RelevanceScore, 'f', 1, 64)
	case "matched_skills":
		return strings.Join(item.Analysis.MatchedSkills, ", ")
	case "missing_skills":
		return strings.Join(item.Analysis.MissingSkills, ", ")
	case "feedback":
		return item.Analysis.Feedback
	}
	return ""
}

func (u *exportUsecase) exportCSV(job *domain.Job, items []domain.CandidateWithAnalysis) (*domain.ExportFile, error) {
	var buf bytes.Buffer

	headers := make([]string, 0, len(exportColumns))
	for _, col := range exportColumns {
		headers = append(headers, exportHeaderNames[col])
	}
	buf.WriteString(strings.Join(headers, ",") + "\n")

	for i := range items {
		var values []string
		for _, col := range exportColumns {
			value := fieldValue(i+1, &items[i], col)
			if strings.Contains(value, ",") || strings.Contains(value, "\"") || strings.Contains(value, "\n") {
				value = "\"" + strings.ReplaceAll(value, "\"", "\"\"") + "\""
			}
			values = append(values, value)
		}
		buf.WriteString(strings.Join(values, ",") + "\n")
	}

	return &domain.ExportFile{
		Data:        buf.Bytes(),
		FileName:    exportFileName(job.ID, "csv"),
		ContentType: "text/csv",
	}, nil
}

type exportCandidateJSON struct {
	Rank      int                    `json:"rank"`
	Candidate domain.Candidate       `json:"candidate"`
	Analysis  *domain.AnalysisResult `json:"analysis,omitempty"`
}

func (u *exportUsecase) exportJSON(job *domain.Job, items []domain.CandidateWithAnalysis) (*domain.ExportFile, error) {
	ranked := make([]exportCandidateJSON, 0, len(items))
	for i := range items {
		ranked = append(ranked, exportCandidateJSON{
			Rank:      i + 1,
			Candidate: items[i].Candidate,
			Analysis:  items[i].Analysis,
		})
	}

	payload := map[string]any{
		"job":          job,
		"candidates":   ranked,
		"generated_at": time.Now().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export JSON: %w", err)
	}

	return &domain.ExportFile{
		Data:        data,
		FileName:    exportFileName(job.ID, "json"),
		ContentType: "application/json",
	}, nil
}

func (u *exportUsecase) exportExcel(job *domain.Job, items []domain.CandidateWithAnalysis) (*domain.ExportFile, error) {
	f := excelize.NewFile()
	sheetName := "Candidates"
	f.SetSheetName("Sheet1", sheetName)

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, exportHeaderNames[col])
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx := range items {
		for colIdx, col := range exportColumns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, fieldValue(rowIdx+1, &items[rowIdx], col))
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return &domain.ExportFile{
		Data:        buf.Bytes(),
		FileName:    exportFileName(job.ID, "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}, nil
}

func (u *exportUsecase) exportPDF(ctx context.Context, job *domain.Job, items []domain.CandidateWithAnalysis) (*domain.ExportFile, error) {
	stats, err := u.analysis.Statistics(ctx, job.ID)
	if err != nil {
		return nil, err
	}

	c := creator.New()
	c.SetPageMargins(50, 50, 50, 50)

	title := c.NewParagraph(fmt.Sprintf("Candidate Report: %s", job.Title))
	title.SetFontSize(20)
	title.SetMargins(0, 0, 0, 20)
	if err := c.Draw(title); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	summary := c.NewParagraph(fmt.Sprintf(
		"Generated %s\nCandidates: %d   Analyzed: %d   Pending: %d   Failed: %d\nAverage score: %.1f   Completion: %.1f%%",
		time.Now().Format("2006-01-02 15:04"),
		stats.TotalCandidates, stats.Analyzed, stats.Pending, stats.Failed,
		stats.AverageScore, stats.CompletionRate,
	))
	summary.SetFontSize(11)
	summary.SetMargins(0, 0, 0, 10)
	if err := c.Draw(summary); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	for i := range items {
		c.NewPage()

		heading := c.NewParagraph(fmt.Sprintf("#%d  %s", i+1, items[i].Candidate.Name))
		heading.SetFontSize(16)
		heading.SetMargins(0, 0, 0, 10)
		if err := c.Draw(heading); err != nil {
			return nil, fmt.Errorf("failed to render PDF: %w", err)
		}

		var lines []string
		for _, col := range []string{"email", "phone", "relevance_score", "status", "matched_skills", "missing_skills", "feedback"} {
			value := fieldValue(i+1, &items[i], col)
			if value == "" {
				value = "-"
			}
			lines = append(lines, fmt.Sprintf("%s: %s", exportHeaderNames[col], value))
		}
		detail := c.NewParagraph(strings.Join(lines, "\n"))
		detail.SetFontSize(11)
		if err := c.Draw(detail); err != nil {
			return nil, fmt.Errorf("failed to render PDF: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF file: %w", err)
	}

	return &domain.ExportFile{
		Data:        buf.Bytes(),
		FileName:    exportFileName(job.ID, "pdf"),
		ContentType: "application/pdf",
	}, nil
}
