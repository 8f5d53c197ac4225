package interfaces

import "context"

// PDFService handles PDF generation from various formats
type PDFService interface {
	// ConvertMarkdownToPDF converts markdown content to a PDF byte slice
	ConvertMarkdownToPDF(markdown, title string) ([]byte, error)
}

// ReportService renders the stored score history as a shareable report
type ReportService interface {
	// ScoreReportMarkdown renders the report body as markdown
	ScoreReportMarkdown(ctx context.Context) (string, error)

	// ScoreReportPDF renders the report as a PDF byte slice
	ScoreReportPDF(ctx context.Context) ([]byte, error)
}
