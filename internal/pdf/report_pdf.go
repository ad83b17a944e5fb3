package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"crmhub/internal/models"
	"crmhub/internal/services"
)

// ReportGenerator renders dashboard summaries as downloadable PDFs.
type ReportGenerator struct {
	appName string
}

func NewReportGenerator(appName string) *ReportGenerator {
	if appName == "" {
		appName = "CRM Hub"
	}
	return &ReportGenerator{appName: appName}
}

// RenderSummary produces the PDF bytes for a dashboard summary.
func (g *ReportGenerator) RenderSummary(sum *services.Summary, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Dashboard Summary", false)
	pdf.SetAuthor(g.appName, false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Dashboard Summary", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, "Generated "+generatedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	g.hr(pdf)

	g.sectionTitle(pdf, "Users")
	g.kvLine(pdf, "Total users", fmt.Sprintf("%d", sum.TotalUsers))
	for _, role := range models.AllRoles {
		g.kvLine(pdf, "  "+role.DisplayName(), fmt.Sprintf("%d", sum.UsersByRole[role]))
	}

	g.sectionTitle(pdf, "Tasks")
	g.kvLine(pdf, "Total tasks", fmt.Sprintf("%d", sum.TotalTasks))
	for _, status := range []models.TaskStatus{models.StatusNotStarted, models.StatusInProgress, models.StatusOnHold, models.StatusCompleted} {
		g.kvLine(pdf, "  "+string(status), fmt.Sprintf("%d", sum.TasksByStatus[status]))
	}
	g.kvLine(pdf, "Overdue", fmt.Sprintf("%d", sum.OverdueTasks))
	g.kvLine(pdf, "Completion rate", fmt.Sprintf("%.1f%%", sum.CompletionRate*100))

	g.sectionTitle(pdf, "Leads")
	g.kvLine(pdf, "Total leads", fmt.Sprintf("%d", sum.TotalLeads))
	for _, rating := range []models.LeadRating{models.RatingHot, models.RatingWarm, models.RatingCold} {
		g.kvLine(pdf, "  "+string(rating), fmt.Sprintf("%d", sum.LeadsByRating[rating]))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render summary pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, s, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(100, 6, key, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, val, "", 1, "R", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	pdf.Ln(2)
	x, y := pdf.GetXY()
	pdf.Line(x, y, 190, y)
	pdf.Ln(4)
}
