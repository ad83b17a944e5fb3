package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"crmhub/internal/pdf"
	"crmhub/internal/services"
)

type ReportHandler struct {
	service *services.ReportService
	pdfGen  *pdf.ReportGenerator
}

func NewReportHandler(service *services.ReportService, pdfGen *pdf.ReportGenerator) *ReportHandler {
	return &ReportHandler{service: service, pdfGen: pdfGen}
}

// @Summary  Dashboard summary
// @Tags     Reports
// @Router   /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	sum, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		log.Printf("[report][summary][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build summary"})
		return
	}
	c.JSON(http.StatusOK, sum)
}

// @Summary  Task analytics
// @Tags     Reports
// @Router   /reports/tasks [get]
func (h *ReportHandler) TaskAnalytics(c *gin.Context) {
	ta, err := h.service.GetTaskAnalytics(c.Request.Context())
	if err != nil {
		log.Printf("[report][tasks][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build task analytics"})
		return
	}
	c.JSON(http.StatusOK, ta)
}

// @Summary  Dashboard summary as PDF
// @Tags     Reports
// @Produce  application/pdf
// @Router   /reports/summary.pdf [get]
func (h *ReportHandler) SummaryPDF(c *gin.Context) {
	sum, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		log.Printf("[report][summary.pdf][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build summary"})
		return
	}
	data, err := h.pdfGen.RenderSummary(sum, time.Now())
	if err != nil {
		log.Printf("[report][summary.pdf][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render PDF"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="summary.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
