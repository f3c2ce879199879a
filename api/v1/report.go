package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/donely-api/dto"
	"github.com/donely-api/services"
)

// ReportController handles admin report endpoints
type ReportController struct {
	reportService *services.ReportService
}

// NewReportController creates a new report controller
func NewReportController(reportService *services.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

// RegisterRoutes registers report routes
func (c *ReportController) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/projects")
	{
		projects.GET("/:id/reports", c.ListReports)
		projects.POST("/:id/reports", c.CreateReport)
	}

	reports := router.Group("/reports")
	{
		reports.GET("/:reportId", c.GetReport)
		reports.PUT("/:reportId", c.UpdateReport)
		reports.PATCH("/:reportId/publish", c.SetPublished)
		reports.DELETE("/:reportId", c.DeleteReport)
	}
}

// ListReports returns every report of a project, drafts included
func (c *ReportController) ListReports(ctx *gin.Context) {
	reports, err := c.reportService.ListReports(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, "Failed to retrieve reports", err)
		return
	}
	respondOK(ctx, http.StatusOK, reports)
}

func (c *ReportController) GetReport(ctx *gin.Context) {
	report, err := c.reportService.GetReport(ctx.Request.Context(), ctx.Param("reportId"))
	if err != nil {
		respondError(ctx, "Failed to retrieve report", err)
		return
	}
	respondOK(ctx, http.StatusOK, report)
}

func (c *ReportController) CreateReport(ctx *gin.Context) {
	var req dto.ReportRequest
	if !bindJSON(ctx, &req) {
		return
	}

	report, err := c.reportService.CreateReport(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, "Failed to create report", err)
		return
	}
	respondOK(ctx, http.StatusCreated, report)
}

func (c *ReportController) UpdateReport(ctx *gin.Context) {
	var req dto.ReportRequest
	if !bindJSON(ctx, &req) {
		return
	}

	report, err := c.reportService.UpdateReport(ctx.Request.Context(), ctx.Param("reportId"), req)
	if err != nil {
		respondError(ctx, "Failed to update report", err)
		return
	}
	respondOK(ctx, http.StatusOK, report)
}

// SetPublished publishes or unpublishes a report
func (c *ReportController) SetPublished(ctx *gin.Context) {
	var req dto.PublishRequest
	if !bindJSON(ctx, &req) {
		return
	}

	report, err := c.reportService.SetPublished(ctx.Request.Context(), ctx.Param("reportId"), *req.Published)
	if err != nil {
		respondError(ctx, "Failed to update report", err)
		return
	}
	respondOK(ctx, http.StatusOK, report)
}

func (c *ReportController) DeleteReport(ctx *gin.Context) {
	if err := c.reportService.DeleteReport(ctx.Request.Context(), ctx.Param("reportId")); err != nil {
		respondError(ctx, "Failed to delete report", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Report deleted successfully",
	})
}
