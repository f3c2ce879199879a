package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/donely-api/dto"
	"github.com/donely-api/services"
)

// DashboardController serves the read-only client views
type DashboardController struct {
	dashboardService *services.DashboardService
	commentService   *services.CommentService
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(dashboardService *services.DashboardService, commentService *services.CommentService) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		commentService:   commentService,
	}
}

// RegisterRoutes registers client dashboard routes
func (c *DashboardController) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/projects")
	{
		projects.GET("", c.ListProjects)
		projects.GET("/:slug", c.GetDashboard)
		projects.GET("/:slug/reports/:reportId", c.GetReport)
		projects.POST("/:slug/comments", c.CreateComment)
	}
}

// ListProjects returns the projects the client has active access to
func (c *DashboardController) ListProjects(ctx *gin.Context) {
	projects, err := c.dashboardService.ListProjects(ctx.Request.Context(), viewerFrom(ctx).UserID)
	if err != nil {
		respondError(ctx, "Failed to retrieve projects", err)
		return
	}
	respondOK(ctx, http.StatusOK, projects)
}

func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	dashboard, err := c.dashboardService.GetDashboard(ctx.Request.Context(), viewerFrom(ctx), ctx.Param("slug"))
	if err != nil {
		respondError(ctx, "Failed to retrieve project", err)
		return
	}
	respondOK(ctx, http.StatusOK, dashboard)
}

func (c *DashboardController) GetReport(ctx *gin.Context) {
	report, err := c.dashboardService.GetPublishedReport(ctx.Request.Context(), viewerFrom(ctx), ctx.Param("slug"), ctx.Param("reportId"))
	if err != nil {
		respondError(ctx, "Failed to retrieve report", err)
		return
	}
	respondOK(ctx, http.StatusOK, report)
}

// CreateComment posts a comment from the client on a project they can see
func (c *DashboardController) CreateComment(ctx *gin.Context) {
	var req dto.CommentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	viewer := viewerFrom(ctx)
	project, err := c.dashboardService.ResolveProject(ctx.Request.Context(), viewer, ctx.Param("slug"))
	if err != nil {
		respondError(ctx, "Failed to retrieve project", err)
		return
	}

	comment, err := c.commentService.CreateComment(ctx.Request.Context(), viewer, project.ID, req)
	if err != nil {
		respondError(ctx, "Failed to create comment", err)
		return
	}
	respondOK(ctx, http.StatusCreated, comment)
}
