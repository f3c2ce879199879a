package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/donely-api/dto"
	"github.com/donely-api/services"
)

// ProjectController handles admin project endpoints and the access grants under them
type ProjectController struct {
	projectService *services.ProjectService
	accessService  *services.AccessService
}

// NewProjectController creates a new project controller
func NewProjectController(projectService *services.ProjectService, accessService *services.AccessService) *ProjectController {
	return &ProjectController{
		projectService: projectService,
		accessService:  accessService,
	}
}

// RegisterRoutes registers project and access routes
func (c *ProjectController) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/projects")
	{
		projects.GET("", c.ListProjects)
		projects.POST("", c.CreateProject)
		projects.GET("/:id", c.GetProject)
		projects.PUT("/:id", c.UpdateProject)
		projects.DELETE("/:id", c.DeleteProject)
		projects.GET("/:id/access", c.ListAccess)
		projects.POST("/:id/access", c.GrantAccess)
	}

	access := router.Group("/access")
	{
		access.PATCH("/:accessId/toggle", c.ToggleAccess)
		access.DELETE("/:accessId", c.RevokeAccess)
	}
}

// ListProjects godoc
// @Summary List projects with pagination and filtering
// @Tags projects
// @Produce json
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Param search query string false "Search term for project name, slug or client"
// @Param sortBy query string false "Field to sort by (created_at, updated_at, name, status, progress)"
// @Param sortOrder query string false "Sort order (asc or desc)"
// @Success 200 {object} dto.ProjectListResponse
// @Router /admin/projects [get]
func (c *ProjectController) ListProjects(ctx *gin.Context) {
	response, err := c.projectService.ListProjects(ctx.Request.Context(), listFilter(ctx))
	if err != nil {
		respondError(ctx, "Failed to retrieve projects", err)
		return
	}
	respondOK(ctx, http.StatusOK, response)
}

// GetProject godoc
// @Summary Get a project by ID
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} models.Project
// @Router /admin/projects/{id} [get]
func (c *ProjectController) GetProject(ctx *gin.Context) {
	project, err := c.projectService.GetProject(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, "Failed to retrieve project", err)
		return
	}
	respondOK(ctx, http.StatusOK, project)
}

// CreateProject godoc
// @Summary Create a new project
// @Tags projects
// @Accept json
// @Produce json
// @Param project body dto.ProjectRequest true "Project details"
// @Success 201 {object} models.Project
// @Router /admin/projects [post]
func (c *ProjectController) CreateProject(ctx *gin.Context) {
	var req dto.ProjectRequest
	if !bindJSON(ctx, &req) {
		return
	}

	project, err := c.projectService.CreateProject(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, "Failed to create project", err)
		return
	}
	respondOK(ctx, http.StatusCreated, project)
}

// UpdateProject godoc
// @Summary Update a project
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param project body dto.ProjectRequest true "Project details"
// @Success 200 {object} models.Project
// @Router /admin/projects/{id} [put]
func (c *ProjectController) UpdateProject(ctx *gin.Context) {
	var req dto.ProjectRequest
	if !bindJSON(ctx, &req) {
		return
	}

	project, err := c.projectService.UpdateProject(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, "Failed to update project", err)
		return
	}
	respondOK(ctx, http.StatusOK, project)
}

// DeleteProject godoc
// @Summary Delete a project and everything under it
// @Tags projects
// @Param id path string true "Project ID"
// @Success 200 {object} map[string]string
// @Router /admin/projects/{id} [delete]
func (c *ProjectController) DeleteProject(ctx *gin.Context) {
	if err := c.projectService.DeleteProject(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, "Failed to delete project", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Project deleted successfully",
	})
}

func (c *ProjectController) ListAccess(ctx *gin.Context) {
	access, err := c.accessService.ListByProject(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, "Failed to retrieve project access", err)
		return
	}
	respondOK(ctx, http.StatusOK, access)
}

// GrantAccess gives a client read access to the project
func (c *ProjectController) GrantAccess(ctx *gin.Context) {
	var req dto.GrantAccessRequest
	if !bindJSON(ctx, &req) {
		return
	}

	access, err := c.accessService.Grant(ctx.Request.Context(), ctx.Param("id"), req.ClientID)
	if err != nil {
		respondError(ctx, "Failed to grant access", err)
		return
	}
	respondOK(ctx, http.StatusCreated, access)
}

func (c *ProjectController) ToggleAccess(ctx *gin.Context) {
	access, err := c.accessService.Toggle(ctx.Request.Context(), ctx.Param("accessId"))
	if err != nil {
		respondError(ctx, "Failed to toggle access", err)
		return
	}
	respondOK(ctx, http.StatusOK, access)
}

func (c *ProjectController) RevokeAccess(ctx *gin.Context) {
	if err := c.accessService.Revoke(ctx.Request.Context(), ctx.Param("accessId")); err != nil {
		respondError(ctx, "Failed to revoke access", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Access revoked",
	})
}
