package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/donely-api/dto"
	"github.com/donely-api/services"
)

// SprintController handles sprints and their tasks and deliveries
type SprintController struct {
	sprintService *services.SprintService
}

// NewSprintController creates a new sprint controller
func NewSprintController(sprintService *services.SprintService) *SprintController {
	return &SprintController{sprintService: sprintService}
}

// RegisterRoutes registers sprint, task and delivery routes
func (c *SprintController) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/projects")
	{
		projects.GET("/:id/sprints", c.ListSprints)
		projects.POST("/:id/sprints", c.CreateSprint)
		projects.POST("/:id/sprints/swap", c.SwapSprints)
	}

	sprints := router.Group("/sprints")
	{
		sprints.GET("/:sprintId", c.GetSprint)
		sprints.PUT("/:sprintId", c.UpdateSprint)
		sprints.DELETE("/:sprintId", c.DeleteSprint)
		sprints.POST("/:sprintId/tasks", c.CreateTask)
		sprints.POST("/:sprintId/deliveries", c.CreateDelivery)
	}

	tasks := router.Group("/tasks")
	{
		tasks.PUT("/:taskId", c.UpdateTask)
		tasks.DELETE("/:taskId", c.DeleteTask)
	}

	deliveries := router.Group("/deliveries")
	{
		deliveries.PUT("/:deliveryId", c.UpdateDelivery)
		deliveries.DELETE("/:deliveryId", c.DeleteDelivery)
	}
}

// ListSprints returns the project's sprints ordered by number
func (c *SprintController) ListSprints(ctx *gin.Context) {
	sprints, err := c.sprintService.ListSprints(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, "Failed to retrieve sprints", err)
		return
	}
	respondOK(ctx, http.StatusOK, sprints)
}

func (c *SprintController) GetSprint(ctx *gin.Context) {
	sprint, err := c.sprintService.GetSprint(ctx.Request.Context(), ctx.Param("sprintId"))
	if err != nil {
		respondError(ctx, "Failed to retrieve sprint", err)
		return
	}
	respondOK(ctx, http.StatusOK, sprint)
}

func (c *SprintController) CreateSprint(ctx *gin.Context) {
	var req dto.SprintRequest
	if !bindJSON(ctx, &req) {
		return
	}

	sprint, err := c.sprintService.CreateSprint(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, "Failed to create sprint", err)
		return
	}
	respondOK(ctx, http.StatusCreated, sprint)
}

func (c *SprintController) UpdateSprint(ctx *gin.Context) {
	var req dto.SprintRequest
	if !bindJSON(ctx, &req) {
		return
	}

	sprint, err := c.sprintService.UpdateSprint(ctx.Request.Context(), ctx.Param("sprintId"), req)
	if err != nil {
		respondError(ctx, "Failed to update sprint", err)
		return
	}
	respondOK(ctx, http.StatusOK, sprint)
}

func (c *SprintController) DeleteSprint(ctx *gin.Context) {
	if err := c.sprintService.DeleteSprint(ctx.Request.Context(), ctx.Param("sprintId")); err != nil {
		respondError(ctx, "Failed to delete sprint", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Sprint deleted successfully",
	})
}

// SwapSprints exchanges the numbers of two sprints
func (c *SprintController) SwapSprints(ctx *gin.Context) {
	var req dto.SwapRequest
	if !bindJSON(ctx, &req) {
		return
	}

	sprints, err := c.sprintService.SwapSprints(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, "Failed to reorder sprints", err)
		return
	}
	respondOK(ctx, http.StatusOK, sprints)
}

func (c *SprintController) CreateTask(ctx *gin.Context) {
	var req dto.SprintTaskRequest
	if !bindJSON(ctx, &req) {
		return
	}

	task, err := c.sprintService.CreateTask(ctx.Request.Context(), ctx.Param("sprintId"), req)
	if err != nil {
		respondError(ctx, "Failed to create task", err)
		return
	}
	respondOK(ctx, http.StatusCreated, task)
}

func (c *SprintController) UpdateTask(ctx *gin.Context) {
	var req dto.SprintTaskRequest
	if !bindJSON(ctx, &req) {
		return
	}

	task, err := c.sprintService.UpdateTask(ctx.Request.Context(), ctx.Param("taskId"), req)
	if err != nil {
		respondError(ctx, "Failed to update task", err)
		return
	}
	respondOK(ctx, http.StatusOK, task)
}

func (c *SprintController) DeleteTask(ctx *gin.Context) {
	if err := c.sprintService.DeleteTask(ctx.Request.Context(), ctx.Param("taskId")); err != nil {
		respondError(ctx, "Failed to delete task", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Task deleted successfully",
	})
}

func (c *SprintController) CreateDelivery(ctx *gin.Context) {
	var req dto.SprintDeliveryRequest
	if !bindJSON(ctx, &req) {
		return
	}

	delivery, err := c.sprintService.CreateDelivery(ctx.Request.Context(), ctx.Param("sprintId"), req)
	if err != nil {
		respondError(ctx, "Failed to create delivery", err)
		return
	}
	respondOK(ctx, http.StatusCreated, delivery)
}

// UpdateDelivery stamps deliveredAt when an item is first marked delivered
func (c *SprintController) UpdateDelivery(ctx *gin.Context) {
	var req dto.SprintDeliveryRequest
	if !bindJSON(ctx, &req) {
		return
	}

	delivery, err := c.sprintService.UpdateDelivery(ctx.Request.Context(), ctx.Param("deliveryId"), req)
	if err != nil {
		respondError(ctx, "Failed to update delivery", err)
		return
	}
	respondOK(ctx, http.StatusOK, delivery)
}

func (c *SprintController) DeleteDelivery(ctx *gin.Context) {
	if err := c.sprintService.DeleteDelivery(ctx.Request.Context(), ctx.Param("deliveryId")); err != nil {
		respondError(ctx, "Failed to delete delivery", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Delivery deleted successfully",
	})
}
