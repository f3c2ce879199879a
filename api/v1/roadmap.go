package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/donely-api/dto"
	"github.com/donely-api/services"
)

// RoadmapController handles roadmap item endpoints
type RoadmapController struct {
	roadmapService *services.RoadmapService
}

// NewRoadmapController creates a new roadmap controller
func NewRoadmapController(roadmapService *services.RoadmapService) *RoadmapController {
	return &RoadmapController{roadmapService: roadmapService}
}

// RegisterRoutes registers roadmap routes
func (c *RoadmapController) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/projects")
	{
		projects.GET("/:id/roadmap", c.ListItems)
		projects.POST("/:id/roadmap", c.CreateItem)
		projects.POST("/:id/roadmap/swap", c.SwapItems)
	}

	items := router.Group("/roadmap")
	{
		items.GET("/:itemId", c.GetItem)
		items.PUT("/:itemId", c.UpdateItem)
		items.DELETE("/:itemId", c.DeleteItem)
	}
}

// ListItems returns the project's roadmap in display order
func (c *RoadmapController) ListItems(ctx *gin.Context) {
	items, err := c.roadmapService.ListItems(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, "Failed to retrieve roadmap", err)
		return
	}
	respondOK(ctx, http.StatusOK, items)
}

func (c *RoadmapController) GetItem(ctx *gin.Context) {
	item, err := c.roadmapService.GetItem(ctx.Request.Context(), ctx.Param("itemId"))
	if err != nil {
		respondError(ctx, "Failed to retrieve roadmap item", err)
		return
	}
	respondOK(ctx, http.StatusOK, item)
}

func (c *RoadmapController) CreateItem(ctx *gin.Context) {
	var req dto.RoadmapItemRequest
	if !bindJSON(ctx, &req) {
		return
	}

	item, err := c.roadmapService.CreateItem(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, "Failed to create roadmap item", err)
		return
	}
	respondOK(ctx, http.StatusCreated, item)
}

func (c *RoadmapController) UpdateItem(ctx *gin.Context) {
	var req dto.RoadmapItemRequest
	if !bindJSON(ctx, &req) {
		return
	}

	item, err := c.roadmapService.UpdateItem(ctx.Request.Context(), ctx.Param("itemId"), req)
	if err != nil {
		respondError(ctx, "Failed to update roadmap item", err)
		return
	}
	respondOK(ctx, http.StatusOK, item)
}

func (c *RoadmapController) DeleteItem(ctx *gin.Context) {
	if err := c.roadmapService.DeleteItem(ctx.Request.Context(), ctx.Param("itemId")); err != nil {
		respondError(ctx, "Failed to delete roadmap item", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Roadmap item deleted successfully",
	})
}

// SwapItems exchanges the positions of two items and returns the reordered roadmap
func (c *RoadmapController) SwapItems(ctx *gin.Context) {
	var req dto.SwapRequest
	if !bindJSON(ctx, &req) {
		return
	}

	items, err := c.roadmapService.SwapItems(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, "Failed to reorder roadmap", err)
		return
	}
	respondOK(ctx, http.StatusOK, items)
}
