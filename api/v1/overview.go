package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/donely-api/services"
)

// OverviewController serves the admin client-centered tree
type OverviewController struct {
	overviewService *services.OverviewService
}

// NewOverviewController creates a new overview controller
func NewOverviewController(overviewService *services.OverviewService) *OverviewController {
	return &OverviewController{overviewService: overviewService}
}

// RegisterRoutes registers overview routes
func (c *OverviewController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/overview", c.GetOverview)
}

func (c *OverviewController) GetOverview(ctx *gin.Context) {
	overview, err := c.overviewService.GetOverview(ctx.Request.Context())
	if err != nil {
		respondError(ctx, "Failed to build overview", err)
		return
	}
	respondOK(ctx, http.StatusOK, overview)
}
