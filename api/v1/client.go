package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/donely-api/dto"
	"github.com/donely-api/services"
)

// ClientController handles admin management of client accounts
type ClientController struct {
	clientService *services.ClientService
}

// NewClientController creates a new client controller
func NewClientController(clientService *services.ClientService) *ClientController {
	return &ClientController{clientService: clientService}
}

// RegisterRoutes registers client routes
func (c *ClientController) RegisterRoutes(router *gin.RouterGroup) {
	clients := router.Group("/clients")
	{
		clients.GET("", c.ListClients)
		clients.POST("", c.CreateClient)
		clients.GET("/:id", c.GetClient)
		clients.PUT("/:id", c.UpdateClient)
		clients.PATCH("/:id/toggle", c.ToggleActive)
		clients.DELETE("/:id", c.DeleteClient)
		clients.GET("/:id/access", c.ListClientAccess)
	}
}

// ListClients returns a page of clients
func (c *ClientController) ListClients(ctx *gin.Context) {
	response, err := c.clientService.ListClients(ctx.Request.Context(), listFilter(ctx))
	if err != nil {
		respondError(ctx, "Failed to retrieve clients", err)
		return
	}
	respondOK(ctx, http.StatusOK, response)
}

func (c *ClientController) GetClient(ctx *gin.Context) {
	client, err := c.clientService.GetClient(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, "Failed to retrieve client", err)
		return
	}
	respondOK(ctx, http.StatusOK, client)
}

// CreateClient registers a client. A generated password is only returned here.
func (c *ClientController) CreateClient(ctx *gin.Context) {
	var req dto.CreateClientRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.clientService.CreateClient(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, "Failed to create client", err)
		return
	}
	respondOK(ctx, http.StatusCreated, response)
}

func (c *ClientController) UpdateClient(ctx *gin.Context) {
	var req dto.UpdateClientRequest
	if !bindJSON(ctx, &req) {
		return
	}

	client, err := c.clientService.UpdateClient(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, "Failed to update client", err)
		return
	}
	respondOK(ctx, http.StatusOK, client)
}

func (c *ClientController) ToggleActive(ctx *gin.Context) {
	client, err := c.clientService.ToggleActive(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, "Failed to toggle client", err)
		return
	}
	respondOK(ctx, http.StatusOK, client)
}

func (c *ClientController) DeleteClient(ctx *gin.Context) {
	if err := c.clientService.DeleteClient(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, "Failed to delete client", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Client deleted successfully",
	})
}

func (c *ClientController) ListClientAccess(ctx *gin.Context) {
	access, err := c.clientService.ListClientAccess(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, "Failed to retrieve client access", err)
		return
	}
	respondOK(ctx, http.StatusOK, access)
}
