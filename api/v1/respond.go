package v1

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/donely-api/dto"
	"github.com/donely-api/middleware"
	"github.com/donely-api/models"
	"github.com/donely-api/services"
)

func respondOK(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, gin.H{
		"status": "success",
		"data":   data,
	})
}

// respondError maps service errors onto HTTP statuses
func respondError(ctx *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		log.Printf("Error: %s: %v", message, err)
		ctx.JSON(status, gin.H{
			"status":  "error",
			"message": message,
		})
		return
	}

	ctx.JSON(status, gin.H{
		"status":  "error",
		"message": message,
		"error":   err.Error(),
	})
}

// bindJSON parses the body into req, answering 400 when it is malformed
func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return false
	}
	return true
}

// viewerFrom builds the caller identity set by AuthMiddleware
func viewerFrom(ctx *gin.Context) services.Viewer {
	return services.Viewer{
		UserID: ctx.GetString(middleware.UserIDKey),
		Role:   models.Role(ctx.GetString(middleware.RoleKey)),
	}
}

// listFilter reads the shared pagination query parameters
func listFilter(ctx *gin.Context) dto.ListFilter {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(ctx.DefaultQuery("pageSize", "10"))
	if err != nil || pageSize < 1 {
		pageSize = 10
	}

	return dto.ListFilter{
		Search:    ctx.Query("search"),
		SortBy:    ctx.DefaultQuery("sortBy", "created_at"),
		SortOrder: ctx.DefaultQuery("sortOrder", "desc"),
		Page:      page,
		PageSize:  pageSize,
	}
}
