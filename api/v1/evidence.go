package v1

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/donely-api/middleware"
	"github.com/donely-api/services"
)

// Multipart fields of an evidence upload
const (
	uploadField = "files"
	taskField   = "sprintTaskId"
)

// EvidenceController handles evidence uploads and downloads
type EvidenceController struct {
	evidenceService *services.EvidenceService
}

// NewEvidenceController creates a new evidence controller
func NewEvidenceController(evidenceService *services.EvidenceService) *EvidenceController {
	return &EvidenceController{evidenceService: evidenceService}
}

// RegisterRoutes registers the admin evidence routes
func (c *EvidenceController) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("/:reportId/evidences", c.ListEvidences)
		reports.POST("/:reportId/evidences", c.Upload)
	}

	router.DELETE("/evidences/:evidenceId", c.DeleteEvidence)
}

// RegisterFileRoute registers the download route shared by admins and clients
func (c *EvidenceController) RegisterFileRoute(router *gin.RouterGroup) {
	router.GET("/evidences/:evidenceId/file", c.DownloadFile)
}

// Upload stores each file of the multipart form. Every file gets its own
// result and a failure never undoes files stored before it.
func (c *EvidenceController) Upload(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid multipart form",
			"error":   err.Error(),
		})
		return
	}

	headers := form.File[uploadField]
	files := make([]services.UploadFile, 0, len(headers))
	for _, header := range headers {
		files = append(files, uploadFileFrom(header))
	}

	var sprintTaskID *string
	if values := form.Value[taskField]; len(values) > 0 && values[0] != "" {
		sprintTaskID = &values[0]
	}

	response, err := c.evidenceService.Upload(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey), ctx.Param("reportId"), sprintTaskID, files)
	if err != nil {
		respondError(ctx, "Failed to upload evidence", err)
		return
	}

	if response.Succeeded == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "No file could be uploaded",
			"data":    response,
		})
		return
	}
	respondOK(ctx, http.StatusCreated, response)
}

func uploadFileFrom(header *multipart.FileHeader) services.UploadFile {
	return services.UploadFile{
		FileName: header.Filename,
		Size:     header.Size,
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

func (c *EvidenceController) ListEvidences(ctx *gin.Context) {
	evidences, err := c.evidenceService.ListByReport(ctx.Request.Context(), ctx.Param("reportId"))
	if err != nil {
		respondError(ctx, "Failed to retrieve evidences", err)
		return
	}
	respondOK(ctx, http.StatusOK, evidences)
}

func (c *EvidenceController) DeleteEvidence(ctx *gin.Context) {
	if err := c.evidenceService.DeleteEvidence(ctx.Request.Context(), ctx.Param("evidenceId")); err != nil {
		respondError(ctx, "Failed to delete evidence", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Evidence deleted successfully",
	})
}

// DownloadFile streams the stored object of an evidence
func (c *EvidenceController) DownloadFile(ctx *gin.Context) {
	evidence, body, err := c.evidenceService.OpenFile(ctx.Request.Context(), viewerFrom(ctx), ctx.Param("evidenceId"))
	if err != nil {
		respondError(ctx, "Failed to open evidence", err)
		return
	}
	defer body.Close()

	ctx.DataFromReader(http.StatusOK, evidence.SizeBytes, evidence.MimeType, body, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", evidence.FileName),
		"Cache-Control":       "private, max-age=3600",
	})
}
