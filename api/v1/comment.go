package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/donely-api/services"
)

// CommentController handles admin moderation of comments
type CommentController struct {
	commentService *services.CommentService
}

// NewCommentController creates a new comment controller
func NewCommentController(commentService *services.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// RegisterRoutes registers comment moderation routes
func (c *CommentController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/projects/:id/comments", c.ListComments)

	comments := router.Group("/comments")
	{
		comments.PATCH("/:commentId/visibility", c.ToggleVisibility)
		comments.DELETE("/:commentId", c.DeleteComment)
	}
}

// ListComments returns every comment of a project, hidden ones included
func (c *CommentController) ListComments(ctx *gin.Context) {
	comments, err := c.commentService.ListByProject(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, "Failed to retrieve comments", err)
		return
	}
	respondOK(ctx, http.StatusOK, comments)
}

func (c *CommentController) ToggleVisibility(ctx *gin.Context) {
	comment, err := c.commentService.ToggleVisibility(ctx.Request.Context(), ctx.Param("commentId"))
	if err != nil {
		respondError(ctx, "Failed to update comment", err)
		return
	}
	respondOK(ctx, http.StatusOK, comment)
}

func (c *CommentController) DeleteComment(ctx *gin.Context) {
	if err := c.commentService.DeleteComment(ctx.Request.Context(), ctx.Param("commentId")); err != nil {
		respondError(ctx, "Failed to delete comment", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Comment deleted successfully",
	})
}
