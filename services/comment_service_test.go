package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donely-api/dto"
	"github.com/donely-api/models"
)

func TestClientCommentsRequireAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, "Comments")
	client := f.client(t, "c@example.com")
	viewer := Viewer{UserID: client.ID, Role: models.RoleClient}

	_, err := f.comments.CreateComment(ctx, viewer, project.ID, dto.CommentRequest{Content: "hello"})
	assert.True(t, errors.Is(err, ErrForbidden))

	_, err = f.access.Grant(ctx, project.ID, client.ID)
	require.NoError(t, err)

	comment, err := f.comments.CreateComment(ctx, viewer, project.ID, dto.CommentRequest{Content: "  hello  "})
	require.NoError(t, err)
	assert.Equal(t, "hello", comment.Content)
	assert.True(t, comment.Visible)
	assert.Equal(t, client.ID, comment.AuthorID)

	_, err = f.comments.CreateComment(ctx, viewer, project.ID, dto.CommentRequest{Content: "   "})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestCommentOnReportMustBePublished(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, "Reports")
	client := f.client(t, "c@example.com")
	_, err := f.access.Grant(ctx, project.ID, client.ID)
	require.NoError(t, err)
	viewer := Viewer{UserID: client.ID, Role: models.RoleClient}

	draft := f.report(t, project.ID, "Draft", false)
	published := f.report(t, project.ID, "Final", true)

	_, err = f.comments.CreateComment(ctx, viewer, project.ID, dto.CommentRequest{Content: "x", ReportID: &draft.ID})
	assert.True(t, errors.Is(err, ErrNotFound))

	comment, err := f.comments.CreateComment(ctx, viewer, project.ID, dto.CommentRequest{Content: "x", ReportID: &published.ID})
	require.NoError(t, err)
	require.NotNil(t, comment.ReportID)
	assert.Equal(t, published.ID, *comment.ReportID)
}

func TestToggleCommentVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, "Visibility")
	admin := Viewer{UserID: "admin", Role: models.RoleAdmin}

	comment, err := f.comments.CreateComment(ctx, admin, project.ID, dto.CommentRequest{Content: "note"})
	require.NoError(t, err)

	hidden, err := f.comments.ToggleVisibility(ctx, comment.ID)
	require.NoError(t, err)
	assert.False(t, hidden.Visible)
	assert.Equal(t, "note", hidden.Content)

	visibleOnly, err := f.store.Comments().ListByProject(ctx, project.ID, true)
	require.NoError(t, err)
	assert.Empty(t, visibleOnly)

	all, err := f.comments.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Visible)

	shown, err := f.comments.ToggleVisibility(ctx, comment.ID)
	require.NoError(t, err)
	assert.True(t, shown.Visible)

	require.NoError(t, f.comments.DeleteComment(ctx, comment.ID))
	assert.True(t, errors.Is(f.comments.DeleteComment(ctx, comment.ID), ErrNotFound))
}
