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

func TestCreateItemAppends(t *testing.T) {
	f := newFixture(t)
	project := f.project(t, "Roadmap")

	a := f.item(t, project.ID, "A", "")
	b := f.item(t, project.ID, "B", "")
	assert.Equal(t, 1, a.OrderIndex)
	assert.Equal(t, 2, b.OrderIndex)
	assert.Equal(t, models.WorkStatusNotStarted, a.Status)
}

func TestCreateItemUnknownProject(t *testing.T) {
	f := newFixture(t)
	_, err := f.roadmap.CreateItem(context.Background(), "missing", dto.RoadmapItemRequest{Title: "A"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSwapItemsExchangesOnlyTwo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, "Swap")
	a := f.item(t, project.ID, "A", "")
	b := f.item(t, project.ID, "B", "")
	c := f.item(t, project.ID, "C", "")

	items, err := f.roadmap.SwapItems(ctx, project.ID, dto.SwapRequest{FirstID: a.ID, SecondID: c.ID})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, []string{items[0].ID, items[1].ID, items[2].ID})

	fetched, err := f.roadmap.GetItem(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fetched.OrderIndex)
}

func TestSwapItemsRejectsInvalidPairs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1 := f.project(t, "One")
	p2 := f.project(t, "Two")
	a := f.item(t, p1.ID, "A", "")
	b := f.item(t, p2.ID, "B", "")

	_, err := f.roadmap.SwapItems(ctx, p1.ID, dto.SwapRequest{FirstID: a.ID, SecondID: a.ID})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = f.roadmap.SwapItems(ctx, p1.ID, dto.SwapRequest{FirstID: a.ID, SecondID: b.ID})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = f.roadmap.SwapItems(ctx, p1.ID, dto.SwapRequest{FirstID: a.ID, SecondID: "missing"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestItemDependencies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, "Deps")
	other := f.project(t, "Other")
	a := f.item(t, project.ID, "A", "")
	foreign := f.item(t, other.ID, "Foreign", "")

	b, err := f.roadmap.CreateItem(ctx, project.ID, dto.RoadmapItemRequest{Title: "B", Dependencies: []string{a.ID, a.ID}})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, []string(b.Dependencies))

	_, err = f.roadmap.UpdateItem(ctx, b.ID, dto.RoadmapItemRequest{Title: "B", Dependencies: []string{b.ID}})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = f.roadmap.CreateItem(ctx, project.ID, dto.RoadmapItemRequest{Title: "C", Dependencies: []string{foreign.ID}})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = f.roadmap.CreateItem(ctx, project.ID, dto.RoadmapItemRequest{Title: "C", Dependencies: []string{"nope"}})
	assert.True(t, errors.Is(err, ErrValidation))

	// Deleting a dependency drops it from dependents
	require.NoError(t, f.roadmap.DeleteItem(ctx, a.ID))
	fetched, err := f.roadmap.GetItem(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.Dependencies)
}

func TestUpdateItemKeepsPosition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, "Update")
	f.item(t, project.ID, "A", "")
	b := f.item(t, project.ID, "B", "")

	updated, err := f.roadmap.UpdateItem(ctx, b.ID, dto.RoadmapItemRequest{
		Title:          "B2",
		Description:    "changed",
		Status:         models.WorkStatusDone,
		EffortEstimate: 3.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.OrderIndex)

	fetched, err := f.roadmap.GetItem(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "B2", fetched.Title)
	assert.Equal(t, "changed", fetched.Description)
	assert.Equal(t, models.WorkStatusDone, fetched.Status)
	assert.Equal(t, 3.5, fetched.EffortEstimate)

	_, err = f.roadmap.UpdateItem(ctx, b.ID, dto.RoadmapItemRequest{Title: "B", Status: "DONE-ISH"})
	assert.True(t, errors.Is(err, ErrValidation))
}
