package services

import (
	"context"
	"testing"

	"github.com/sahilchouksey/skills-lab/database/testutil"
	"github.com/sahilchouksey/skills-lab/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreateAppendsAtCount(t *testing.T) {
	db := testutil.DB(t)
	svc := NewCategoryService(db, nil)
	ctx := context.Background()
	u := testutil.SeedUser(t, db, "c@example.com", model.UserStatusApproved)
	other := testutil.SeedUser(t, db, "o@example.com", model.UserStatusApproved)

	a, err := svc.Create(ctx, u.ID, "  Coding ")
	require.NoError(t, err)
	b, err := svc.Create(ctx, u.ID, "Design")
	require.NoError(t, err)
	c, err := svc.Create(ctx, u.ID, "Marketing")
	require.NoError(t, err)

	assert.Equal(t, "Coding", a.Name)
	assert.Equal(t, []int{0, 1, 2}, []int{a.SortOrder, b.SortOrder, c.SortOrder})

	// order is unique per owner only
	x, err := svc.Create(ctx, other.ID, "Coding")
	require.NoError(t, err)
	assert.Equal(t, 0, x.SortOrder)

	// count is 2 after the delete, but order 2 is still taken
	require.NoError(t, svc.Delete(ctx, u.ID, a.ID))
	d, err := svc.Create(ctx, u.ID, "Writing")
	require.NoError(t, err)
	assert.Equal(t, 3, d.SortOrder)

	list, err := svc.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Design", "Marketing", "Writing"}, []string{list[0].Name, list[1].Name, list[2].Name})
}

func TestCategoryRenameAndDelete(t *testing.T) {
	db := testutil.DB(t)
	svc := NewCategoryService(db, nil)
	ctx := context.Background()
	u := testutil.SeedUser(t, db, "c@example.com", model.UserStatusApproved)
	intruder := testutil.SeedUser(t, db, "i@example.com", model.UserStatusApproved)

	cat, err := svc.Create(ctx, u.ID, "Coding")
	require.NoError(t, err)

	_, err = svc.Rename(ctx, intruder.ID, cat.ID, "Mine")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	renamed, err := svc.Rename(ctx, u.ID, cat.ID, "Go Programming")
	require.NoError(t, err)
	assert.Equal(t, "Go Programming", renamed.Name)

	course := testutil.SeedCourse(t, db, u.ID, cat.ID, testutil.Topics(3))

	assert.ErrorIs(t, svc.Delete(ctx, intruder.ID, cat.ID), ErrCategoryNotFound)
	require.NoError(t, svc.Delete(ctx, u.ID, cat.ID))
	assert.ErrorIs(t, svc.Delete(ctx, u.ID, cat.ID), ErrCategoryNotFound)

	var kept model.Course
	require.NoError(t, db.First(&kept, course.ID).Error)
	assert.Equal(t, cat.ID, kept.CategoryID)
}

func TestEnsureDefaults(t *testing.T) {
	db := testutil.DB(t)
	svc := NewCategoryService(db, nil)
	ctx := context.Background()
	u := testutil.SeedUser(t, db, "c@example.com", model.UserStatusApproved)

	first, err := svc.EnsureDefaults(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, first, len(DefaultCategories))
	assert.Equal(t, "Coding", first[0].Name)
	assert.Equal(t, 3, first[3].SortOrder)

	second, err := svc.EnsureDefaults(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, second, len(DefaultCategories))
}
