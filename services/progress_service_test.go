package services

import (
	"context"
	"testing"
	"time"

	"github.com/sahilchouksey/skills-lab/database/testutil"
	"github.com/sahilchouksey/skills-lab/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type progressFixture struct {
	db     *gorm.DB
	svc    *ProgressService
	user   *model.User
	course *model.Course
}

func newProgressFixture(t *testing.T, topics int, opts ...ProgressOption) progressFixture {
	t.Helper()
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "learner@example.com", model.UserStatusApproved)
	cat := testutil.SeedCategory(t, db, user.ID, "Coding", 0)
	course := testutil.SeedCourse(t, db, user.ID, cat.ID, testutil.Topics(topics))
	return progressFixture{db: db, svc: NewProgressService(db, nil, opts...), user: user, course: course}
}

func TestInitializeRejectsDuplicate(t *testing.T) {
	f := newProgressFixture(t, 3)
	ctx := context.Background()

	p, err := f.svc.Initialize(ctx, f.user.ID, f.course)
	require.NoError(t, err)
	assert.Equal(t, f.course.CategoryID, p.CategoryID)
	assert.Zero(t, p.TotalLearningHours)
	assert.Nil(t, p.CompletedAt)
	assert.Empty(t, p.Completed())

	_, err = f.svc.Initialize(ctx, f.user.ID, f.course)
	assert.ErrorIs(t, err, ErrProgressExists)

	stranger := testutil.SeedUser(t, f.db, "s@example.com", model.UserStatusApproved)
	_, err = f.svc.Initialize(ctx, stranger.ID, f.course)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestMarkTopicCompleteLifecycle(t *testing.T) {
	f := newProgressFixture(t, 3)
	ctx := context.Background()

	p, err := f.svc.Initialize(ctx, f.user.ID, f.course)
	require.NoError(t, err)

	res, err := f.svc.MarkTopicComplete(ctx, f.user.ID, p.ID, "topic-0", 20)
	require.NoError(t, err)
	assert.False(t, res.AlreadyCompleted)
	assert.False(t, res.CourseCompleted)
	assert.InDelta(t, 20.0/60, res.Progress.TotalLearningHours, 1e-9)
	assert.Nil(t, res.Progress.CompletedAt)
	assert.Equal(t, 1, res.Progress.CompletedCount)
	assert.Equal(t, 33, res.Progress.Percent)
	assert.Equal(t, StateInProgress, res.Progress.State)

	// re-completion is a no-op
	again, err := f.svc.MarkTopicComplete(ctx, f.user.ID, p.ID, "topic-0", 30)
	require.NoError(t, err)
	assert.True(t, again.AlreadyCompleted)
	assert.InDelta(t, 20.0/60, again.Progress.TotalLearningHours, 1e-9)

	_, err = f.svc.MarkTopicComplete(ctx, f.user.ID, p.ID, "topic-2", 10)
	require.NoError(t, err)
	last, err := f.svc.MarkTopicComplete(ctx, f.user.ID, p.ID, "topic-1", 10)
	require.NoError(t, err)

	assert.True(t, last.CourseCompleted)
	require.NotNil(t, last.Progress.CompletedAt)
	assert.Equal(t, StateComplete, last.Progress.State)
	assert.Equal(t, 100, last.Progress.Percent)
	assert.InDelta(t, 40.0/60, last.Progress.TotalLearningHours, 1e-9)

	var completions int64
	require.NoError(t, f.db.Model(&model.TopicCompletion{}).Where("progress_id = ?", p.ID).Count(&completions).Error)
	assert.Equal(t, int64(3), completions)

	stored, err := f.svc.Get(ctx, f.user.ID, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.CompletedAt)
	assert.Equal(t, 3, stored.CompletedCount)
}

func TestMarkTopicCompleteErrors(t *testing.T) {
	f := newProgressFixture(t, 2)
	ctx := context.Background()
	p, err := f.svc.Initialize(ctx, f.user.ID, f.course)
	require.NoError(t, err)

	_, err = f.svc.MarkTopicComplete(ctx, f.user.ID, p.ID, "topic-0", 0)
	assert.ErrorIs(t, err, ErrInvalidMinutes)
	_, err = f.svc.MarkTopicComplete(ctx, f.user.ID, p.ID, "topic-0", 241)
	assert.ErrorIs(t, err, ErrInvalidMinutes)

	_, err = f.svc.MarkTopicComplete(ctx, f.user.ID, p.ID, "topic-9", 10)
	assert.ErrorIs(t, err, ErrTopicNotFound)

	_, err = f.svc.MarkTopicComplete(ctx, f.user.ID, p.ID+100, "topic-0", 10)
	assert.ErrorIs(t, err, ErrProgressNotFound)

	// out-of-order completion is accepted unless gating is on
	res, err := f.svc.MarkTopicComplete(ctx, f.user.ID, p.ID, "topic-1", 10)
	require.NoError(t, err)
	assert.True(t, res.Progress.Topics[1].Completed)
	assert.False(t, res.Progress.Topics[1].Unlocked)
	assert.True(t, res.Progress.Topics[0].Unlocked)
}

func TestSequentialGating(t *testing.T) {
	f := newProgressFixture(t, 3, WithSequentialGating(true))
	ctx := context.Background()
	p, err := f.svc.Initialize(ctx, f.user.ID, f.course)
	require.NoError(t, err)

	_, err = f.svc.MarkTopicComplete(ctx, f.user.ID, p.ID, "topic-1", 10)
	assert.ErrorIs(t, err, ErrTopicLocked)

	_, err = f.svc.MarkTopicComplete(ctx, f.user.ID, p.ID, "topic-0", 10)
	require.NoError(t, err)
	res, err := f.svc.MarkTopicComplete(ctx, f.user.ID, p.ID, "topic-1", 10)
	require.NoError(t, err)
	assert.True(t, res.Progress.Topics[2].Unlocked)
}

func TestProgressListAndGetByCourse(t *testing.T) {
	f := newProgressFixture(t, 2)
	ctx := context.Background()

	_, err := f.svc.GetByCourse(ctx, f.user.ID, f.course.ID)
	assert.ErrorIs(t, err, ErrProgressNotFound)

	p, err := f.svc.Initialize(ctx, f.user.ID, f.course)
	require.NoError(t, err)

	view, err := f.svc.GetByCourse(ctx, f.user.ID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, view.ID)
	assert.Equal(t, 2, view.TotalTopics)
	assert.Equal(t, f.course.Title, view.CourseTitle)

	// a progress whose course vanished is skipped
	gone := testutil.SeedCourse(t, f.db, f.user.ID, f.course.CategoryID, testutil.Topics(1))
	testutil.SeedCompletedProgress(t, f.db, gone, time.Now())
	require.NoError(t, f.db.Delete(&model.Course{}, gone.ID).Error)

	list, err := f.svc.List(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)
}
