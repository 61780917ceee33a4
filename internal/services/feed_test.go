package services

import (
	"context"
	"testing"
	"time"

	"fittrack-backend/internal/apperr"
	"fittrack-backend/internal/models"
	"fittrack-backend/internal/repository"

	"github.com/stretchr/testify/require"
)

func feedItem(id, userID string, sharedAt time.Time, workoutType models.WorkoutType) *models.FeedItem {
	return &models.FeedItem{
		ID:          id,
		UserID:      userID,
		WorkoutID:   "w-" + id,
		SharedAt:    sharedAt,
		WorkoutType: workoutType,
	}
}

func TestBuildFeedExcludesUnfollowedAuthors(t *testing.T) {
	now := day("2026-08-31")
	following := map[string]struct{}{"friend": {}}
	candidates := []*models.FeedItem{
		feedItem("p1", "viewer", now, models.WorkoutTypeCardio),
		feedItem("p2", "friend", now, models.WorkoutTypeCardio),
		feedItem("p3", "stranger", now, models.WorkoutTypeCardio),
	}

	page := BuildFeed("viewer", following, candidates, FeedFilters{}, FeedPagination{}, now)

	require.Equal(t, 2, page.TotalCount)
	for _, it := range page.Results {
		require.NotEqual(t, "stranger", it.UserID)
	}
}

func TestBuildFeedOrdersBySharedAtThenID(t *testing.T) {
	now := day("2026-08-31")
	earlier := now.Add(-2 * time.Hour)
	candidates := []*models.FeedItem{
		feedItem("a", "viewer", now, models.WorkoutTypeCardio),
		feedItem("c", "viewer", earlier, models.WorkoutTypeCardio),
		feedItem("b", "viewer", now, models.WorkoutTypeCardio),
	}

	page := BuildFeed("viewer", nil, candidates, FeedFilters{}, FeedPagination{}, now)

	require.Len(t, page.Results, 3)
	require.Equal(t, "b", page.Results[0].ID) // same shared_at, higher id first
	require.Equal(t, "a", page.Results[1].ID)
	require.Equal(t, "c", page.Results[2].ID)

	// Identical inputs produce identical pages.
	again := BuildFeed("viewer", nil, candidates, FeedFilters{}, FeedPagination{}, now)
	require.Equal(t, page.Results, again.Results)
}

func TestBuildFeedTimeframeFilters(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	candidates := []*models.FeedItem{
		feedItem("today", "viewer", now.Add(-3*time.Hour), models.WorkoutTypeCardio),
		feedItem("this-week", "viewer", now.Add(-5*24*time.Hour), models.WorkoutTypeCardio),
		feedItem("this-month", "viewer", now.Add(-20*24*time.Hour), models.WorkoutTypeCardio),
		feedItem("ancient", "viewer", now.Add(-60*24*time.Hour), models.WorkoutTypeCardio),
	}

	cases := []struct {
		timeframe Timeframe
		want      int
	}{
		{TimeframeNone, 4},
		{TimeframeToday, 1},
		{TimeframeWeek, 2},
		{TimeframeMonth, 3},
	}
	for _, tc := range cases {
		page := BuildFeed("viewer", nil, candidates, FeedFilters{Timeframe: tc.timeframe}, FeedPagination{}, now)
		require.Equal(t, tc.want, page.TotalCount, "timeframe %q", tc.timeframe)
	}
}

func TestBuildFeedTodayIsCalendarDay(t *testing.T) {
	// 23:30 yesterday is within 24h of 00:30 today but not the same
	// calendar day, so "today" excludes it.
	now := time.Date(2026, 8, 31, 0, 30, 0, 0, time.UTC)
	lateYesterday := time.Date(2026, 8, 30, 23, 30, 0, 0, time.UTC)
	candidates := []*models.FeedItem{feedItem("p1", "viewer", lateYesterday, models.WorkoutTypeCardio)}

	page := BuildFeed("viewer", nil, candidates, FeedFilters{Timeframe: TimeframeToday}, FeedPagination{}, now)
	require.Equal(t, 0, page.TotalCount)
}

func TestBuildFeedWorkoutTypeFilter(t *testing.T) {
	now := day("2026-08-31")
	candidates := []*models.FeedItem{
		feedItem("p1", "viewer", now, models.WorkoutTypeCardio),
		feedItem("p2", "viewer", now, models.WorkoutTypeStrength),
	}

	page := BuildFeed("viewer", nil, candidates, FeedFilters{WorkoutType: models.WorkoutTypeStrength}, FeedPagination{}, now)

	require.Equal(t, 1, page.TotalCount)
	require.Equal(t, "p2", page.Results[0].ID)
}

func TestBuildFeedPagination(t *testing.T) {
	now := day("2026-08-31")
	candidates := make([]*models.FeedItem, 0, 45)
	for i := 0; i < 45; i++ {
		candidates = append(candidates, feedItem(
			string(rune('a'+i%26))+string(rune('a'+i/26)), "viewer",
			now.Add(-time.Duration(i)*time.Minute), models.WorkoutTypeCardio,
		))
	}

	first := BuildFeed("viewer", nil, candidates, FeedFilters{}, FeedPagination{Page: 1}, now)
	require.Len(t, first.Results, defaultFeedPageSize)
	require.Equal(t, 45, first.TotalCount)
	require.NotNil(t, first.NextPage)
	require.Equal(t, 2, *first.NextPage)

	last := BuildFeed("viewer", nil, candidates, FeedFilters{}, FeedPagination{Page: 3}, now)
	require.Len(t, last.Results, 5)
	require.Nil(t, last.NextPage)

	beyond := BuildFeed("viewer", nil, candidates, FeedFilters{}, FeedPagination{Page: 10}, now)
	require.Empty(t, beyond.Results)
	require.Nil(t, beyond.NextPage)

	clamped := BuildFeed("viewer", nil, candidates, FeedFilters{}, FeedPagination{Page: 1, PageSize: 500}, now)
	require.Len(t, clamped.Results, 45) // capped at maxFeedPageSize, which covers all 45
	require.Nil(t, clamped.NextPage)
}

func TestEngagementRate(t *testing.T) {
	require.Equal(t, 0.0, EngagementRate(0, 10, 10))
	require.Equal(t, 0.0, EngagementRate(-1, 10, 10))
	require.Equal(t, 100.0, EngagementRate(5, 3, 2))
	require.Equal(t, 66.67, EngagementRate(3, 1, 1))
	require.Equal(t, 250.0, EngagementRate(2, 4, 1))
}

type stubPostStore struct {
	created    []*models.WorkoutPost
	createErr  error
	candidates []*models.FeedItem
	listErr    error
}

func (s *stubPostStore) Create(_ context.Context, p *models.WorkoutPost) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, p)
	return nil
}

func (s *stubPostStore) ListFeedCandidates(_ context.Context, _ []string, _ string) ([]*models.FeedItem, error) {
	return s.candidates, s.listErr
}

type stubFollowing struct {
	ids []string
	err error
}

func (s *stubFollowing) ListFollowingIDs(_ context.Context, _ string) ([]string, error) {
	return s.ids, s.err
}

type stubWorkouts struct {
	workout *models.Workout
	err     error
}

func (s *stubWorkouts) GetByID(_ context.Context, _ string) (*models.Workout, error) {
	return s.workout, s.err
}

type stubEngagement struct {
	counts *repository.EngagementCounts
	err    error
}

func (s *stubEngagement) Engagement(_ context.Context, _ string, _ time.Time) (*repository.EngagementCounts, error) {
	return s.counts, s.err
}

func newTestFeedService(posts *stubPostStore, social *stubFollowing, workouts *stubWorkouts, engagement *stubEngagement) *FeedService {
	svc := NewFeedService(posts, social, workouts, engagement, nil)
	svc.now = func() time.Time { return day("2026-08-31") }
	return svc
}

func TestShareWorkout(t *testing.T) {
	posts := &stubPostStore{}
	workouts := &stubWorkouts{workout: &models.Workout{ID: "w1", UserID: "owner"}}
	svc := newTestFeedService(posts, &stubFollowing{}, workouts, &stubEngagement{})

	post, err := svc.ShareWorkout(context.Background(), "owner", "w1", "leg day")
	require.NoError(t, err)
	require.Equal(t, "owner", post.UserID)
	require.Equal(t, "w1", post.WorkoutID)
	require.Equal(t, "leg day", post.Caption)
	require.Len(t, posts.created, 1)
}

func TestShareWorkoutRequiresOwnership(t *testing.T) {
	posts := &stubPostStore{}
	workouts := &stubWorkouts{workout: &models.Workout{ID: "w1", UserID: "owner"}}
	svc := newTestFeedService(posts, &stubFollowing{}, workouts, &stubEngagement{})

	_, err := svc.ShareWorkout(context.Background(), "intruder", "w1", "")
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	require.Empty(t, posts.created)
}

func TestShareWorkoutValidation(t *testing.T) {
	svc := newTestFeedService(&stubPostStore{}, &stubFollowing{}, &stubWorkouts{}, &stubEngagement{})

	_, err := svc.ShareWorkout(context.Background(), "u1", "", "")
	require.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestShareWorkoutMissingWorkout(t *testing.T) {
	workouts := &stubWorkouts{err: apperr.NotFound("workout not found")}
	svc := newTestFeedService(&stubPostStore{}, &stubFollowing{}, workouts, &stubEngagement{})

	_, err := svc.ShareWorkout(context.Background(), "u1", "missing", "")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGetFeedRejectsUnknownFilters(t *testing.T) {
	svc := newTestFeedService(&stubPostStore{}, &stubFollowing{}, &stubWorkouts{}, &stubEngagement{})

	_, err := svc.GetFeed(context.Background(), "u1", FeedFilters{Timeframe: "year"}, FeedPagination{})
	require.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = svc.GetFeed(context.Background(), "u1", FeedFilters{WorkoutType: "yoga"}, FeedPagination{})
	require.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestGetFeedIncludesOwnAndFollowedPosts(t *testing.T) {
	now := day("2026-08-31")
	posts := &stubPostStore{candidates: []*models.FeedItem{
		feedItem("p1", "viewer", now, models.WorkoutTypeCardio),
		feedItem("p2", "friend", now.Add(-time.Hour), models.WorkoutTypeCardio),
	}}
	svc := newTestFeedService(posts, &stubFollowing{ids: []string{"friend"}}, &stubWorkouts{}, &stubEngagement{})

	page, err := svc.GetFeed(context.Background(), "viewer", FeedFilters{}, FeedPagination{})
	require.NoError(t, err)
	require.Equal(t, 2, page.TotalCount)
}

func TestGetFeedNoPartialPageOnStoreError(t *testing.T) {
	posts := &stubPostStore{listErr: apperr.Unavailable("database unavailable", nil)}
	svc := newTestFeedService(posts, &stubFollowing{}, &stubWorkouts{}, &stubEngagement{})

	page, err := svc.GetFeed(context.Background(), "viewer", FeedFilters{}, FeedPagination{})
	require.Error(t, err)
	require.Nil(t, page)
}

func TestGetEngagement(t *testing.T) {
	engagement := &stubEngagement{counts: &repository.EngagementCounts{Posts: 4, Likes: 6, Comments: 2}}
	svc := newTestFeedService(&stubPostStore{}, &stubFollowing{}, &stubWorkouts{}, engagement)

	summary, err := svc.GetEngagement(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 4, summary.RecentPosts)
	require.Equal(t, 6, summary.RecentLikes)
	require.Equal(t, 2, summary.RecentComments)
	require.Equal(t, 200.0, summary.EngagementRate)
}

func TestGetEngagementNoPosts(t *testing.T) {
	engagement := &stubEngagement{counts: &repository.EngagementCounts{}}
	svc := newTestFeedService(&stubPostStore{}, &stubFollowing{}, &stubWorkouts{}, engagement)

	summary, err := svc.GetEngagement(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 0.0, summary.EngagementRate)
}
