package services

import (
	"context"
	"testing"
	"time"

	"fittrack-backend/internal/apperr"
	"fittrack-backend/internal/cache"
	"fittrack-backend/internal/models"
	"fittrack-backend/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeWorkoutStore struct {
	workouts  map[string]*models.Workout
	statCalls int
}

func newFakeWorkoutStore() *fakeWorkoutStore {
	return &fakeWorkoutStore{workouts: make(map[string]*models.Workout)}
}

func (f *fakeWorkoutStore) Create(_ context.Context, w *models.Workout) error {
	f.workouts[w.ID] = w
	return nil
}

func (f *fakeWorkoutStore) GetByID(_ context.Context, id string) (*models.Workout, error) {
	w, ok := f.workouts[id]
	if !ok {
		return nil, apperr.NotFound("workout not found")
	}
	return w, nil
}

func (f *fakeWorkoutStore) ListByOwner(_ context.Context, userID string, _, _ *time.Time, _, _ int) ([]*models.Workout, int, error) {
	var out []*models.Workout
	for _, w := range f.workouts {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, len(out), nil
}

func (f *fakeWorkoutStore) Update(_ context.Context, w *models.Workout) error {
	f.workouts[w.ID] = w
	return nil
}

func (f *fakeWorkoutStore) Delete(_ context.Context, id string) error {
	delete(f.workouts, id)
	return nil
}

func (f *fakeWorkoutStore) Summary(_ context.Context, _ string, _ time.Time) (*repository.SummaryStats, error) {
	f.statCalls++
	return &repository.SummaryStats{TotalWorkouts: len(f.workouts)}, nil
}

func (f *fakeWorkoutStore) TypeDistribution(_ context.Context, _ string) ([]repository.TypeStats, error) {
	f.statCalls++
	return nil, nil
}

func (f *fakeWorkoutStore) MonthlyTrends(_ context.Context, _ string) ([]repository.MonthStats, error) {
	return nil, nil
}

func (f *fakeWorkoutStore) IntensityDistribution(_ context.Context, _ string) ([]repository.IntensityStats, error) {
	return nil, nil
}

func (f *fakeWorkoutStore) ActiveDates(_ context.Context, userID string, _ time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, w := range f.workouts {
		if w.UserID == userID {
			out = append(out, w.DateLogged)
		}
	}
	return out, nil
}

func (f *fakeWorkoutStore) Recent(_ context.Context, _ string, _ int) ([]*models.Workout, error) {
	return nil, nil
}

func newTestWorkoutService(t *testing.T) (*WorkoutService, *fakeWorkoutStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := newFakeWorkoutStore()
	svc := NewWorkoutService(store, cache.New(rdb))
	svc.now = func() time.Time { return day("2026-08-31") }
	return svc, store
}

func validInput() WorkoutInput {
	return WorkoutInput{
		Title:           "Morning run",
		WorkoutType:     models.WorkoutTypeCardio,
		Intensity:       models.IntensityHigh,
		DurationMinutes: 30,
		Calories:        280,
		DateLogged:      day("2026-08-30"),
	}
}

func TestWorkoutCreateAppliesDefaults(t *testing.T) {
	svc, store := newTestWorkoutService(t)

	in := validInput()
	in.WorkoutType = ""
	in.Intensity = ""

	w, err := svc.Create(context.Background(), "u1", in)
	require.NoError(t, err)
	require.Equal(t, models.WorkoutTypeOther, w.WorkoutType)
	require.Equal(t, models.IntensityModerate, w.Intensity)
	require.Contains(t, store.workouts, w.ID)
}

func TestWorkoutCreateValidation(t *testing.T) {
	svc, _ := newTestWorkoutService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*WorkoutInput)
	}{
		{"missing title", func(in *WorkoutInput) { in.Title = "" }},
		{"unknown type", func(in *WorkoutInput) { in.WorkoutType = "swimming-ish" }},
		{"unknown intensity", func(in *WorkoutInput) { in.Intensity = "extreme" }},
		{"zero duration", func(in *WorkoutInput) { in.DurationMinutes = 0 }},
		{"negative calories", func(in *WorkoutInput) { in.Calories = -1 }},
		{"missing date", func(in *WorkoutInput) { in.DateLogged = time.Time{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Create(ctx, "u1", in)
			require.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
		})
	}
}

func TestWorkoutUpdateOwnerOnly(t *testing.T) {
	svc, _ := newTestWorkoutService(t)
	ctx := context.Background()

	w, err := svc.Create(ctx, "owner", validInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, "intruder", w.ID, validInput())
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	in := validInput()
	in.Title = "Evening run"
	updated, err := svc.Update(ctx, "owner", w.ID, in)
	require.NoError(t, err)
	require.Equal(t, "Evening run", updated.Title)
}

func TestWorkoutDeleteOwnerOnly(t *testing.T) {
	svc, store := newTestWorkoutService(t)
	ctx := context.Background()

	w, err := svc.Create(ctx, "owner", validInput())
	require.NoError(t, err)

	err = svc.Delete(ctx, "intruder", w.ID)
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	require.Contains(t, store.workouts, w.ID)

	require.NoError(t, svc.Delete(ctx, "owner", w.ID))
	require.NotContains(t, store.workouts, w.ID)
}

func TestWorkoutListDateRangeValidation(t *testing.T) {
	svc, _ := newTestWorkoutService(t)

	start := day("2026-08-31")
	end := day("2026-08-01")
	_, _, err := svc.List(context.Background(), "u1", &start, &end, 0, 0)
	require.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestWorkoutSummaryCached(t *testing.T) {
	svc, store := newTestWorkoutService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", validInput())
	require.NoError(t, err)

	first, err := svc.Summary(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, first.TotalWorkouts)
	require.Equal(t, 1, store.statCalls)

	// Second read is served from the cache.
	_, err = svc.Summary(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, store.statCalls)

	// A write invalidates it.
	_, err = svc.Create(ctx, "u1", validInput())
	require.NoError(t, err)

	second, err := svc.Summary(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 2, second.TotalWorkouts)
	require.Equal(t, 2, store.statCalls)
}

func TestWorkoutStatisticsIncludesStreaks(t *testing.T) {
	svc, _ := newTestWorkoutService(t)
	ctx := context.Background()

	in := validInput()
	in.DateLogged = day("2026-08-30")
	_, err := svc.Create(ctx, "u1", in)
	require.NoError(t, err)

	in.DateLogged = day("2026-08-31")
	_, err = svc.Create(ctx, "u1", in)
	require.NoError(t, err)

	stats, err := svc.Statistics(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 2, stats.Streaks.CurrentStreak)
	require.Equal(t, 2, stats.Streaks.TotalActiveDays)
}
