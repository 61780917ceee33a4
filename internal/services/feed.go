package services

import (
	"context"
	"math"
	"sort"
	"time"

	"fittrack-backend/internal/apperr"
	"fittrack-backend/internal/models"
	"fittrack-backend/internal/repository"

	"github.com/google/uuid"
)

// Timeframe restricts the feed to posts shared within a window
type Timeframe string

const (
	TimeframeNone  Timeframe = ""
	TimeframeToday Timeframe = "today"
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
)

// ValidTimeframe reports whether t is a known timeframe
func ValidTimeframe(t Timeframe) bool {
	switch t {
	case TimeframeNone, TimeframeToday, TimeframeWeek, TimeframeMonth:
		return true
	}
	return false
}

// FeedFilters narrow the feed before pagination
type FeedFilters struct {
	Timeframe   Timeframe
	WorkoutType models.WorkoutType // empty means all types
}

// FeedPagination selects one page of the filtered feed
type FeedPagination struct {
	Page     int
	PageSize int
}

const (
	defaultFeedPageSize = 20
	maxFeedPageSize     = 50
	engagementWindow    = 30 * 24 * time.Hour
)

// FeedPage is one page of the aggregated feed
type FeedPage struct {
	Results    []*models.FeedItem `json:"results"`
	NextPage   *int               `json:"next_page"`
	TotalCount int                `json:"total_count"`
}

// BuildFeed assembles the feed page visible to a viewer from candidate
// posts: the viewer's own posts and posts by followed users survive, the
// filters are applied, and the result is ordered by shared_at descending
// with ties broken by id descending so identical inputs always produce
// identical pages.
func BuildFeed(viewerID string, following map[string]struct{}, candidates []*models.FeedItem, filters FeedFilters, p FeedPagination, now time.Time) *FeedPage {
	items := make([]*models.FeedItem, 0, len(candidates))
	for _, it := range candidates {
		if it.UserID != viewerID {
			if _, ok := following[it.UserID]; !ok {
				continue
			}
		}
		if !inTimeframe(it.SharedAt, filters.Timeframe, now) {
			continue
		}
		if filters.WorkoutType != "" && it.WorkoutType != filters.WorkoutType {
			continue
		}
		items = append(items, it)
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].SharedAt.Equal(items[j].SharedAt) {
			return items[i].SharedAt.After(items[j].SharedAt)
		}
		return items[i].ID > items[j].ID
	})

	page := p.Page
	if page < 1 {
		page = 1
	}
	pageSize := p.PageSize
	if pageSize < 1 {
		pageSize = defaultFeedPageSize
	}
	if pageSize > maxFeedPageSize {
		pageSize = maxFeedPageSize
	}

	total := len(items)
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	result := &FeedPage{
		Results:    items[start:end],
		TotalCount: total,
	}
	if (page-1)*pageSize+pageSize < total {
		next := page + 1
		result.NextPage = &next
	}
	return result
}

// inTimeframe reports whether a shared_at timestamp falls inside the
// window ending at now. "today" compares the UTC calendar date; "week"
// and "month" compare elapsed duration.
func inTimeframe(sharedAt time.Time, tf Timeframe, now time.Time) bool {
	switch tf {
	case TimeframeToday:
		return dayOf(sharedAt).Equal(dayOf(now))
	case TimeframeWeek:
		return now.Sub(sharedAt) <= 7*24*time.Hour
	case TimeframeMonth:
		return now.Sub(sharedAt) <= 30*24*time.Hour
	default:
		return true
	}
}

// EngagementRate computes (likes + comments) per post as a percentage,
// rounded to 2 decimals. Zero posts yields 0.0 rather than dividing.
func EngagementRate(posts, likes, comments int) float64 {
	if posts <= 0 {
		return 0.0
	}
	rate := float64(likes+comments) / float64(posts) * 100
	return math.Round(rate*100) / 100
}

type feedPostStore interface {
	Create(ctx context.Context, p *models.WorkoutPost) error
	ListFeedCandidates(ctx context.Context, authorIDs []string, viewerID string) ([]*models.FeedItem, error)
}

type followingLister interface {
	ListFollowingIDs(ctx context.Context, userID string) ([]string, error)
}

type workoutGetter interface {
	GetByID(ctx context.Context, id string) (*models.Workout, error)
}

type engagementCounter interface {
	Engagement(ctx context.Context, userID string, since time.Time) (*repository.EngagementCounts, error)
}

// FeedService handles the social feed: sharing workouts, aggregating the
// feed for a viewer and reporting engagement
type FeedService struct {
	posts      feedPostStore
	social     followingLister
	workouts   workoutGetter
	engagement engagementCounter
	hub        *WSHub
	now        func() time.Time
}

// NewFeedService creates a new feed service
func NewFeedService(posts feedPostStore, social followingLister, workouts workoutGetter, engagement engagementCounter, hub *WSHub) *FeedService {
	return &FeedService{
		posts:      posts,
		social:     social,
		workouts:   workouts,
		engagement: engagement,
		hub:        hub,
		now:        time.Now,
	}
}

// ShareWorkout publishes a workout to the feed. Only the workout's owner
// may share it, and each workout can be shared once.
func (s *FeedService) ShareWorkout(ctx context.Context, userID, workoutID, caption string) (*models.WorkoutPost, error) {
	if workoutID == "" {
		return nil, apperr.InvalidInput("workout_id is required")
	}

	workout, err := s.workouts.GetByID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if workout.OwnerID() != userID {
		return nil, apperr.Forbidden("cannot share someone else's workout")
	}

	post := &models.WorkoutPost{
		ID:        uuid.New().String(),
		UserID:    userID,
		WorkoutID: workoutID,
		Caption:   caption,
		SharedAt:  s.now(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Broadcast(userID, Event{Type: EventPostShared, ActorID: userID, PostID: post.ID, WorkoutID: workoutID})
	}
	return post, nil
}

// GetFeed returns one page of the viewer's feed
func (s *FeedService) GetFeed(ctx context.Context, viewerID string, filters FeedFilters, p FeedPagination) (*FeedPage, error) {
	if p.Page < 0 {
		return nil, apperr.InvalidInput("page must be at least 1")
	}
	if !ValidTimeframe(filters.Timeframe) {
		return nil, apperr.InvalidInput("unknown timeframe")
	}
	if filters.WorkoutType != "" && !models.ValidWorkoutType(filters.WorkoutType) {
		return nil, apperr.InvalidInput("unknown workout type")
	}

	followingIDs, err := s.social.ListFollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	authorIDs := append([]string{viewerID}, followingIDs...)
	candidates, err := s.posts.ListFeedCandidates(ctx, authorIDs, viewerID)
	if err != nil {
		// no partial page on a store failure
		return nil, err
	}

	following := make(map[string]struct{}, len(followingIDs))
	for _, id := range followingIDs {
		following[id] = struct{}{}
	}
	return BuildFeed(viewerID, following, candidates, filters, p, s.now()), nil
}

// EngagementSummary reports a user's engagement rate over the trailing
// 30-day window
type EngagementSummary struct {
	RecentPosts    int     `json:"recent_posts"`
	RecentLikes    int     `json:"recent_likes"`
	RecentComments int     `json:"recent_comments"`
	EngagementRate float64 `json:"engagement_rate"`
}

// GetEngagement computes the engagement summary for a user
func (s *FeedService) GetEngagement(ctx context.Context, userID string) (*EngagementSummary, error) {
	since := s.now().Add(-engagementWindow)
	counts, err := s.engagement.Engagement(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	return &EngagementSummary{
		RecentPosts:    counts.Posts,
		RecentLikes:    counts.Likes,
		RecentComments: counts.Comments,
		EngagementRate: EngagementRate(counts.Posts, counts.Likes, counts.Comments),
	}, nil
}
