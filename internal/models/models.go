package models

import (
	"math"
	"time"
)

// WorkoutType is the category of a logged workout
type WorkoutType string

const (
	WorkoutTypeCardio      WorkoutType = "cardio"
	WorkoutTypeStrength    WorkoutType = "strength"
	WorkoutTypeFlexibility WorkoutType = "flexibility"
	WorkoutTypeSports      WorkoutType = "sports"
	WorkoutTypeOther       WorkoutType = "other"
)

// ValidWorkoutType reports whether t is a known workout type
func ValidWorkoutType(t WorkoutType) bool {
	switch t {
	case WorkoutTypeCardio, WorkoutTypeStrength, WorkoutTypeFlexibility, WorkoutTypeSports, WorkoutTypeOther:
		return true
	}
	return false
}

// Intensity is the perceived effort of a workout
type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
)

// ValidIntensity reports whether i is a known intensity level
func ValidIntensity(i Intensity) bool {
	switch i {
	case IntensityLow, IntensityModerate, IntensityHigh:
		return true
	}
	return false
}

// GoalType is the category of a fitness goal
type GoalType string

const (
	GoalTypeWeight   GoalType = "weight"
	GoalTypeWorkout  GoalType = "workout"
	GoalTypeStrength GoalType = "strength"
	GoalTypeCardio   GoalType = "cardio"
	GoalTypeCustom   GoalType = "custom"
)

// ValidGoalType reports whether t is a known goal type
func ValidGoalType(t GoalType) bool {
	switch t {
	case GoalTypeWeight, GoalTypeWorkout, GoalTypeStrength, GoalTypeCardio, GoalTypeCustom:
		return true
	}
	return false
}

// User represents an account in the system
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserProfile holds the fitness profile attached to a user
type UserProfile struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Name            string     `json:"name"`
	Weight          *float64   `json:"weight,omitempty"`
	Height          *float64   `json:"height,omitempty"`
	FitnessGoals    *string    `json:"fitness_goals,omitempty"`
	Gender          *string    `json:"gender,omitempty"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
	ProfileImageURL *string    `json:"profile_image_url,omitempty"`
	WorkoutsCount   int        `json:"workouts_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// BMI returns the body mass index rounded to 2 decimals,
// or nil when weight or height is missing
func (p *UserProfile) BMI() *float64 {
	if p.Weight == nil || p.Height == nil || *p.Height == 0 {
		return nil
	}
	heightM := *p.Height / 100
	bmi := math.Round(*p.Weight/(heightM*heightM)*100) / 100
	return &bmi
}

// Age returns the age in full years as of today, or nil without a birth date
func (p *UserProfile) Age(today time.Time) *int {
	if p.DateOfBirth == nil {
		return nil
	}
	dob := *p.DateOfBirth
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return &age
}

// Workout represents a single logged workout, owned by exactly one user
type Workout struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	WorkoutType     WorkoutType `json:"workout_type"`
	Intensity       Intensity   `json:"intensity"`
	DurationMinutes int         `json:"duration_minutes"`
	Calories        int         `json:"calories"`
	DateLogged      time.Time   `json:"date_logged"`
	ImageURL        *string     `json:"image_url,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OwnerID implements the ownership accessor used by permission checks
func (w *Workout) OwnerID() string { return w.UserID }

// Goal represents a fitness goal set by a user
type Goal struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Type        GoalType   `json:"type"`
	Description string     `json:"description"`
	Target      string     `json:"target"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// OwnerID implements the ownership accessor used by permission checks
func (g *Goal) OwnerID() string { return g.UserID }

// UserFollow is a directed follow edge, unique per (follower, following) pair
type UserFollow struct {
	ID          string    `json:"id"`
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// WorkoutLike marks that a user liked a workout, unique per (user, workout)
type WorkoutLike struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	WorkoutID string    `json:"workout_id"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkoutComment is a comment left by a user on a workout
type WorkoutComment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	WorkoutID string    `json:"workout_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerID implements the ownership accessor used by permission checks
func (c *WorkoutComment) OwnerID() string { return c.UserID }

// WorkoutPost is a workout shared to the social feed.
// A workout can be shared at most once per author.
type WorkoutPost struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	WorkoutID string    `json:"workout_id"`
	Caption   string    `json:"caption"`
	SharedAt  time.Time `json:"shared_at"`
}

// OwnerID implements the ownership accessor used by permission checks
func (p *WorkoutPost) OwnerID() string { return p.UserID }

// FeedItem is a shared workout annotated with engagement data for a viewer
type FeedItem struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Username        string      `json:"username"`
	WorkoutID       string      `json:"workout_id"`
	Caption         string      `json:"caption"`
	SharedAt        time.Time   `json:"shared_at"`
	Title           string      `json:"title"`
	WorkoutType     WorkoutType `json:"workout_type"`
	DurationMinutes int         `json:"duration_minutes"`
	DateLogged      time.Time   `json:"date_logged"`
	LikesCount      int         `json:"likes_count"`
	CommentsCount   int         `json:"comments_count"`
	HasLiked        bool        `json:"has_liked"`
}
