package api

import "time"

// Auth Request/Response Types
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// User represents a Touch Grass account
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"display_name"`
	Bio            string    `json:"bio"`
	AvatarURL      string    `json:"avatar_url"`
	XP             int       `json:"xp"`
	Level          int       `json:"level"`
	Streak         int       `json:"streak"`
	FollowerCount  int       `json:"follower_count"`
	FollowingCount int       `json:"following_count"`
	PostCount      int       `json:"post_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProfileResponse wraps a single user
type ProfileResponse struct {
	User User `json:"user"`
}

// MediaType enumerates the kinds of media attached to a post
type MediaType string

const (
	MediaTypeText  MediaType = "text"
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Post is a community feed post, usually proof of a completed challenge
type Post struct {
	ID             string    `json:"id"`
	ClientID       string    `json:"client_id,omitempty"`
	UserID         string    `json:"user_id"`
	AuthorUsername string    `json:"author_username,omitempty"`
	AuthorName     string    `json:"author_name,omitempty"`
	ChallengeID    string    `json:"challenge_id,omitempty"`
	Body           string    `json:"body"`
	MediaType      MediaType `json:"media_type"`
	MediaURL       string    `json:"media_url,omitempty"`
	LikeCount      int       `json:"like_count"`
	CommentCount   int       `json:"comment_count"`
	ViewerHasLiked bool      `json:"viewer_has_liked"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Challenge is a real-world activity users complete for XP
type Challenge struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	XP              int       `json:"xp"`
	CompletionCount int       `json:"completion_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// ContentItemKind enumerates learn-section content kinds
type ContentItemKind string

const (
	ContentKindArticle ContentItemKind = "article"
	ContentKindVideo   ContentItemKind = "video"
)

// ContentItem is an article or video from the learn section
type ContentItem struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Kind      ContentItemKind `json:"kind"`
	URL       string          `json:"url"`
	Duration  int             `json:"duration,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Comment on a post
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// PostListResponse is a paginated list of posts
type PostListResponse struct {
	Posts      []Post `json:"posts"`
	TotalCount int    `json:"total_count"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
}

// CommentListResponse is a paginated list of comments
type CommentListResponse struct {
	Comments   []Comment `json:"comments"`
	TotalCount int       `json:"total_count"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
}

// LikeResponse is the result of a like toggle
type LikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// FollowingResponse lists the ids the current user follows
type FollowingResponse struct {
	UserIDs []string `json:"user_ids"`
}

// LeaderboardEntry is one row of the XP leaderboard
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	XP       int    `json:"xp"`
	Streak   int    `json:"streak"`
}

// LeaderboardResponse is the XP leaderboard
type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
	Period  string             `json:"period"`
}

// StatsResponse is the viewer's XP/streak summary
type StatsResponse struct {
	XP                  int `json:"xp"`
	Level               int `json:"level"`
	Streak              int `json:"streak"`
	LongestStreak       int `json:"longest_streak"`
	ChallengesCompleted int `json:"challenges_completed"`
}

// ErrorResponse is the backend's error envelope
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
