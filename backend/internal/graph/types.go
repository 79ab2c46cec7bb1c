package graph

import "time"

// ============================================================================
// Social Graph Types
// ============================================================================

// User represents a user node
type User struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserSummary is the projection returned by adjacency queries
type UserSummary struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// CreatedPost is returned by CreatePost
type CreatedPost struct {
	PostID         string    `json:"postId"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
	AuthorUsername string    `json:"authorUsername"`
	Tags           []string  `json:"tags"`
}

// Post is a post joined with its author and tags
type Post struct {
	PostID    string      `json:"postId"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
	Author    UserSummary `json:"author"`
	Tags      []string    `json:"tags"`
}

// Recommendation is a post liked by the likers of another post
type Recommendation struct {
	PostID            string    `json:"postId"`
	Content           string    `json:"content"`
	AuthorUsername    string    `json:"authorUsername"`
	CommonLikersCount int64     `json:"commonLikersCount"`
	Tags              []string  `json:"tags"`
	CreatedAt         time.Time `json:"createdAt"`
}
