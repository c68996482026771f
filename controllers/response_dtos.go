package controllers

import "time"

type UserDTO struct {
	ID         uint      `json:"id"`
	PublicID   string    `json:"public_id"`
	Username   string    `json:"username"`
	Bio        string    `json:"bio"`
	AvatarPath string    `json:"avatar_path"`
	CreatedAt  time.Time `json:"created_at"`
}

type UserSummaryDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type ProfileDTO struct {
	UserDTO
	FollowerCount  int64      `json:"follower_count"`
	FollowingCount int64      `json:"following_count"`
	TweetCount     int        `json:"tweet_count"`
	ViewerFollows  bool       `json:"viewer_follows"`
	Tweets         []TweetDTO `json:"tweets"`
}

type FollowUserDTO struct {
	UserDTO
	ViewerFollowing  bool `json:"viewer_following"`
	ViewerFollowedBy bool `json:"viewer_followed_by"`
	Mutual           bool `json:"mutual"`
}

type TweetDTO struct {
	ID        uint           `json:"id"`
	PublicID  string         `json:"public_id"`
	Author    UserSummaryDTO `json:"author"`
	Body      string         `json:"body"`
	IsLiked   bool           `json:"is_liked"`
	LikeCount int64          `json:"like_count"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type TweetDetailDTO struct {
	TweetDTO
	Comments []CommentDTO `json:"comments"`
}

type CommentDTO struct {
	ID        uint      `json:"id"`
	TweetID   uint      `json:"tweet_id"`
	ParentID  *uint     `json:"parent_id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FeedPageDTO struct {
	Page   int        `json:"page"`
	Tweets []TweetDTO `json:"tweets"`
}
