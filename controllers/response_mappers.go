package controllers

import (
	"Chirp/models"
)

func userToDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		PublicID:   user.PublicID,
		Username:   user.Username,
		Bio:        user.Bio,
		AvatarPath: user.AvatarPath,
		CreatedAt:  user.CreatedAt,
	}
}

func userToSummaryDTO(user *models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

func tweetToDTO(tweet *models.Tweet, isLiked bool, likeCount int64) TweetDTO {
	return TweetDTO{
		ID:        tweet.ID,
		PublicID:  tweet.PublicID,
		Author:    userToSummaryDTO(&tweet.Author),
		Body:      tweet.Body,
		IsLiked:   isLiked,
		LikeCount: likeCount,
		CreatedAt: tweet.CreatedAt,
		UpdatedAt: tweet.UpdatedAt,
	}
}

func commentToDTO(comment *models.Comment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		TweetID:   comment.TweetID,
		ParentID:  comment.ParentID,
		UserID:    comment.UserID,
		Username:  comment.Author.Username,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

// decorateTweets attaches like counts and, for authenticated viewers, the
// is_liked flag to a page of tweets. Anonymous viewers take the explicit
// short-circuit: is_liked stays false and no user-keyed lookup runs.
func (server *Server) decorateTweets(tweets []models.Tweet, viewerID uint, hasViewer bool) ([]TweetDTO, error) {
	dtos := make([]TweetDTO, 0, len(tweets))
	if len(tweets) == 0 {
		return dtos, nil
	}

	ids := make([]uint, len(tweets))
	for i := range tweets {
		ids[i] = tweets[i].ID
	}

	counts := make(map[uint]int64)
	var rows []struct {
		TweetID uint
		Total   int64
	}
	if err := server.DB.Model(&models.Like{}).
		Select("tweet_id, COUNT(*) as total").
		Where("tweet_id IN ?", ids).
		Group("tweet_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.TweetID] = row.Total
	}

	likedMap := map[uint]bool{}
	if hasViewer {
		var err error
		likedMap, err = models.LikedTweetIDs(server.DB, viewerID, ids)
		if err != nil {
			return nil, err
		}
	}

	for i := range tweets {
		dtos = append(dtos, tweetToDTO(&tweets[i], likedMap[tweets[i].ID], counts[tweets[i].ID]))
	}
	return dtos, nil
}
