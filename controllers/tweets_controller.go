package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"Chirp/cache"
	"Chirp/models"
	"Chirp/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (server *Server) CreateTweet(c *gin.Context) {
	userID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unable to get request"})
		return
	}
	tweet := models.Tweet{}
	if err := json.Unmarshal(body, &tweet); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cannot unmarshal body"})
		return
	}

	tweet.Prepare()
	tweet.AuthorID = userID
	if errorMessages := tweet.Validate(); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": errorMessages})
		return
	}

	created, err := tweet.SaveTweet(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating tweet"})
		return
	}

	invalidateFeedCache()

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": tweetToDTO(created, false, 0),
	})
}

// GetFeed serves the reverse-chronological feed, five tweets per page.
// Pages are 1-indexed; a page past the end is an empty page, not an error.
// Anonymous pages are served from the redis cache when it is warm.
func (server *Server) GetFeed(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
			return
		}
		page = parsed
	}

	viewerID, hasViewer := httpctx.OptionalViewerID(c)

	// Only the undecorated anonymous view is cacheable.
	cacheKey := feedCacheKey(page)
	if !hasViewer {
		if cached, err := cache.Get(context.Background(), cacheKey); err == nil && cached != "" {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			return
		}
	}

	tweet := models.Tweet{}
	tweets, err := tweet.FindFeedPage(server.DB, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching feed"})
		return
	}

	dtos, err := server.decorateTweets(tweets, viewerID, hasViewer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error decorating feed"})
		return
	}

	envelope := gin.H{
		"status":   http.StatusOK,
		"response": FeedPageDTO{Page: page, Tweets: dtos},
	}

	if !hasViewer {
		if jsonBytes, err := json.Marshal(envelope); err == nil {
			_ = cache.Set(context.Background(), cacheKey, jsonBytes, 30*time.Second)
		}
	}

	c.JSON(http.StatusOK, envelope)
}

// GetTweet serves the tweet detail view with comments. The viewer decoration
// handles anonymous and authenticated-but-hasn't-liked as two distinct
// branches; both always yield a valid view.
func (server *Server) GetTweet(c *gin.Context) {
	tid, ok := parseIDParam(c)
	if !ok {
		return
	}

	tweet := models.Tweet{}
	found, err := tweet.FindTweetByID(server.DB, tid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tweet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading tweet"})
		return
	}

	likeCount, err := models.CountTweetLikes(server.DB, found.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting likes"})
		return
	}

	isLiked := false
	if viewerID, hasViewer := httpctx.OptionalViewerID(c); hasViewer {
		isLiked, err = models.IsTweetLikedBy(server.DB, viewerID, found.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking like state"})
			return
		}
	}

	comment := models.Comment{}
	comments, err := comment.GetTweetComments(server.DB, found.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading comments"})
		return
	}
	commentDTOs := make([]CommentDTO, 0, len(*comments))
	for i := range *comments {
		commentDTOs = append(commentDTOs, commentToDTO(&(*comments)[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": TweetDetailDTO{
			TweetDTO: tweetToDTO(found, isLiked, likeCount),
			Comments: commentDTOs,
		},
	})
}

func (server *Server) UpdateTweet(c *gin.Context) {
	userID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tweet, ok := server.authorizeTweetOwner(c, userID)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unable to get request"})
		return
	}
	incoming := models.Tweet{}
	if err := json.Unmarshal(body, &incoming); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cannot unmarshal body"})
		return
	}

	incoming.Prepare()
	incoming.ID = tweet.ID
	incoming.AuthorID = tweet.AuthorID
	if errorMessages := incoming.Validate(); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": errorMessages})
		return
	}

	updated, err := incoming.UpdateTweet(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating tweet"})
		return
	}

	invalidateFeedCache()

	tweet.Body = updated.Body
	tweet.UpdatedAt = time.Now()
	likeCount, _ := models.CountTweetLikes(server.DB, tweet.ID)
	isLiked, _ := models.IsTweetLikedBy(server.DB, userID, tweet.ID)
	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": tweetToDTO(tweet, isLiked, likeCount),
	})
}

func (server *Server) DeleteTweet(c *gin.Context) {
	userID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tweet, ok := server.authorizeTweetOwner(c, userID)
	if !ok {
		return
	}

	if err := tweet.DeleteTweet(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting tweet"})
		return
	}

	invalidateFeedCache()

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Tweet deleted",
	})
}
