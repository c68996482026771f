package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"Chirp/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// The ownership gate for tweet and comment mutations. Check order is fixed:
// fetch the entity and fail 404 when absent, then compare the owner to the
// caller and fail 403 on mismatch. 401 is handled upstream by the auth
// middleware, so the three failure kinds stay distinguishable end-to-end.

func (server *Server) authorizeTweetOwner(c *gin.Context, callerID uint) (*models.Tweet, bool) {
	tid, ok := parseIDParam(c)
	if !ok {
		return nil, false
	}

	tweet := models.Tweet{}
	found, err := tweet.FindTweetByID(server.DB, tid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tweet not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading tweet"})
		}
		return nil, false
	}
	if found.AuthorID != callerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this tweet"})
		return nil, false
	}
	return found, true
}

func (server *Server) authorizeCommentOwner(c *gin.Context, callerID uint) (*models.Comment, bool) {
	cid, ok := parseIDParam(c)
	if !ok {
		return nil, false
	}

	comment := models.Comment{}
	found, err := comment.FindCommentByID(server.DB, cid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading comment"})
		}
		return nil, false
	}
	if found.UserID != callerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this comment"})
		return nil, false
	}
	return found, true
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Request"})
		return 0, false
	}
	return uint(id), true
}
