package controllers

import (
	"errors"
	"net/http"

	"Chirp/models"
	"Chirp/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ToggleLike flips the caller's like on a tweet and answers with the
// resulting state plus the live count, so the client never needs a separate
// read after pressing the button.
func (server *Server) ToggleLike(c *gin.Context) {
	userID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tid, ok := parseIDParam(c)
	if !ok {
		return
	}

	// The target must exist before any mutation is attempted.
	tweet := models.Tweet{}
	if err := server.DB.Select("id").First(&tweet, tid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tweet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading tweet"})
		return
	}

	like := models.Like{UserID: userID, TweetID: tid}
	liked, likeCount, err := like.Toggle(server.DB)
	if err != nil {
		if errors.Is(err, models.ErrToggleRace) {
			c.JSON(http.StatusConflict, gin.H{"error": "Conflicting like toggle, please retry"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error toggling like"})
		return
	}

	invalidateFeedCache()

	c.JSON(http.StatusOK, gin.H{
		"liked":      liked,
		"like_count": likeCount,
	})
}
