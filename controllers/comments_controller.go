package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"Chirp/models"
	"Chirp/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (server *Server) CreateComment(c *gin.Context) {
	userID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tid, ok := parseIDParam(c)
	if !ok {
		return
	}

	tweet := models.Tweet{}
	if err := server.DB.Select("id").First(&tweet, tid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tweet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading tweet"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unable to get request"})
		return
	}
	comment := models.Comment{}
	if err := json.Unmarshal(body, &comment); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cannot unmarshal body"})
		return
	}

	comment.Prepare()
	comment.UserID = userID
	comment.TweetID = tid

	// A reply must point at a live comment under the same tweet.
	if comment.ParentID != nil {
		parent := models.Comment{}
		if err := server.DB.First(&parent, *comment.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Parent comment not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading parent comment"})
			return
		}
		if parent.TweetID != tid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent comment belongs to another tweet"})
			return
		}
	}

	if errorMessages := comment.Validate(); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": errorMessages})
		return
	}

	created, err := comment.SaveComment(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": commentToDTO(created),
	})
}

func (server *Server) GetComments(c *gin.Context) {
	tid, ok := parseIDParam(c)
	if !ok {
		return
	}

	tweet := models.Tweet{}
	if err := server.DB.Select("id").First(&tweet, tid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tweet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading tweet"})
		return
	}

	comment := models.Comment{}
	comments, err := comment.GetTweetComments(server.DB, tid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading comments"})
		return
	}

	dtos := make([]CommentDTO, 0, len(*comments))
	for i := range *comments {
		dtos = append(dtos, commentToDTO(&(*comments)[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": dtos,
	})
}

func (server *Server) UpdateComment(c *gin.Context) {
	userID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	comment, ok := server.authorizeCommentOwner(c, userID)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unable to get request"})
		return
	}
	incoming := models.Comment{}
	if err := json.Unmarshal(body, &incoming); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cannot unmarshal body"})
		return
	}

	incoming.Prepare()
	incoming.ID = comment.ID
	incoming.UserID = comment.UserID
	incoming.TweetID = comment.TweetID
	if errorMessages := incoming.Validate(); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": errorMessages})
		return
	}

	if _, err := incoming.UpdateAComment(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating comment"})
		return
	}

	comment.Body = incoming.Body
	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": commentToDTO(comment),
	})
}

func (server *Server) DeleteComment(c *gin.Context) {
	userID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	comment, ok := server.authorizeCommentOwner(c, userID)
	if !ok {
		return
	}

	if _, err := comment.DeleteAComment(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Comment deleted",
	})
}
