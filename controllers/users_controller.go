package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"Chirp/auth"
	"Chirp/models"
	"Chirp/security"
	"Chirp/utils/formaterror"
	"Chirp/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (server *Server) CreateUser(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unable to get request"})
		return
	}
	user := models.User{}
	if err := json.Unmarshal(body, &user); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cannot unmarshal body"})
		return
	}

	user.Prepare()
	if errorMessages := user.Validate(""); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": errorMessages})
		return
	}

	created, err := user.SaveUser(server.DB)
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": formattedError})
		return
	}

	// Log the new user straight in, like the signup view on the frontend expects.
	token, err := auth.CreateToken(created.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": http.StatusCreated,
		"response": gin.H{
			"user":  userToDTO(created),
			"token": token,
		},
	})
}

// UpdateAccount lets the caller change their bio or, with the current
// password verified, set a new one.
func (server *Server) UpdateAccount(c *gin.Context) {
	userID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user := models.User{}
	account, err := user.FindUserByID(server.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading user"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unable to get request"})
		return
	}
	requestBody := map[string]string{}
	if err := json.Unmarshal(body, &requestBody); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cannot unmarshal body"})
		return
	}

	if newPassword, ok := requestBody["new_password"]; ok {
		if len(newPassword) < 6 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Password should be at least 6 characters"})
			return
		}
		if err := security.VerifyPassword(account.Password, requestBody["current_password"]); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Current password is incorrect"})
			return
		}
		change := models.User{Email: account.Email, Password: newPassword}
		if err := change.UpdatePassword(server.DB); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating password"})
			return
		}
	}

	if bio, ok := requestBody["bio"]; ok {
		change := models.User{ID: account.ID, Bio: bio}
		change.Prepare()
		if _, err := change.UpdateBio(server.DB); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating bio"})
			return
		}
		account.Bio = change.Bio
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": userToDTO(account),
	})
}

// DeleteAccount removes the caller and everything they own.
func (server *Server) DeleteAccount(c *gin.Context) {
	userID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user := models.User{}
	if err := user.DeleteAUser(server.DB, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}

	invalidateFeedCache()

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "User deleted",
	})
}

func (server *Server) GetUsers(c *gin.Context) {
	users := []models.User{}
	if err := server.DB.Order("created_at DESC").Limit(100).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching users"})
		return
	}

	dtos := make([]UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, userToDTO(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": dtos,
	})
}

// GetUserProfile serves a user page: the user, their live follow counts, and
// their tweets newest first. It renders for anonymous viewers too; only the
// per-tweet is_liked flags and viewer_follows need an authenticated viewer.
func (server *Server) GetUserProfile(c *gin.Context) {
	user := models.User{}
	profileUser, err := user.FindUserByUsername(server.DB, c.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading user"})
		return
	}

	tweet := models.Tweet{}
	tweets, err := tweet.FindUserTweets(server.DB, profileUser.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching tweets"})
		return
	}

	viewerID, hasViewer := httpctx.OptionalViewerID(c)
	dtos, err := server.decorateTweets(tweets, viewerID, hasViewer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error decorating tweets"})
		return
	}

	followerCount, err := models.CountFollowers(server.DB, profileUser.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting followers"})
		return
	}
	followingCount, err := models.CountFollowing(server.DB, profileUser.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting following"})
		return
	}

	viewerFollows := false
	if hasViewer && viewerID != profileUser.ID {
		viewerFollows, err = models.IsFollowing(server.DB, viewerID, profileUser.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking follow state"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": ProfileDTO{
			UserDTO:        userToDTO(profileUser),
			FollowerCount:  followerCount,
			FollowingCount: followingCount,
			TweetCount:     len(dtos),
			ViewerFollows:  viewerFollows,
			Tweets:         dtos,
		},
	})
}
