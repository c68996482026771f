package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"Chirp/auth"
	"Chirp/mailer"
	"Chirp/models"
	"Chirp/security"
	"Chirp/utils/formaterror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func (server *Server) Login(c *gin.Context) {
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
	if errorMessages := user.Validate("login"); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": errorMessages})
		return
	}

	userData, err := server.SignIn(user.Email, user.Password)
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": formattedError})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": userData,
	})
}

func (server *Server) SignIn(email, password string) (map[string]interface{}, error) {
	userData := make(map[string]interface{})

	user := models.User{}
	normalizedEmail := strings.ToLower(email)
	err := server.DB.Model(models.User{}).Where("lower(email) = ?", normalizedEmail).Take(&user).Error
	if err != nil {
		return nil, err
	}
	err = security.VerifyPassword(user.Password, password)
	if err != nil && err == bcrypt.ErrMismatchedHashAndPassword {
		return nil, err
	}
	token, err := auth.CreateToken(user.ID)
	if err != nil {
		return nil, err
	}
	userData["token"] = token
	userData["id"] = user.ID
	userData["public_id"] = user.PublicID
	userData["email"] = user.Email
	userData["username"] = user.Username
	userData["avatar_path"] = user.AvatarPath

	return userData, nil
}

// ForgotPassword issues a reset token and mails it. The response does not
// reveal whether the email is registered.
func (server *Server) ForgotPassword(c *gin.Context) {
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
	if errorMessages := user.Validate("forgotpassword"); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": errorMessages})
		return
	}

	accepted := gin.H{
		"status":   http.StatusOK,
		"response": "If the email is registered, a reset link has been sent",
	}

	existing := models.User{}
	err = server.DB.Model(models.User{}).Where("email = ?", user.Email).Take(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, accepted)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading user"})
		return
	}

	resetPassword := models.ResetPassword{Email: existing.Email}
	resetPassword.Prepare()
	resetPassword.Token = uuid.NewString()
	if _, err := resetPassword.SaveDetails(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving reset details"})
		return
	}

	if _, err := mailer.SendResetPassword(
		resetPassword.Email,
		os.Getenv("SENDGRID_FROM"),
		resetPassword.Token,
		os.Getenv("APP_ENV"),
	); err != nil {
		log.Printf("send reset password mail: %v", err)
	}

	c.JSON(http.StatusOK, accepted)
}

func (server *Server) ResetPassword(c *gin.Context) {
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
	token := strings.TrimSpace(requestBody["token"])
	newPassword := requestBody["new_password"]
	retypePassword := requestBody["retype_password"]

	if token == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Required reset token"})
		return
	}
	if len(newPassword) < 6 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Password should be at least 6 characters"})
		return
	}
	if newPassword != retypePassword {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Passwords do not match"})
		return
	}

	resetPassword := models.ResetPassword{}
	details, err := resetPassword.FindByToken(server.DB, token)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid or expired reset token"})
		return
	}

	user := models.User{Email: details.Email, Password: newPassword}
	if err := user.UpdatePassword(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating password"})
		return
	}
	if _, err := details.DeleteDetails(server.DB); err != nil {
		log.Printf("delete reset details: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Password updated, please login",
	})
}
