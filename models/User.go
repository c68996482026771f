package models

import (
	"html"
	"strings"
	"time"

	"Chirp/security"

	"github.com/badoux/checkmail"
	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID         uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID   string    `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	Username   string    `gorm:"size:255;not null;unique" json:"username"`
	Email      string    `gorm:"size:100;not null;unique" json:"email"`
	Password   string    `gorm:"size:255;not null" json:"password,omitempty"`
	Bio        string    `gorm:"size:500" json:"bio"`
	AvatarPath string    `gorm:"size:255;null;" json:"avatar_path"`
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (u *User) HashPassword() error {
	hashedPassword, err := security.Hash(u.Password)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(u.PublicID) == "" {
		u.PublicID = uuid.NewV4().String()
	}
	return u.HashPassword()
}

func (u *User) Prepare() {
	u.Username = html.EscapeString(strings.ToLower(strings.TrimSpace(u.Username)))
	u.Email = html.EscapeString(strings.ToLower(strings.TrimSpace(u.Email)))
	u.Bio = html.EscapeString(strings.TrimSpace(u.Bio))
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
}

func (u *User) Validate(action string) map[string]string {
	var errorMessages = make(map[string]string)

	switch strings.ToLower(action) {
	case "login":
		if u.Password == "" {
			errorMessages["Required_password"] = "Required Password"
		}
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		}
		if u.Email != "" {
			if err := checkmail.ValidateFormat(u.Email); err != nil {
				errorMessages["Invalid_email"] = "Invalid Email"
			}
		}
	case "forgotpassword":
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		}
		if u.Email != "" {
			if err := checkmail.ValidateFormat(u.Email); err != nil {
				errorMessages["Invalid_email"] = "Invalid Email"
			}
		}
	case "update":
		if u.Email != "" {
			if err := checkmail.ValidateFormat(u.Email); err != nil {
				errorMessages["Invalid_email"] = "Invalid Email"
			}
		}
	default:
		if u.Username == "" {
			errorMessages["Required_username"] = "Required Username"
		}
		if u.Password == "" {
			errorMessages["Required_password"] = "Required Password"
		}
		if len(u.Password) < 6 {
			errorMessages["Invalid_password"] = "Password should be at least 6 characters"
		}
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		}
		if u.Email != "" {
			if err := checkmail.ValidateFormat(u.Email); err != nil {
				errorMessages["Invalid_email"] = "Invalid Email"
			}
		}
	}
	return errorMessages
}

func (u *User) SaveUser(db *gorm.DB) (*User, error) {
	err := db.Create(&u).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) FindUserByID(db *gorm.DB, uid uint) (*User, error) {
	err := db.First(&u, uid).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) FindUserByUsername(db *gorm.DB, username string) (*User, error) {
	normalized := strings.ToLower(strings.TrimSpace(username))
	err := db.Where("username = ?", normalized).First(&u).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) UpdateBio(db *gorm.DB) (*User, error) {
	err := db.Model(&User{}).Where("id = ?", u.ID).
		Updates(map[string]interface{}{"bio": u.Bio, "updated_at": time.Now()}).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteAUser removes the user and everything they own: their tweets with
// every like and comment under them, their own likes and comments elsewhere,
// and every follow edge touching them. One transaction so counts derived
// from edges never see a half-deleted account.
func (u *User) DeleteAUser(db *gorm.DB, uid uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var tweetIDs []uint
		if err := tx.Model(&Tweet{}).Where("author_id = ?", uid).
			Pluck("id", &tweetIDs).Error; err != nil {
			return err
		}
		if len(tweetIDs) > 0 {
			if err := tx.Where("tweet_id IN ?", tweetIDs).Delete(&Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("tweet_id IN ?", tweetIDs).Delete(&Comment{}).Error; err != nil {
				return err
			}
		}

		tweet := Tweet{}
		if _, err := tweet.DeleteUserTweets(tx, uid); err != nil {
			return err
		}
		like := Like{}
		if _, err := like.DeleteUserLikes(tx, uid); err != nil {
			return err
		}
		comment := Comment{}
		if _, err := comment.DeleteUserComments(tx, uid); err != nil {
			return err
		}
		follow := Follow{}
		if _, err := follow.DeleteUserFollows(tx, uid); err != nil {
			return err
		}

		result := tx.Where("id = ?", uid).Delete(&User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (u *User) UpdatePassword(db *gorm.DB) error {
	hashedPassword, err := security.Hash(u.Password)
	if err != nil {
		return err
	}
	return db.Model(&User{}).Where("email = ?", u.Email).
		Updates(map[string]interface{}{"password": string(hashedPassword), "updated_at": time.Now()}).Error
}
