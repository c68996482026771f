package models

import (
	"html"
	"strings"
	"time"

	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID  string    `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	TweetID   uint      `gorm:"not null;index" json:"tweet_id"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Author    User      `gorm:"foreignKey:UserID" json:"author"`
	Body      string    `gorm:"text;not null;" json:"body"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(c.PublicID) == "" {
		c.PublicID = uuid.NewV4().String()
	}
	return nil
}

func (c *Comment) Prepare() {
	c.ID = 0
	c.Body = html.EscapeString(strings.TrimSpace(c.Body))
	c.Author = User{}
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
}

func (c *Comment) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if c.Body == "" {
		errorMessages["Required_body"] = "Body is required"
	}
	if c.UserID == 0 {
		errorMessages["Required_user"] = "User is required"
	}
	if c.TweetID == 0 {
		errorMessages["Required_tweet"] = "Tweet is required"
	}
	return errorMessages
}

func (c *Comment) SaveComment(db *gorm.DB) (*Comment, error) {
	err := db.Create(&c).Error
	if err != nil {
		return nil, err
	}
	if err := db.Model(c).Association("Author").Find(&c.Author); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Comment) GetTweetComments(db *gorm.DB, tweetID uint) (*[]Comment, error) {
	comments := []Comment{}
	// Preload the comment author's information so the username is available
	err := db.Preload("Author").Where("tweet_id = ?", tweetID).
		Order("created_at desc").Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return &comments, nil
}

func (c *Comment) FindCommentByID(db *gorm.DB, cid uint) (*Comment, error) {
	err := db.First(&c, cid).Error
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Comment) UpdateAComment(db *gorm.DB) (*Comment, error) {
	err := db.Model(&Comment{}).Where("id = ?", c.ID).
		Updates(map[string]interface{}{"body": c.Body, "updated_at": time.Now()}).Error
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteAComment removes the comment and cascade-deletes its replies.
// Cascading was chosen over orphaning so reply listings never reference a
// parent that no longer exists.
func (c *Comment) DeleteAComment(db *gorm.DB) (int64, error) {
	var affected int64
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", c.ID).Delete(&Comment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", c.ID).Delete(&Comment{})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// When a user is deleted, we also delete the comments that the user had
func (c *Comment) DeleteUserComments(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("user_id = ?", uid).Delete(&Comment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// When a tweet is deleted, we also delete the comments that the tweet had
func (c *Comment) DeleteTweetComments(db *gorm.DB, tweetID uint) (int64, error) {
	result := db.Where("tweet_id = ?", tweetID).Delete(&Comment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
