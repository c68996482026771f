package models

import (
	"html"
	"strings"
	"time"

	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

// FeedPageSize is the fixed page size of the reverse-chronological feed.
const FeedPageSize = 5

type Tweet struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID  string    `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	AuthorID  uint      `gorm:"not null;index;index:idx_tweets_author_created,priority:1" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	Body      string    `gorm:"text;not null;" json:"body"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_tweets_author_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (t *Tweet) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(t.PublicID) == "" {
		t.PublicID = uuid.NewV4().String()
	}
	return nil
}

func (t *Tweet) Prepare() {
	t.ID = 0
	t.Body = html.EscapeString(strings.TrimSpace(t.Body))
	t.Author = User{}
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
}

func (t *Tweet) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if t.Body == "" {
		errorMessages["Required_body"] = "Body is required"
	}
	if t.AuthorID == 0 {
		errorMessages["Required_author"] = "Author is required"
	}
	return errorMessages
}

func (t *Tweet) SaveTweet(db *gorm.DB) (*Tweet, error) {
	if err := db.Create(&t).Error; err != nil {
		return nil, err
	}
	if err := db.Model(t).Association("Author").Find(&t.Author); err != nil {
		return nil, err
	}
	return t, nil
}

// FindFeedPage returns one 1-indexed page of the global feed, newest first.
// Identical timestamps are broken by id so pages never skip or repeat a
// tweet. Pages past the end come back empty, not as an error.
func (t *Tweet) FindFeedPage(db *gorm.DB, page int) ([]Tweet, error) {
	tweets := []Tweet{}
	err := db.Preload("Author").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * FeedPageSize).
		Limit(FeedPageSize).
		Find(&tweets).Error
	if err != nil {
		return nil, err
	}
	return tweets, nil
}

func (t *Tweet) FindTweetByID(db *gorm.DB, tid uint) (*Tweet, error) {
	err := db.Preload("Author").First(&t, tid).Error
	if err != nil {
		return nil, err
	}
	return t, nil
}

// FindUserTweets lists one author's tweets reverse-chronologically.
func (t *Tweet) FindUserTweets(db *gorm.DB, authorID uint) ([]Tweet, error) {
	tweets := []Tweet{}
	err := db.Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Find(&tweets).Error
	if err != nil {
		return nil, err
	}
	return tweets, nil
}

func (t *Tweet) UpdateTweet(db *gorm.DB) (*Tweet, error) {
	err := db.Model(&Tweet{}).Where("id = ?", t.ID).
		Updates(map[string]interface{}{"body": t.Body, "updated_at": time.Now()}).Error
	if err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTweet removes the tweet together with every like edge and comment
// referencing it, in one transaction. A like count queried for the id
// afterwards is a not-found, never a dangling zero.
func (t *Tweet) DeleteTweet(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		like := Like{}
		if _, err := like.DeleteTweetLikes(tx, t.ID); err != nil {
			return err
		}
		comment := Comment{}
		if _, err := comment.DeleteTweetComments(tx, t.ID); err != nil {
			return err
		}
		result := tx.Where("id = ?", t.ID).Delete(&Tweet{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// When a user is deleted, we also delete the tweets that the user had
func (t *Tweet) DeleteUserTweets(db *gorm.DB, authorID uint) (int64, error) {
	result := db.Where("author_id = ?", authorID).Delete(&Tweet{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
