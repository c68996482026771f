package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Like struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_likes_user_tweet" json:"user_id"`
	TweetID   uint      `gorm:"not null;index;uniqueIndex:idx_likes_user_tweet" json:"tweet_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Toggle flips the like edge for (UserID, TweetID) and returns the resulting
// state plus the live like count for the tweet. The flip runs inside a
// transaction: an insert guarded by the unique index, falling through to a
// delete when the edge already exists. A delete that affects no rows means a
// concurrent toggle got there first; the whole attempt is retried once.
func (l *Like) Toggle(db *gorm.DB) (bool, int64, error) {
	liked := false

	attempt := func() error {
		return db.Transaction(func(tx *gorm.DB) error {
			edge := Like{UserID: l.UserID, TweetID: l.TweetID}
			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				liked = true
				return nil
			}
			// Edge already exists, so this toggle removes it.
			deleted := tx.Where("user_id = ? AND tweet_id = ?", l.UserID, l.TweetID).
				Delete(&Like{})
			if deleted.Error != nil {
				return deleted.Error
			}
			if deleted.RowsAffected == 0 {
				return ErrToggleRace
			}
			liked = false
			return nil
		})
	}

	err := attempt()
	if errors.Is(err, ErrToggleRace) {
		err = attempt()
	}
	if err != nil {
		return false, 0, err
	}

	count, err := CountTweetLikes(db, l.TweetID)
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

// CountTweetLikes counts live like edges; there is no stored counter to
// fall out of sync.
func CountTweetLikes(db *gorm.DB, tweetID uint) (int64, error) {
	var count int64
	err := db.Model(&Like{}).Where("tweet_id = ?", tweetID).Count(&count).Error
	return count, err
}

// IsTweetLikedBy reports whether a like edge exists for (userID, tweetID).
func IsTweetLikedBy(db *gorm.DB, userID, tweetID uint) (bool, error) {
	var count int64
	err := db.Model(&Like{}).
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Count(&count).Error
	return count > 0, err
}

// LikedTweetIDs returns, for one viewer, which of the given tweets carry a
// like edge. Callers must short-circuit before this for anonymous viewers.
func LikedTweetIDs(db *gorm.DB, userID uint, tweetIDs []uint) (map[uint]bool, error) {
	likedMap := make(map[uint]bool)
	if len(tweetIDs) == 0 {
		return likedMap, nil
	}
	var ids []uint
	if err := db.Model(&Like{}).
		Select("tweet_id").
		Where("user_id = ? AND tweet_id IN ?", userID, tweetIDs).
		Scan(&ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		likedMap[id] = true
	}
	return likedMap, nil
}

// When a tweet is deleted, we also delete the likes that the tweet had
func (l *Like) DeleteTweetLikes(db *gorm.DB, tweetID uint) (int64, error) {
	result := db.Where("tweet_id = ?", tweetID).Delete(&Like{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// When a user is deleted, we also delete the likes that the user had
func (l *Like) DeleteUserLikes(db *gorm.DB, userID uint) (int64, error) {
	result := db.Where("user_id = ?", userID).Delete(&Like{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
