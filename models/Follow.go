package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Follow struct {
	ID         uint      `gorm:"primary_key;autoIncrement" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follows_unique;index:idx_follows_follower_created,priority:1" json:"follower_id"`
	FollowedID uint      `gorm:"not null;index;uniqueIndex:idx_follows_unique;index:idx_follows_followed_created,priority:1" json:"followed_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_follows_followed_created,priority:2;index:idx_follows_follower_created,priority:2" json:"created_at"`
}

// Toggle flips the follow edge for (FollowerID, FollowedID) and returns the
// resulting state plus the target's live follower and following counts.
// Self-follow fails before any mutation. The flip uses the same
// insert-or-delete transaction as Like.Toggle, retried once on a lost race.
func (f *Follow) Toggle(db *gorm.DB) (bool, int64, int64, error) {
	if f.FollowerID == f.FollowedID {
		return false, 0, 0, ErrSelfFollow
	}

	following := false

	attempt := func() error {
		return db.Transaction(func(tx *gorm.DB) error {
			edge := Follow{FollowerID: f.FollowerID, FollowedID: f.FollowedID}
			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				following = true
				return nil
			}
			deleted := tx.Where("follower_id = ? AND followed_id = ?", f.FollowerID, f.FollowedID).
				Delete(&Follow{})
			if deleted.Error != nil {
				return deleted.Error
			}
			if deleted.RowsAffected == 0 {
				return ErrToggleRace
			}
			following = false
			return nil
		})
	}

	err := attempt()
	if errors.Is(err, ErrToggleRace) {
		err = attempt()
	}
	if err != nil {
		return false, 0, 0, err
	}

	followerCount, err := CountFollowers(db, f.FollowedID)
	if err != nil {
		return false, 0, 0, err
	}
	followingCount, err := CountFollowing(db, f.FollowedID)
	if err != nil {
		return false, 0, 0, err
	}
	return following, followerCount, followingCount, nil
}

// CountFollowers counts live edges pointing at the user.
func CountFollowers(db *gorm.DB, userID uint) (int64, error) {
	var count int64
	err := db.Model(&Follow{}).Where("followed_id = ?", userID).Count(&count).Error
	return count, err
}

// CountFollowing counts live edges originating from the user.
func CountFollowing(db *gorm.DB, userID uint) (int64, error) {
	var count int64
	err := db.Model(&Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

// IsFollowing reports whether a follow edge exists for (followerID, followedID).
func IsFollowing(db *gorm.DB, followerID, followedID uint) (bool, error) {
	var count int64
	err := db.Model(&Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

// When a user is deleted, we also remove every edge that touches them.
func (f *Follow) DeleteUserFollows(db *gorm.DB, userID uint) (int64, error) {
	result := db.Where("follower_id = ? OR followed_id = ?", userID, userID).
		Delete(&Follow{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
