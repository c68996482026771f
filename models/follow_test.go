package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleFollowRejectsSelfFollow(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")

	follow := Follow{FollowerID: alice.ID, FollowedID: alice.ID}
	_, _, _, err := follow.Toggle(db)
	assert.ErrorIs(t, err, ErrSelfFollow)

	var edges int64
	db.Model(&Follow{}).Count(&edges)
	assert.Equal(t, int64(0), edges)
}

func TestToggleFollowFlipsEdgeAndCounts(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	follow := Follow{FollowerID: alice.ID, FollowedID: bob.ID}
	following, followerCount, followingCount, err := follow.Toggle(db)
	assert.NoError(t, err)
	assert.True(t, following)
	assert.Equal(t, int64(1), followerCount)
	assert.Equal(t, int64(0), followingCount)

	// Counts are the target's, derived from live edges.
	back := Follow{FollowerID: bob.ID, FollowedID: alice.ID}
	_, _, _, err = back.Toggle(db)
	assert.NoError(t, err)

	following, followerCount, followingCount, err = follow.Toggle(db)
	assert.NoError(t, err)
	assert.False(t, following)
	assert.Equal(t, int64(0), followerCount)
	assert.Equal(t, int64(1), followingCount)

	var edges int64
	db.Model(&Follow{}).Where("follower_id = ? AND followed_id = ?", alice.ID, bob.ID).Count(&edges)
	assert.Equal(t, int64(0), edges)
}

func TestDeleteUserFollowsRemovesBothDirections(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	for _, edge := range []Follow{
		{FollowerID: alice.ID, FollowedID: bob.ID},
		{FollowerID: carol.ID, FollowedID: alice.ID},
	} {
		e := edge
		_, _, _, err := e.Toggle(db)
		assert.NoError(t, err)
	}

	follow := Follow{}
	affected, err := follow.DeleteUserFollows(db, alice.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	var edges int64
	db.Model(&Follow{}).Count(&edges)
	assert.Equal(t, int64(0), edges)
}
