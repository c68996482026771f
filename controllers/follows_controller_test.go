package controllers

import (
	"net/http"
	"testing"

	"Chirp/models"

	"github.com/stretchr/testify/assert"
)

func TestToggleFollowRejectsSelfFollow(t *testing.T) {
	server := newTestServer(t)
	_, token := createTestUser(t, server, "alice")

	w := doRequest(t, server, http.MethodPost, "/user/alice/follow", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body["error"], "yourself")

	var edges int64
	server.DB.Model(&models.Follow{}).Count(&edges)
	assert.Equal(t, int64(0), edges)
}

func TestToggleFollowUnknownUser(t *testing.T) {
	server := newTestServer(t)
	_, token := createTestUser(t, server, "alice")

	w := doRequest(t, server, http.MethodPost, "/user/nobody/follow", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleFollowFlipsStateAndCounts(t *testing.T) {
	server := newTestServer(t)
	_, token := createTestUser(t, server, "alice")
	createTestUser(t, server, "bob")

	w := doRequest(t, server, http.MethodPost, "/user/bob/follow", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["following"])
	assert.Equal(t, float64(1), body["follower_count"])
	assert.Equal(t, float64(0), body["following_count"])

	w = doRequest(t, server, http.MethodPost, "/user/bob/follow", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, false, body["following"])
	assert.Equal(t, float64(0), body["follower_count"])
}

func TestGetFollowersAnonymous(t *testing.T) {
	server := newTestServer(t)
	alice, token := createTestUser(t, server, "alice")
	createTestUser(t, server, "bob")

	w := doRequest(t, server, http.MethodPost, "/user/bob/follow", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Anonymous viewer still gets a valid list, without viewer flags.
	w = doRequest(t, server, http.MethodGet, "/user/bob/followers", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	response := body["response"].(map[string]interface{})
	users := response["users"].([]interface{})
	assert.Len(t, users, 1)
	first := users[0].(map[string]interface{})
	assert.Equal(t, alice.Username, first["username"])
	assert.Equal(t, false, first["viewer_following"])
}
