package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"Chirp/models"

	"github.com/stretchr/testify/assert"
)

func TestToggleLikeRequiresAuth(t *testing.T) {
	server := newTestServer(t)
	user, _ := createTestUser(t, server, "alice")
	tweet := createTestTweet(t, server, user.ID, "hello")

	w := doRequest(t, server, http.MethodPost, fmt.Sprintf("/tweet/%d/like", tweet.ID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestToggleLikeMissingTweet(t *testing.T) {
	server := newTestServer(t)
	_, token := createTestUser(t, server, "alice")

	w := doRequest(t, server, http.MethodPost, "/tweet/999/like", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleLikeFlipsStateAndCount(t *testing.T) {
	server := newTestServer(t)
	author, _ := createTestUser(t, server, "alice")
	_, token := createTestUser(t, server, "bob")
	tweet := createTestTweet(t, server, author.ID, "hello")

	path := fmt.Sprintf("/tweet/%d/like", tweet.ID)

	w := doRequest(t, server, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, float64(1), body["like_count"])

	w = doRequest(t, server, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, false, body["liked"])
	assert.Equal(t, float64(0), body["like_count"])

	var edges int64
	server.DB.Model(&models.Like{}).Where("tweet_id = ?", tweet.ID).Count(&edges)
	assert.Equal(t, int64(0), edges)
}
