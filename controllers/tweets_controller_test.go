package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"Chirp/models"

	"github.com/stretchr/testify/assert"
)

func TestCreateTweet(t *testing.T) {
	server := newTestServer(t)
	_, token := createTestUser(t, server, "alice")

	w := doRequest(t, server, http.MethodPost, "/tweet/create", token, map[string]string{
		"body": "my first tweet",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	response := body["response"].(map[string]interface{})
	assert.Equal(t, "my first tweet", response["body"])

	w = doRequest(t, server, http.MethodPost, "/tweet/create", token, map[string]string{"body": "   "})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(t, server, http.MethodPost, "/tweet/create", "", map[string]string{"body": "anon"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOwnershipGateOnEditAndDelete(t *testing.T) {
	server := newTestServer(t)
	owner, ownerToken := createTestUser(t, server, "alice")
	_, otherToken := createTestUser(t, server, "bob")
	tweet := createTestTweet(t, server, owner.ID, "original body")

	editPath := fmt.Sprintf("/tweet/%d/edit", tweet.ID)
	deletePath := fmt.Sprintf("/tweet/%d/delete", tweet.ID)

	// Non-owner is forbidden and the tweet is unchanged.
	w := doRequest(t, server, http.MethodPost, editPath, otherToken, map[string]string{"body": "hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var unchanged models.Tweet
	assert.NoError(t, server.DB.First(&unchanged, tweet.ID).Error)
	assert.Equal(t, "original body", unchanged.Body)

	w = doRequest(t, server, http.MethodPost, deletePath, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Nonexistent id fails 404 before any ownership answer.
	w = doRequest(t, server, http.MethodPost, "/tweet/9999/edit", otherToken, map[string]string{"body": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The owner succeeds.
	w = doRequest(t, server, http.MethodPost, editPath, ownerToken, map[string]string{"body": "edited body"})
	assert.Equal(t, http.StatusOK, w.Code)

	var edited models.Tweet
	assert.NoError(t, server.DB.First(&edited, tweet.ID).Error)
	assert.Equal(t, "edited body", edited.Body)

	w = doRequest(t, server, http.MethodPost, deletePath, ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, server, http.MethodGet, fmt.Sprintf("/tweet/%d", tweet.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTweetCascadesLikes(t *testing.T) {
	server := newTestServer(t)
	owner, ownerToken := createTestUser(t, server, "alice")
	_, likerToken := createTestUser(t, server, "bob")
	tweet := createTestTweet(t, server, owner.ID, "soon gone")

	w := doRequest(t, server, http.MethodPost, fmt.Sprintf("/tweet/%d/like", tweet.ID), likerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, server, http.MethodPost, fmt.Sprintf("/tweet/%d/delete", tweet.ID), ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var edges int64
	server.DB.Model(&models.Like{}).Where("tweet_id = ?", tweet.ID).Count(&edges)
	assert.Equal(t, int64(0), edges)

	// The id is gone, not a zero-count dangling row.
	w = doRequest(t, server, http.MethodPost, fmt.Sprintf("/tweet/%d/like", tweet.ID), likerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFeedPagination(t *testing.T) {
	server := newTestServer(t)
	author, _ := createTestUser(t, server, "alice")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		tweet := models.Tweet{
			AuthorID:  author.ID,
			Body:      fmt.Sprintf("tweet %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		assert.NoError(t, server.DB.Create(&tweet).Error)
	}

	feedPage := func(page string) []interface{} {
		w := doRequest(t, server, http.MethodGet, "/?page="+page, "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		response := body["response"].(map[string]interface{})
		return response["tweets"].([]interface{})
	}

	page1 := feedPage("1")
	assert.Len(t, page1, 5)
	first := page1[0].(map[string]interface{})
	assert.Equal(t, "tweet 11", first["body"])

	assert.Len(t, feedPage("3"), 2)
	assert.Empty(t, feedPage("4"))

	w := doRequest(t, server, http.MethodGet, "/?page=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doRequest(t, server, http.MethodGet, "/?page=junk", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeedViewerDecoration(t *testing.T) {
	server := newTestServer(t)
	author, _ := createTestUser(t, server, "alice")
	_, viewerToken := createTestUser(t, server, "bob")
	tweet := createTestTweet(t, server, author.ID, "decorate me")

	w := doRequest(t, server, http.MethodPost, fmt.Sprintf("/tweet/%d/like", tweet.ID), viewerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Authenticated viewer sees their like.
	w = doRequest(t, server, http.MethodGet, "/", viewerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	tweets := body["response"].(map[string]interface{})["tweets"].([]interface{})
	decorated := tweets[0].(map[string]interface{})
	assert.Equal(t, true, decorated["is_liked"])
	assert.Equal(t, float64(1), decorated["like_count"])

	// Anonymous viewer gets the same page with is_liked always false.
	w = doRequest(t, server, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	tweets = body["response"].(map[string]interface{})["tweets"].([]interface{})
	anonymous := tweets[0].(map[string]interface{})
	assert.Equal(t, false, anonymous["is_liked"])
	assert.Equal(t, float64(1), anonymous["like_count"])
}

func TestGetTweetDetailAnonymous(t *testing.T) {
	server := newTestServer(t)
	author, token := createTestUser(t, server, "alice")
	tweet := createTestTweet(t, server, author.ID, "detail view")

	w := doRequest(t, server, http.MethodPost, fmt.Sprintf("/tweet/%d/comments", tweet.ID), token, map[string]string{
		"body": "self reply",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// The detail view must render for anonymous viewers too.
	w = doRequest(t, server, http.MethodGet, fmt.Sprintf("/tweet/%d", tweet.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	response := body["response"].(map[string]interface{})
	assert.Equal(t, "detail view", response["body"])
	assert.Equal(t, false, response["is_liked"])
	assert.Len(t, response["comments"].([]interface{}), 1)
}
