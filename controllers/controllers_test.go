package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"Chirp/auth"
	"Chirp/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("API_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	// A named in-memory database per test keeps tests isolated while still
	// sharing the database across every connection in the pool.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	server := &Server{DB: db}
	if err := server.Migrate(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	// Mount the routes without the global middleware so tests never trip the
	// shared per-IP rate limiter.
	server.Router = gin.New()
	server.initializeRoutes()
	return server
}

func createTestUser(t *testing.T, server *Server, username string) (*models.User, string) {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	}
	if err := db(server).Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %q: %v", username, err)
	}
	token, err := auth.CreateToken(user.ID)
	if err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}
	return &user, token
}

func createTestTweet(t *testing.T, server *Server, authorID uint, body string) *models.Tweet {
	t.Helper()

	tweet := models.Tweet{AuthorID: authorID, Body: body}
	if err := db(server).Create(&tweet).Error; err != nil {
		t.Fatalf("Failed to create tweet: %v", err)
	}
	return &tweet
}

func db(server *Server) *gorm.DB {
	return server.DB
}

func doRequest(t *testing.T, server *Server, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Failed to marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, body)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var parsed map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return parsed
}
