package models

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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
	// One connection so every statement sees the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&User{}, &Follow{}, &Tweet{}, &Like{}, &Comment{}, &ResetPassword{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *User {
	t.Helper()

	user := User{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user %q: %v", username, err)
	}
	return &user
}

func seedTweet(t *testing.T, db *gorm.DB, authorID uint, body string) *Tweet {
	t.Helper()

	tweet := Tweet{AuthorID: authorID, Body: body}
	if err := db.Create(&tweet).Error; err != nil {
		t.Fatalf("Failed to seed tweet: %v", err)
	}
	return &tweet
}
