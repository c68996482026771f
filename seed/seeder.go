package seed

import (
	"log"

	"Chirp/models"

	"gorm.io/gorm"
)

var users = []models.User{
	{
		Username: "yuki",
		Email:    "yuki@example.com",
		Password: "password",
		Bio:      "first bird on the wire",
	},
	{
		Username: "martin",
		Email:    "martin@example.com",
		Password: "password",
	},
}

var tweetBodies = []string{
	"hello world, this is my first tweet",
	"shipping a tiny feature today",
	"coffee first, code later",
	"does anyone actually read page three of the feed?",
	"refactoring is just moving furniture until it feels right",
	"sixth tweet so the feed needs a second page",
}

// Load wipes and re-seeds a development database. Never call in production.
func Load(db *gorm.DB) {
	err := db.Migrator().DropTable(
		&models.Like{},
		&models.Follow{},
		&models.Comment{},
		&models.Tweet{},
		&models.ResetPassword{},
		&models.User{},
	)
	if err != nil {
		log.Fatalf("cannot drop tables: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Tweet{},
		&models.Like{},
		&models.Comment{},
		&models.ResetPassword{},
	)
	if err != nil {
		log.Fatalf("cannot migrate tables: %v", err)
	}

	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			log.Fatalf("cannot seed users table: %v", err)
		}
	}

	for i, body := range tweetBodies {
		tweet := models.Tweet{
			AuthorID: users[i%len(users)].ID,
			Body:     body,
		}
		if err := db.Create(&tweet).Error; err != nil {
			log.Fatalf("cannot seed tweets table: %v", err)
		}
	}

	follow := models.Follow{FollowerID: users[0].ID, FollowedID: users[1].ID}
	if err := db.Create(&follow).Error; err != nil {
		log.Fatalf("cannot seed follows table: %v", err)
	}
}
