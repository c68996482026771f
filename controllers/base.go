package controllers

import (
	"fmt"
	"log"
	"os"
	"strings"

	"Chirp/middlewares"
	"Chirp/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// ===============================
// SERVER INITIALIZATION
// ===============================
func (server *Server) Initialize(DbUser, DbPassword, DbPort, DbHost, DbName string) {
	var dsn string

	if strings.EqualFold(os.Getenv("APP_ENV"), "production") {
		dsn = os.Getenv("DATABASE_URL")
		if dsn != "" && !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}
	} else {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			DbHost, DbUser, DbPassword, DbName, DbPort,
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Cannot connect to Postgres: %v", err)
	}
	server.DB = db

	if err := server.Migrate(); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	server.SetupRouter()
}

// Migrate runs auto migrations plus the raw-SQL constraints AutoMigrate
// cannot express. Exposed so tests can share it against sqlite.
func (server *Server) Migrate() error {
	if err := server.DB.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Tweet{},
		&models.Like{},
		&models.Comment{},
		&models.ResetPassword{},
	); err != nil {
		return err
	}
	if err := ensureEdgeConstraints(server.DB); err != nil {
		log.Printf("warning: edge constraints not ensured: %v", err)
	}
	return nil
}

// SetupRouter builds the gin engine and mounts all routes.
func (server *Server) SetupRouter() {
	server.Router = gin.Default()
	server.Router.Use(middlewares.CORSMiddleware())
	server.Router.Use(middlewares.RateLimitMiddleware())
	server.initializeRoutes()
}

// ensureEdgeConstraints hardens the edge tables beyond what AutoMigrate
// guarantees: the unique indexes that serialize toggles, and the self-follow
// check. The CHECK constraint is Postgres-only; sqlite test databases rely
// on the application-level guard in Follow.Toggle.
func ensureEdgeConstraints(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	statements := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_likes_user_tweet ON likes (user_id, tweet_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_follows_unique ON follows (follower_id, followed_id)",
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	var count int64
	if err := db.Raw(
		"SELECT COUNT(1) FROM pg_constraint WHERE conname = ?",
		"follows_no_self_follow",
	).Scan(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Exec(
			"ALTER TABLE follows ADD CONSTRAINT follows_no_self_follow CHECK (follower_id <> followed_id)",
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func (server *Server) Run(addr string) {
	log.Printf("Listening to port %s", addr)
	log.Fatal(server.Router.Run(addr))
}
