package controllers

import (
	"Chirp/middlewares"
)

func (s *Server) initializeRoutes() {

	// Feed
	s.Router.GET("/", middlewares.OptionalAuthMiddleware(s.DB), s.GetFeed)

	// Auth
	s.Router.POST("/signup", middlewares.LoginRateLimitMiddleware(), s.CreateUser)
	s.Router.POST("/login", middlewares.LoginRateLimitMiddleware(), s.Login)
	s.Router.POST("/password/forgot", middlewares.LoginRateLimitMiddleware(), s.ForgotPassword)
	s.Router.POST("/password/reset", middlewares.LoginRateLimitMiddleware(), s.ResetPassword)

	// Tweets
	s.Router.POST("/tweet/create", middlewares.TokenAuthMiddleware(s.DB), s.CreateTweet)
	s.Router.GET("/tweet/:id", middlewares.OptionalAuthMiddleware(s.DB), s.GetTweet)
	s.Router.POST("/tweet/:id/edit", middlewares.TokenAuthMiddleware(s.DB), s.UpdateTweet)
	s.Router.POST("/tweet/:id/delete", middlewares.TokenAuthMiddleware(s.DB), s.DeleteTweet)

	// Likes
	s.Router.POST("/tweet/:id/like", middlewares.TokenAuthMiddleware(s.DB), s.ToggleLike)

	// Comments
	s.Router.POST("/tweet/:id/comments", middlewares.TokenAuthMiddleware(s.DB), s.CreateComment)
	s.Router.GET("/tweet/:id/comments", s.GetComments)
	s.Router.POST("/comment/:id/edit", middlewares.TokenAuthMiddleware(s.DB), s.UpdateComment)
	s.Router.POST("/comment/:id/delete", middlewares.TokenAuthMiddleware(s.DB), s.DeleteComment)

	// Account
	s.Router.POST("/account/edit", middlewares.TokenAuthMiddleware(s.DB), s.UpdateAccount)
	s.Router.POST("/account/delete", middlewares.TokenAuthMiddleware(s.DB), s.DeleteAccount)

	// Users & follows
	s.Router.GET("/users", s.GetUsers)
	s.Router.GET("/user/:username", middlewares.OptionalAuthMiddleware(s.DB), s.GetUserProfile)
	s.Router.POST("/user/:username/follow", middlewares.TokenAuthMiddleware(s.DB), s.ToggleFollow)
	s.Router.GET("/user/:username/followers", middlewares.OptionalAuthMiddleware(s.DB), s.GetFollowers)
	s.Router.GET("/user/:username/following", middlewares.OptionalAuthMiddleware(s.DB), s.GetFollowing)
}
