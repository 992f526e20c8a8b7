package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ryanlallier24/finnysights-sub000/internal/database"
	"github.com/ryanlallier24/finnysights-sub000/internal/handlers"
	"github.com/ryanlallier24/finnysights-sub000/internal/market"
	"github.com/ryanlallier24/finnysights-sub000/internal/middleware"
	"github.com/ryanlallier24/finnysights-sub000/internal/notify"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Initialize database
	db := database.New()

	// Market-data configuration and providers
	cfgPath := os.Getenv("MARKET_CONFIG")
	var cfg *market.Config
	if cfgPath != "" {
		loaded, err := market.LoadConfig(cfgPath)
		if err != nil {
			log.Fatalf("Failed to load market config: %v", err)
		}
		cfg = loaded
	} else {
		cfg = market.DefaultConfig()
	}

	equities := market.NewFinnhubClient(cfg.Equities.BaseURL, cfg.Equities.APIKey)
	crypto, err := market.NewCryptoProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to build crypto provider: %v", err)
	}
	cache := market.NewCache(cfg, equities, crypto)

	notifier := notify.NewNotifier()

	// Create unified handler
	handler := handlers.NewHandler(db.GetDB(), cfg, cache, equities, crypto, notifier)

	// Create server instance
	newServer := &Server{
		db:      db,
		handler: handler,
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// Uploaded avatars
	r.Static("/static", "./uploads")

	// Live quote stream
	r.GET("/ws/quotes", s.handler.Stream.Quotes)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)
		api.POST("/auth/google", s.handler.Auth.GoogleLogin)
		api.POST("/auth/reset-request", s.handler.Auth.RequestPasswordReset)
		api.POST("/auth/reset", s.handler.Auth.ResetPassword)

		// Ticker routes (public reads, personalized when a token is sent)
		api.GET("/tickers", middleware.OptionalAuth(), s.handler.Ticker.ListTickers)
		api.GET("/tickers/:symbol", middleware.OptionalAuth(), s.handler.Ticker.GetTicker)
		api.GET("/tickers/:symbol/comments", middleware.OptionalAuth(), s.handler.Comment.GetComments)
		api.GET("/search", s.handler.Ticker.Search)
		api.GET("/movers", s.handler.Ticker.Movers)

		// Leaderboard (public)
		api.GET("/leaderboard", s.handler.Leaderboard.GetLeaderboard)

		// User routes (public reads)
		api.GET("/users/:id", middleware.OptionalAuth(), s.handler.User.GetUserProfile)
		api.GET("/users/:id/followers", s.handler.User.GetFollowers)
		api.GET("/users/:id/following", s.handler.User.GetFollowing)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Auth protected routes
			protected.GET("/me", s.handler.Auth.GetMe)
			protected.POST("/me/avatar", s.handler.Upload.UploadAvatar)
			protected.POST("/me/devices", s.handler.Device.RegisterDevice)
			protected.DELETE("/me/devices/:token", s.handler.Device.RemoveDevice)

			// Vote routes
			protected.POST("/tickers/:symbol/vote", s.handler.Vote.Vote)
			protected.DELETE("/tickers/:symbol/vote", s.handler.Vote.RemoveVote)

			// Comment routes
			protected.POST("/tickers/:symbol/comments", s.handler.Comment.CreateComment)
			protected.PUT("/comments/:commentId", s.handler.Comment.UpdateComment)
			protected.DELETE("/comments/:commentId", s.handler.Comment.DeleteComment)
			protected.POST("/comments/:commentId/like", s.handler.Comment.LikeComment)

			// User protected routes
			protected.PUT("/users/:id", s.handler.User.UpdateUserProfile)
			protected.POST("/users/:id/follow", s.handler.User.FollowUser)
			protected.DELETE("/users/:id/follow", s.handler.User.UnfollowUser)

			// Watchlist routes
			protected.GET("/watchlist", s.handler.Watchlist.GetWatchlist)
			protected.POST("/watchlist", s.handler.Watchlist.AddToWatchlist)
			protected.DELETE("/watchlist/:symbol", s.handler.Watchlist.RemoveFromWatchlist)
		}
	}

	return r
}
