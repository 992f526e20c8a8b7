package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ryanlallier24/finnysights-sub000/internal/database"
	"github.com/ryanlallier24/finnysights-sub000/internal/market"
	"github.com/ryanlallier24/finnysights-sub000/internal/middleware"
	"github.com/ryanlallier24/finnysights-sub000/internal/models"
	"github.com/ryanlallier24/finnysights-sub000/internal/notify"
)

// stubEquities serves canned stock quotes keyed by symbol.
type stubEquities struct {
	quotes map[string]market.Quote
	err    error
}

func (s *stubEquities) Quote(ctx context.Context, symbol string) (*market.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	q, ok := s.quotes[symbol]
	if !ok {
		return nil, errors.New("unknown symbol")
	}
	return &q, nil
}

func (s *stubEquities) Search(ctx context.Context, query string) ([]market.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []market.Quote
	for _, q := range s.quotes {
		out = append(out, q)
	}
	return out, nil
}

func (s *stubEquities) BatchQuotes(ctx context.Context, symbols []string) ([]market.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]market.Quote, 0, len(symbols))
	for _, sym := range symbols {
		if q, ok := s.quotes[sym]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

// stubCrypto serves canned crypto quotes keyed by asset id.
type stubCrypto struct {
	quotes map[string]market.Quote
	err    error
}

func (s *stubCrypto) ListMarkets(ctx context.Context, limit int) ([]market.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []market.Quote
	for _, q := range s.quotes {
		out = append(out, q)
	}
	return out, nil
}

func (s *stubCrypto) Search(ctx context.Context, query string) ([]market.Quote, error) {
	return s.ListMarkets(ctx, 0)
}

func (s *stubCrypto) GetDetails(ctx context.Context, id string) (*market.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	q, ok := s.quotes[id]
	if !ok {
		return nil, errors.New("unknown asset")
	}
	return &q, nil
}

func (s *stubCrypto) TopMovers(ctx context.Context, limit int) ([]market.Quote, error) {
	quotes, err := s.ListMarkets(ctx, limit)
	if err != nil {
		return nil, err
	}
	return market.RankMovers(quotes, limit), nil
}

type testEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	equities *stubEquities
	crypto   *stubCrypto
	cache    *market.Cache
}

// newTestEnv wires the full handler stack over an in-memory database and
// stub market providers, with the real route table and middleware.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &market.Config{}
	cfg.Equities.Symbols = []string{"AAPL", "TSLA"}
	cfg.Crypto.Provider = market.ProviderCoinGecko
	cfg.Crypto.Assets = []market.CryptoAsset{{ID: "bitcoin", Symbol: "BTC"}}
	cfg.RefreshIntervalSec = 60

	equities := &stubEquities{quotes: map[string]market.Quote{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc", Price: 189.84, Change: 0.7},
		"TSLA": {Symbol: "TSLA", Name: "Tesla Inc", Price: 240.50, Change: -1.2},
	}}
	crypto := &stubCrypto{quotes: map[string]market.Quote{
		"bitcoin": {Symbol: "BTC", Name: "Bitcoin", Price: 65000, Change: 2.4, MarketCap: 1.28e12, Rank: 1},
	}}

	cache := market.NewCache(cfg, equities, crypto)
	handler := NewHandler(db, cfg, cache, equities, crypto, notify.NewNotifier())
	t.Cleanup(func() { os.RemoveAll("uploads") })

	r := gin.New()
	api := r.Group("/api")
	{
		api.POST("/register", handler.Auth.Register)
		api.POST("/login", handler.Auth.Login)
		api.POST("/auth/reset-request", handler.Auth.RequestPasswordReset)
		api.POST("/auth/reset", handler.Auth.ResetPassword)

		api.GET("/tickers", middleware.OptionalAuth(), handler.Ticker.ListTickers)
		api.GET("/tickers/:symbol", middleware.OptionalAuth(), handler.Ticker.GetTicker)
		api.GET("/tickers/:symbol/comments", middleware.OptionalAuth(), handler.Comment.GetComments)
		api.GET("/search", handler.Ticker.Search)
		api.GET("/movers", handler.Ticker.Movers)
		api.GET("/leaderboard", handler.Leaderboard.GetLeaderboard)

		api.GET("/users/:id", middleware.OptionalAuth(), handler.User.GetUserProfile)
		api.GET("/users/:id/followers", handler.User.GetFollowers)
		api.GET("/users/:id/following", handler.User.GetFollowing)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/me", handler.Auth.GetMe)
			protected.POST("/me/avatar", handler.Upload.UploadAvatar)
			protected.POST("/me/devices", handler.Device.RegisterDevice)
			protected.DELETE("/me/devices/:token", handler.Device.RemoveDevice)

			protected.POST("/tickers/:symbol/vote", handler.Vote.Vote)
			protected.DELETE("/tickers/:symbol/vote", handler.Vote.RemoveVote)

			protected.POST("/tickers/:symbol/comments", handler.Comment.CreateComment)
			protected.PUT("/comments/:commentId", handler.Comment.UpdateComment)
			protected.DELETE("/comments/:commentId", handler.Comment.DeleteComment)
			protected.POST("/comments/:commentId/like", handler.Comment.LikeComment)

			protected.PUT("/users/:id", handler.User.UpdateUserProfile)
			protected.POST("/users/:id/follow", handler.User.FollowUser)
			protected.DELETE("/users/:id/follow", handler.User.UnfollowUser)

			protected.GET("/watchlist", handler.Watchlist.GetWatchlist)
			protected.POST("/watchlist", handler.Watchlist.AddToWatchlist)
			protected.DELETE("/watchlist/:symbol", handler.Watchlist.RemoveFromWatchlist)
		}
	}

	return &testEnv{db: db, router: r, equities: equities, crypto: crypto, cache: cache}
}

// createUser inserts a user with a bcrypt password of "password123".
func (e *testEnv) createUser(t *testing.T, username string) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		Password:     string(hashed),
		AuthProvider: "email",
	}
	require.NoError(t, e.db.Create(&user).Error)
	return user
}

// bearer returns an Authorization header value for the user.
func (e *testEnv) bearer(t *testing.T, user models.User) string {
	t.Helper()
	token, err := signToken(&user)
	require.NoError(t, err)
	return "Bearer " + token
}

// doJSON performs a request with an optional JSON body and bearer token,
// returning the recorded response.
func (e *testEnv) doJSON(t *testing.T, method, path string, body interface{}, auth string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a recorded JSON response.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// countRows is a shorthand for counting live rows of a model.
func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return int(n)
}
