package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ryanlallier24/finnysights-sub000/internal/market"
)

type StreamHandler struct {
	cache    *market.Cache
	upgrader websocket.Upgrader
}

func NewStreamHandler(cache *market.Cache) *StreamHandler {
	return &StreamHandler{
		cache: cache,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Browser clients connect from the app origin; CORS is handled
			// at the HTTP layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Quotes upgrades to a websocket and pushes the curated quote snapshot
// immediately, then on every refresh interval until the client goes away.
// A failed refresh skips the push and the last snapshot stands.
func (h *StreamHandler) Quotes(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("Websocket upgrade failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ctx := c.Request.Context()

	push := func() error {
		quotes := h.cache.Quotes(ctx)
		if len(quotes) == 0 {
			return nil
		}
		return conn.WriteJSON(gin.H{
			"type":   "quotes",
			"quotes": quotes,
			"at":     time.Now().UTC(),
		})
	}

	if err := push(); err != nil {
		return
	}

	ticker := time.NewTicker(h.cache.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := push(); err != nil {
				return
			}
		}
	}
}
