// Package rooms talks to the chat rooms service. Game status lines are
// best-effort: a failure is logged and the game moves on.
package rooms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Locales supported by game status lines.
const (
	LocaleFr = "fr"
	LocaleEn = "en"
)

const subject = "arena"

// Sender identifies a user inside a room.
type Sender struct {
	User        int    `json:"user"`
	DisplayName string `json:"displayName"`
}

// Broadcaster posts rooms and bilingual status lines to the rooms service.
// A nil Broadcaster is valid and silently drops everything.
type Broadcaster struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewBroadcaster creates a broadcaster against the rooms API at baseURL.
func NewBroadcaster(baseURL string, timeout time.Duration, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// CreateRoomForGame creates the chat room backing a game instance.
func (b *Broadcaster) CreateRoomForGame(ctx context.Context, gameID int, senders []Sender) {
	if b == nil {
		return
	}
	if senders == nil {
		senders = []Sender{}
	}
	b.post(ctx, fmt.Sprintf("/api/subjects/%s/rooms", subject), map[string]interface{}{
		"name":    roomName(gameID),
		"senders": senders,
	})
}

// SendMessageForGame posts a bilingual status line to the game's room on
// behalf of the given user.
func (b *Broadcaster) SendMessageForGame(ctx context.Context, gameID int, user int, texts map[string]string) {
	if b == nil {
		return
	}
	b.post(ctx, fmt.Sprintf("/api/subjects/%s/rooms/%s/messages/secure", subject, roomName(gameID)), map[string]interface{}{
		"message": texts,
		"user":    user,
	})
}

func (b *Broadcaster) post(ctx context.Context, path string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("failed to marshal rooms payload", zap.String("path", path), zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(body))
	if err != nil {
		b.logger.Error("failed to build rooms request", zap.String("path", path), zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		b.logger.Warn("rooms service unreachable", zap.String("path", path), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b.logger.Warn("rooms service rejected request",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
	}
}

func roomName(gameID int) string {
	return fmt.Sprintf("game-%d", gameID)
}
