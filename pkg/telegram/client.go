package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mahallahub/mahalla-backend/pkg/config"
)

// Client is a thin Telegram Bot API client covering the delivery surface
// the broadcast pipeline needs.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// New builds a client from configuration.
func New(cfg config.TelegramConfig) (*Client, error) {
	if strings.TrimSpace(cfg.BotToken) == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL := strings.TrimSuffix(cfg.APIBaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      cfg.BotToken,
	}, nil
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// SendText delivers a plain text message to the chat.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	return c.call(ctx, "sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    text,
	})
}

// SendPhoto delivers a photo (by Telegram file reference) with a caption.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photoRef, caption string) error {
	return c.call(ctx, "sendPhoto", map[string]any{
		"chat_id": chatID,
		"photo":   photoRef,
		"caption": caption,
	})
}

// SendLocation delivers a map pin.
func (c *Client) SendLocation(ctx context.Context, chatID int64, latitude, longitude float64) error {
	return c.call(ctx, "sendLocation", map[string]any{
		"chat_id":   chatID,
		"latitude":  latitude,
		"longitude": longitude,
	})
}

func (c *Client) call(ctx context.Context, method string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram %s: marshal payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram %s: build request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("telegram %s: decode response (status %d): %w", method, resp.StatusCode, err)
	}
	if !decoded.OK {
		return fmt.Errorf("telegram %s: api error %d: %s", method, decoded.ErrorCode, decoded.Description)
	}
	return nil
}
