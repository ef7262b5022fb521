package lib

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const TelegramDefaultURL = "https://api.telegram.org"

type TelegramUpdate struct {
	UpdateID int64            `json:"update_id"`
	Message  *TelegramMessage `json:"message"`
}

type TelegramMessage struct {
	MessageID int64         `json:"message_id"`
	From      *TelegramUser `json:"from"`
	Chat      *TelegramChat `json:"chat"`
	Date      int64         `json:"date"`
	Text      string        `json:"text"`
}

type TelegramUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
}

type TelegramChat struct {
	ID int64 `json:"id"`
}

// TelegramReplyMarkup is either a reply keyboard or a keyboard removal.
type TelegramReplyMarkup struct {
	Keyboard       [][]string `json:"keyboard,omitempty"`
	RemoveKeyboard bool       `json:"remove_keyboard,omitempty"`
}

func TelegramKeyboard(rows ...[]string) *TelegramReplyMarkup {
	return &TelegramReplyMarkup{Keyboard: rows}
}

func TelegramKeyboardRemove() *TelegramReplyMarkup {
	return &TelegramReplyMarkup{RemoveKeyboard: true}
}

type telegramSendMessage struct {
	ChatID      int64                `json:"chat_id"`
	Text        string               `json:"text"`
	ReplyMarkup *TelegramReplyMarkup `json:"reply_markup,omitempty"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

type TelegramClient struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewTelegramClient(token string) *TelegramClient {
	return &TelegramClient{
		token:   token,
		baseURL: TelegramDefaultURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *TelegramClient) WithBaseURL(baseURL string) *TelegramClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

func (c *TelegramClient) SendMessage(ctx context.Context, chatID int64, text string, markup *TelegramReplyMarkup) error {
	body, err := json.Marshal(telegramSendMessage{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if c.token != "" && errors.As(err, &urlErr) {
			urlErr.URL = strings.ReplaceAll(urlErr.URL, c.token, "<token>")
		}
		return fmt.Errorf("telegram request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	var out telegramResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram api error %d: %s", resp.StatusCode, out.Description)
	}
	if decodeErr != nil {
		return fmt.Errorf("telegram response: %w", decodeErr)
	}
	if !out.OK {
		return fmt.Errorf("telegram api error: %s", out.Description)
	}
	return nil
}
