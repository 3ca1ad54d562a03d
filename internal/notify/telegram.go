package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramChannel delivers messages through the Telegram bot API. The
// recipient identity is the driver's chat id.
type TelegramChannel struct {
	client  *http.Client
	token   string
	baseURL string
	logger  Logger
}

func NewTelegramChannel(client *http.Client, token string, logger Logger) *TelegramChannel {
	if client == nil {
		client = http.DefaultClient
	}
	return &TelegramChannel{client: client, token: token, baseURL: telegramAPIBase, logger: logger}
}

type telegramSendRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type telegramSendResponse struct {
	OK bool `json:"ok"`
}

// Send posts one sendMessage call. The subject is folded into the text;
// Telegram has no separate subject line. Any transport or API error
// yields false.
func (c *TelegramChannel) Send(ctx context.Context, recipient, subject, message string) bool {
	if recipient == "" || c.token == "" {
		return false
	}
	text := message
	if subject != "" {
		text = fmt.Sprintf("*%s*\n\n%s", subject, message)
	}
	payload, err := json.Marshal(telegramSendRequest{ChatID: recipient, Text: text, ParseMode: "Markdown"})
	if err != nil {
		return false
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Errorf("telegram send to chat %s failed: %v", recipient, err)
		return false
	}
	defer resp.Body.Close()

	var out telegramSendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.logger.Errorf("telegram response decode failed: %v", err)
		return false
	}
	return out.OK
}
