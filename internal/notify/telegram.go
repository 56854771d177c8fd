package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/zeneves1970/ocorrencias/internal/config"
)

// TelegramClient posts messages to a fixed chat via the Bot API.
type TelegramClient struct {
	httpClient *http.Client
	apiURL     string
	token      string
	chatID     string
}

func NewTelegramClient(cfg *config.Config) *TelegramClient {
	return &TelegramClient{
		httpClient: &http.Client{Timeout: cfg.TelegramTimeout},
		apiURL:     cfg.TelegramAPIURL,
		token:      cfg.TelegramToken,
		chatID:     cfg.TelegramChatID,
	}
}

// Configured reports whether a token and chat id are set. When they are not,
// the worker skips delivery instead of failing.
func (t *TelegramClient) Configured() bool {
	return t.token != "" && t.chatID != ""
}

// Send posts one HTML-formatted message to the configured chat.
func (t *TelegramClient) Send(ctx context.Context, text string) error {
	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "HTML")

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram returned http %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}
