package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/config"
)

const (
	// DefaultAPIURL is the hosted Bot API. Self-hosted Bot API servers go
	// through TELEGRAM_API_URL.
	DefaultAPIURL = "https://api.telegram.org"

	ParseModeMarkdown = "Markdown"

	callTimeout = 15 * time.Second
	// pollSlack keeps the HTTP deadline behind the server-side long-poll
	// window so an empty poll returns normally instead of timing out.
	pollSlack = 10 * time.Second
)

// Client speaks the Bot API directly over net/http. Methods return the
// decoded result or the API's error description.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
	poll    *http.Client
	logger  *zap.Logger
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
}

func NewClient(cfg config.Telegram, logger ...*zap.Logger) *Client {
	l := zap.L().Named("telegram.client")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("telegram.client")
	}

	base := cfg.APIURL
	if base == "" {
		base = DefaultAPIURL
	}
	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}

	return &Client{
		token:   cfg.BotToken,
		baseURL: strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: callTimeout},
		poll:    &http.Client{Timeout: pollTimeout + pollSlack},
		logger:  l,
	}
}

func (c *Client) SendMessage(ctx context.Context, out OutgoingMessage) error {
	return c.call(ctx, c.http, "sendMessage", out, nil)
}

func (c *Client) EditMessageText(ctx context.Context, chatID, messageID int64, text string) error {
	params := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
		"parse_mode": ParseModeMarkdown,
	}
	return c.call(ctx, c.http, "editMessageText", params, nil)
}

func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error {
	params := map[string]any{"callback_query_id": callbackQueryID}
	return c.call(ctx, c.http, "answerCallbackQuery", params, nil)
}

func (c *Client) SetMyCommands(ctx context.Context, commands []BotCommand) error {
	params := map[string]any{"commands": commands}
	return c.call(ctx, c.http, "setMyCommands", params, nil)
}

// GetUpdates long-polls for new updates. Offset must be one past the last
// update already handled; timeout is how long the server holds the request.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	params := map[string]any{
		"offset":          offset,
		"timeout":         int(timeout.Seconds()),
		"allowed_updates": []string{"message", "callback_query"},
	}
	var updates []Update
	if err := c.call(ctx, c.poll, "getUpdates", params, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// call posts one Bot API method. The URL embeds the bot token, so errors
// and logs never include it.
func (c *Client) call(ctx context.Context, hc *http.Client, method string, params any, out any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return err
	}

	url := c.baseURL + "/bot" + c.token + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("telegram %s: decode response: %w", method, err)
	}
	if !envelope.OK {
		return fmt.Errorf("telegram %s: api error %d: %s", method, envelope.ErrorCode, envelope.Description)
	}
	if out != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("telegram %s: decode result: %w", method, err)
		}
	}
	return nil
}
