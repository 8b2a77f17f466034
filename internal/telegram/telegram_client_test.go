package telegram_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/config"
	"github.com/Muhannad-Khaled/Ailigent/internal/telegram"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *telegram.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return telegram.NewClient(config.Telegram{
		BotToken:    "test-token",
		APIURL:      srv.URL,
		PollTimeout: time.Second,
	}, zap.NewNop())
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestClient_SendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("success posts payload with token in path", func(t *testing.T) {
		var gotPath string
		var gotBody map[string]any
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotBody = decodeBody(t, r)
			w.Write([]byte(`{"ok":true,"result":{}}`))
		})

		err := client.SendMessage(ctx, telegram.OutgoingMessage{
			ChatID:    7,
			Text:      "hello",
			ParseMode: telegram.ParseModeMarkdown,
		})
		require.NoError(t, err)
		assert.Equal(t, "/bottest-token/sendMessage", gotPath)
		assert.Equal(t, float64(7), gotBody["chat_id"])
		assert.Equal(t, "hello", gotBody["text"])
		assert.Equal(t, "Markdown", gotBody["parse_mode"])
	})

	t.Run("success omits empty reply markup", func(t *testing.T) {
		var gotBody map[string]any
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotBody = decodeBody(t, r)
			w.Write([]byte(`{"ok":true,"result":{}}`))
		})

		require.NoError(t, client.SendMessage(ctx, telegram.OutgoingMessage{ChatID: 7, Text: "plain"}))
		_, hasMarkup := gotBody["reply_markup"]
		assert.False(t, hasMarkup)
		_, hasParseMode := gotBody["parse_mode"]
		assert.False(t, hasParseMode)
	})

	t.Run("negative api error carries code and description", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`))
		})

		err := client.SendMessage(ctx, telegram.OutgoingMessage{ChatID: 7, Text: "hello"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "403")
		assert.Contains(t, err.Error(), "blocked")
		assert.NotContains(t, err.Error(), "test-token")
	})
}

func TestClient_GetUpdates(t *testing.T) {
	ctx := context.Background()

	t.Run("success decodes message and callback updates", func(t *testing.T) {
		var gotBody map[string]any
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/bottest-token/getUpdates", r.URL.Path)
			gotBody = decodeBody(t, r)
			w.Write([]byte(`{"ok":true,"result":[
				{"update_id":12,"message":{"message_id":1,"from":{"id":99,"first_name":"Amira"},"chat":{"id":99,"type":"private"},"text":"/start"}},
				{"update_id":13,"callback_query":{"id":"cb1","from":{"id":99,"first_name":"Amira"},"data":"unlink_yes"}}
			]}`))
		})

		updates, err := client.GetUpdates(ctx, 12, 25*time.Second)
		require.NoError(t, err)
		require.Len(t, updates, 2)

		assert.Equal(t, float64(12), gotBody["offset"])
		assert.Equal(t, float64(25), gotBody["timeout"])

		require.NotNil(t, updates[0].Message)
		assert.Equal(t, int64(12), updates[0].UpdateID)
		assert.Equal(t, "/start", updates[0].Message.Text)
		assert.Equal(t, int64(99), updates[0].Message.From.ID)

		require.NotNil(t, updates[1].CallbackQuery)
		assert.Equal(t, "unlink_yes", updates[1].CallbackQuery.Data)
	})

	t.Run("negative api error returns no updates", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"ok":false,"error_code":409,"description":"Conflict: terminated by other getUpdates request"}`))
		})

		updates, err := client.GetUpdates(ctx, 0, time.Second)
		require.Error(t, err)
		assert.Nil(t, updates)
		assert.Contains(t, err.Error(), "409")
	})
}

func TestClient_EditMessageText(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody = decodeBody(t, r)
		w.Write([]byte(`{"ok":true,"result":{}}`))
	})

	err := client.EditMessageText(context.Background(), 7, 21, "updated")
	require.NoError(t, err)
	assert.Equal(t, "/bottest-token/editMessageText", gotPath)
	assert.Equal(t, float64(7), gotBody["chat_id"])
	assert.Equal(t, float64(21), gotBody["message_id"])
	assert.Equal(t, "updated", gotBody["text"])
}

func TestClient_SetMyCommands(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/setMyCommands", r.URL.Path)
		gotBody = decodeBody(t, r)
		w.Write([]byte(`{"ok":true,"result":true}`))
	})

	err := client.SetMyCommands(context.Background(), []telegram.BotCommand{
		{Command: "start", Description: "Start the bot"},
	})
	require.NoError(t, err)
	commands, ok := gotBody["commands"].([]any)
	require.True(t, ok)
	require.Len(t, commands, 1)
	first, ok := commands[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "start", first["command"])
}
