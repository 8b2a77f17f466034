package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Conversation states for the account linking dialog.
const (
	StateIdle          = "idle"
	StateAwaitingEmail = "awaiting_email"
	StateAwaitingOTP   = "awaiting_otp"
)

// conversationTTL bounds how long a half-finished dialog survives. After
// it lapses the next message is treated as free text again.
const conversationTTL = 15 * time.Minute

// Conversation is the dialog state the bot needs between messages.
type Conversation interface {
	State(ctx context.Context, telegramID int64) string
	SetState(ctx context.Context, telegramID int64, state string) error
	Clear(ctx context.Context, telegramID int64) error
}

// ConversationStore keeps per-user dialog state in redis so a bot restart
// does not drop users out of the linking flow.
type ConversationStore struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewConversationStore(rdb *redis.Client, logger ...*zap.Logger) *ConversationStore {
	l := zap.L().Named("telegram.conversation")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("telegram.conversation")
	}
	return &ConversationStore{rdb: rdb, logger: l}
}

// State reads the current dialog state. Missing keys and redis trouble
// both come back as idle; losing a dialog beats blocking the bot.
func (s *ConversationStore) State(ctx context.Context, telegramID int64) string {
	state, err := s.rdb.Get(ctx, conversationKey(telegramID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("conversation state lookup failed",
				zap.Int64("telegram_id", telegramID),
				zap.Error(err),
			)
		}
		return StateIdle
	}
	return state
}

func (s *ConversationStore) SetState(ctx context.Context, telegramID int64, state string) error {
	return s.rdb.Set(ctx, conversationKey(telegramID), state, conversationTTL).Err()
}

func (s *ConversationStore) Clear(ctx context.Context, telegramID int64) error {
	return s.rdb.Del(ctx, conversationKey(telegramID)).Err()
}

func conversationKey(telegramID int64) string {
	return fmt.Sprintf("ailigent:telegram:state:%d", telegramID)
}
