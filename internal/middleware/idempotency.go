package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Muhannad-Khaled/Ailigent/internal/shared/response"
)

const (
	idempotencyHeader  = "Idempotency-Key"
	idempotencyTTL     = 24 * time.Hour
	idempotencyLockTTL = 30 * time.Second
)

type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type bufferingWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bufferingWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated POST carrying
// the same Idempotency-Key. A short SETNX lock rejects a retry that
// arrives while the first attempt is still running.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(idempotencyHeader)
		if key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("ailigent:idemp:%s:%s", c.FullPath(), key)
		lockKey := cacheKey + ":lock"
		ctx := c.Request.Context()

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var stored storedResponse
			if json.Unmarshal([]byte(val), &stored) == nil {
				c.Header("X-Idempotency-Replay", "true")
				c.Data(stored.Status, "application/json; charset=utf-8", stored.Body)
				c.Abort()
				return
			}
		}

		locked, _ := rdb.SetNX(ctx, lockKey, "1", idempotencyLockTTL).Result()
		if !locked {
			response.Error(c, http.StatusConflict, "PROCESSING", "A request with this key is still being processed", nil)
			c.Abort()
			return
		}

		writer := &bufferingWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		// 5xx responses are not stored so the client can retry them.
		status := writer.Status()
		if status < http.StatusInternalServerError {
			payload, err := json.Marshal(storedResponse{Status: status, Body: writer.buf.Bytes()})
			if err == nil {
				rdb.Set(ctx, cacheKey, payload, idempotencyTTL)
			}
		}
		rdb.Del(ctx, lockKey)
	}
}
