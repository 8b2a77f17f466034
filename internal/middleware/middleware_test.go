package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/time/rate"

	"github.com/Muhannad-Khaled/Ailigent/internal/middleware"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	require.NoError(t, err)
	return env
}

func TestAPIKeyAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.APIKeyAuth("sekret"))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})

	t.Run("negative missing key", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	})

	t.Run("negative wrong key", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-API-Key", "guess")

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})

	t.Run("success correct key", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-API-Key", "sekret")

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimitByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.RateLimitByIP(rate.Limit(1), 1))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})

	do := func(addr string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = addr
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("burst exhausted returns 429", func(t *testing.T) {
		first := do("10.0.0.9:1234")
		second := do("10.0.0.9:1234")

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		env := decodeEnvelope(t, second.Body.Bytes())
		assert.Equal(t, "RATE_LIMITED", env.Error.Code)
	})

	t.Run("other clients unaffected", func(t *testing.T) {
		w := do("10.0.0.10:1234")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(rdb *redis.Client, handled *int) *gin.Engine {
		router := gin.New()
		router.Use(middleware.Idempotency(rdb))
		router.POST("/things", func(c *gin.Context) {
			*handled++
			c.JSON(http.StatusCreated, gin.H{"id": 7})
		})
		return router
	}

	cacheKey := "ailigent:idemp:/things:abc123"
	lockKey := cacheKey + ":lock"

	t.Run("success first request stores response", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "1", 30*time.Second).SetVal(true)
		mock.Regexp().ExpectSet(cacheKey, `.*`, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		handled := 0
		router := newRouter(db, &handled)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/things", nil)
		req.Header.Set("Idempotency-Key", "abc123")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, handled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success repeat replays without handler", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).SetVal(`{"status":201,"body":{"id":7}}`)

		handled := 0
		router := newRouter(db, &handled)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/things", nil)
		req.Header.Set("Idempotency-Key", "abc123")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"id":7}`, w.Body.String())
		assert.Equal(t, "true", w.Header().Get("X-Idempotency-Replay"))
		assert.Equal(t, 0, handled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative concurrent duplicate rejected", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "1", 30*time.Second).SetVal(false)

		handled := 0
		router := newRouter(db, &handled)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/things", nil)
		req.Header.Set("Idempotency-Key", "abc123")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "PROCESSING", env.Error.Code)
		assert.Equal(t, 0, handled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("requests without key pass through", func(t *testing.T) {
		db, mock := redismock.NewClientMock()

		handled := 0
		router := newRouter(db, &handled)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/things", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, handled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
