package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader carries the client-chosen key.
	IdempotencyKeyHeader = "X-Idempotency-Key"
	// IdempotencyReplayHeader is set on responses served from a stored record.
	IdempotencyReplayHeader = "X-Idempotent-Replay"

	idempotencyKeyPrefix = "idempotency:"
)

type idempotencyStatus string

const (
	statusProcessing idempotencyStatus = "processing"
	statusCompleted  idempotencyStatus = "completed"
)

// idempotencyRecord is the JSON document stored under an idempotency key.
type idempotencyRecord struct {
	Status       idempotencyStatus `json:"status"`
	RequestHash  string            `json:"request_hash"`
	ResponseCode int               `json:"response_code,omitempty"`
	ResponseBody string            `json:"response_body,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// RedisClient is the subset of go-redis used by the idempotency middleware.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// IdempotencyConfig configures Idempotency.
type IdempotencyConfig struct {
	Redis RedisClient
	// TTL of completed records.
	TTL time.Duration
	// TTL of the in-flight marker; bounds how long a crashed request blocks its key.
	ProcessingTTL time.Duration
	// Subject scopes keys per caller, typically the authenticated user ID.
	Subject func(c *gin.Context) string
	Log     *zap.Logger
}

// Idempotency replays the stored response of a previous request that carried
// the same X-Idempotency-Key and body. Requests without the header pass through.
// Redis failures fail open: the request is processed normally.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.ProcessingTTL == 0 {
		cfg.ProcessingTTL = 30 * time.Second
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		var body []byte
		if c.Request.Body != nil {
			var err error
			body, err = io.ReadAll(c.Request.Body)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		subject := ""
		if cfg.Subject != nil {
			subject = cfg.Subject(c)
		}
		redisKey := idempotencyKeyPrefix + subject + ":" + key
		hash := requestHash(c.Request.Method, c.Request.URL.Path, body)
		ctx := c.Request.Context()

		existing, err := loadRecord(ctx, cfg.Redis, redisKey)
		if err != nil && !errors.Is(err, redis.Nil) {
			cfg.Log.Warn("idempotency lookup failed, processing without it", zap.Error(err))
			c.Next()
			return
		}
		if existing != nil {
			replay(c, existing, hash)
			return
		}

		record := idempotencyRecord{
			Status:      statusProcessing,
			RequestHash: hash,
			CreatedAt:   time.Now().UTC(),
		}
		acquired, err := storeRecord(ctx, cfg.Redis, redisKey, record, cfg.ProcessingTTL, true)
		if err != nil {
			cfg.Log.Warn("idempotency reserve failed, processing without it", zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			// Lost the SETNX race to a concurrent request with the same key.
			if existing, _ = loadRecord(ctx, cfg.Redis, redisKey); existing != nil {
				replay(c, existing, hash)
				return
			}
		}

		rw := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = rw

		c.Next()

		status := rw.Status()
		// Server errors are not stored so the client can retry with the same key.
		if status >= http.StatusInternalServerError {
			if err := cfg.Redis.Del(ctx, redisKey).Err(); err != nil {
				cfg.Log.Warn("idempotency release failed", zap.Error(err))
			}
			return
		}

		record.Status = statusCompleted
		record.ResponseCode = status
		record.ResponseBody = rw.body.String()
		if _, err := storeRecord(ctx, cfg.Redis, redisKey, record, cfg.TTL, false); err != nil {
			cfg.Log.Warn("idempotency save failed", zap.Error(err))
		}
	}
}

func replay(c *gin.Context, rec *idempotencyRecord, hash string) {
	switch {
	case rec.RequestHash != hash:
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "idempotency key already used with a different request"})
	case rec.Status == statusProcessing:
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "a request with this idempotency key is still being processed"})
	default:
		c.Header(IdempotencyReplayHeader, "true")
		c.Data(rec.ResponseCode, "application/json; charset=utf-8", []byte(rec.ResponseBody))
		c.Abort()
	}
}

func requestHash(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func loadRecord(ctx context.Context, rdb RedisClient, key string) (*idempotencyRecord, error) {
	raw, err := rdb.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	var rec idempotencyRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func storeRecord(ctx context.Context, rdb RedisClient, key string, rec idempotencyRecord, ttl time.Duration, onlyIfAbsent bool) (bool, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return false, err
	}
	if onlyIfAbsent {
		return rdb.SetNX(ctx, key, string(data), ttl).Result()
	}
	return true, rdb.Set(ctx, key, string(data), ttl).Err()
}

// capturingWriter tees the response body so it can be stored after the handler runs.
type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
