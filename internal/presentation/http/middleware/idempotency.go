package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/stockroom-api/internal/domain/entity"
	"github.com/sangkips/stockroom-api/internal/domain/repository"
	"github.com/sangkips/stockroom-api/internal/presentation/http/dto/response"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long a completed response is replayed
	IdempotencyKeyTTL = 24 * time.Hour
	// IdempotencyPendingTTL bounds a reservation left behind by a crashed request
	IdempotencyPendingTTL = 2 * time.Minute
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	// Required rejects requests without an Idempotency-Key header.
	Required bool
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a request is retried with a
// key that was already processed successfully. The key is reserved before the
// handler runs, so a concurrent duplicate gets 409 instead of a second bill.
// Only 2xx responses are kept; any other outcome releases the key and the
// request can be retried.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			if config.Required {
				response.BadRequest(c, "Idempotency-Key header is required for this request")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		userIDValue, _ := c.Get("user_id")
		userID, ok := userIDValue.(uuid.UUID)
		if !ok {
			response.Unauthorized(c, "User not authenticated")
			c.Abort()
			return
		}

		hash, err := requestHash(c)
		if err != nil {
			response.BadRequest(c, "Could not read request body")
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		existing, err := config.Repo.GetByKey(ctx, key, userID)
		if err != nil {
			response.InternalServerError(c, "Failed to check idempotency key")
			c.Abort()
			return
		}
		if existing != nil {
			if !existing.IsExpired() {
				answerExisting(c, existing, hash)
				return
			}
			if err := config.Repo.DeleteExpired(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to purge expired idempotency keys")
			}
		}

		reservation := &entity.IdempotencyKey{
			ID:          uuid.New(),
			Key:         key,
			UserID:      userID,
			Endpoint:    c.Request.Method + " " + c.FullPath(),
			RequestHash: hash,
			ExpiresAt:   time.Now().Add(IdempotencyPendingTTL),
		}
		reserved, err := config.Repo.Reserve(ctx, reservation)
		if err != nil {
			response.InternalServerError(c, "Failed to reserve idempotency key")
			c.Abort()
			return
		}
		if !reserved {
			// lost the race to a request with the same key
			winner, err := config.Repo.GetByKey(ctx, key, userID)
			if err != nil || winner == nil {
				response.Conflict(c, "A request with this Idempotency-Key is already in progress")
				c.Abort()
				return
			}
			answerExisting(c, winner, hash)
			return
		}

		// the outcome is recorded even if the client has gone away
		store := context.WithoutCancel(ctx)
		settled := false
		defer func() {
			if settled {
				return
			}
			if err := config.Repo.Release(store, reservation.ID); err != nil {
				log.Warn().Err(err).Str("endpoint", reservation.Endpoint).Msg("failed to release idempotency key")
			}
		}()

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}

		if err := config.Repo.Complete(store, reservation.ID, status, blw.body.String(), time.Now().Add(IdempotencyKeyTTL)); err != nil {
			log.Warn().Err(err).
				Str("request_id", c.GetString(RequestIDKey)).
				Str("endpoint", reservation.Endpoint).
				Msg("failed to store idempotency key")
			return
		}
		settled = true
	}
}

// answerExisting replies to a request whose key is already held.
func answerExisting(c *gin.Context, existing *entity.IdempotencyKey, hash string) {
	defer c.Abort()

	if existing.RequestHash != hash {
		response.ErrorWithCode(c, http.StatusUnprocessableEntity, "Idempotency-Key was already used for a different request")
		return
	}
	if existing.InFlight() {
		response.Conflict(c, "A request with this Idempotency-Key is already in progress")
		return
	}
	c.Header("X-Idempotency-Replayed", "true")
	c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
}

// requestHash fingerprints method, path and body, then restores the body.
func requestHash(c *gin.Context) (string, error) {
	var body []byte
	if c.Request.Body != nil {
		b, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return "", err
		}
		body = b
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}

	h := sha256.New()
	h.Write([]byte(c.Request.Method + " " + c.Request.URL.Path + "\n"))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil)), nil
}
