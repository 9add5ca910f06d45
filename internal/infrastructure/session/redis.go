package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/sangkips/stockroom-api/internal/domain/billing"
	"github.com/sangkips/stockroom-api/internal/domain/production"
)

const (
	sessionKeyPrefix = "billing:session:"
	historyKeyPrefix = "production:history:"
)

// NewRedisClient parses url, connects and pings.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// RedisStore keeps each session as a JSON string with a sliding TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*billing.Session, error) {
	data, err := s.rdb.Get(ctx, sessionKeyPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess billing.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	if sess.Cart == nil {
		sess.Cart = billing.NewCart()
	}
	return &sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *billing.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKeyPrefix+sess.ID.String(), data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+id.String()).Err()
}

// RedisHistory stores history as a list trimmed to limit on every push.
type RedisHistory struct {
	rdb   *redis.Client
	limit int
	ttl   time.Duration
}

func NewRedisHistory(rdb *redis.Client, limit int, ttl time.Duration) *RedisHistory {
	if limit < 1 {
		limit = production.DefaultHistoryLimit
	}
	return &RedisHistory{rdb: rdb, limit: limit, ttl: ttl}
}

func (h *RedisHistory) Push(ctx context.Context, owner uuid.UUID, calc production.Calculation) error {
	data, err := json.Marshal(calc)
	if err != nil {
		return err
	}

	key := historyKeyPrefix + owner.String()
	_, err = h.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, data)
		pipe.LTrim(ctx, key, 0, int64(h.limit-1))
		if h.ttl > 0 {
			pipe.Expire(ctx, key, h.ttl)
		}
		return nil
	})
	return err
}

func (h *RedisHistory) List(ctx context.Context, owner uuid.UUID) ([]production.Calculation, error) {
	raw, err := h.rdb.LRange(ctx, historyKeyPrefix+owner.String(), 0, int64(h.limit-1)).Result()
	if err != nil {
		return nil, err
	}

	out := make([]production.Calculation, 0, len(raw))
	for _, item := range raw {
		var calc production.Calculation
		if err := json.Unmarshal([]byte(item), &calc); err != nil {
			continue
		}
		out = append(out, calc)
	}
	return out, nil
}

func (h *RedisHistory) Clear(ctx context.Context, owner uuid.UUID) error {
	return h.rdb.Del(ctx, historyKeyPrefix+owner.String()).Err()
}

const (
	lockKeyPrefix = "billing:lock:"
	lockTTL       = 15 * time.Second
	lockWait      = 5 * time.Second
	lockRetry     = 25 * time.Millisecond
)

// unlockScript deletes the lock only while it still carries our token, so an
// expired lock taken over by another replica is left alone.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker locks a session across replicas with SET NX PX.
type RedisLocker struct {
	rdb *redis.Client
}

// NewRedisLocker creates a Locker shared by every replica using rdb.
func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{rdb: rdb}
}

// Lock polls until the lock is taken, ctx ends or lockWait passes.
func (l *RedisLocker) Lock(ctx context.Context, id uuid.UUID) (func(), error) {
	key := lockKeyPrefix + id.String()
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	ticker := time.NewTicker(lockRetry)
	defer ticker.Stop()

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if ok {
			return func() {
				if err := unlockScript.Run(context.Background(), l.rdb, []string{key}, token).Err(); err != nil {
					log.Warn().Err(err).Str("session_id", id.String()).Msg("failed to release session lock")
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ErrLockTimeout
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
