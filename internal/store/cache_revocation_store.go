package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Key namespaces of the revocation store.
const (
	BlacklistKeyPrefix     = "blacklisted_token:"
	RefreshTokenKeyPrefix  = "refresh_token:"
	PasswordResetKeyPrefix = "password_reset:"
)

// redisRevocationStore implements [RevocationStore] on Redis. Every backend
// error is logged at warn level and folded into the "absent" outcome.
type redisRevocationStore struct {
	client redis.Cmdable
	logger *logger.Logger
}

func NewRevocationStore(client redis.Cmdable, logger *logger.Logger) RevocationStore {
	logger.Debug().Msg("creating revocation store")
	return &redisRevocationStore{
		client: client,
		logger: logger,
	}
}

func (s *redisRevocationStore) Put(ctx context.Context, key, value string, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}

	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.warn(ctx, err, "*redisRevocationStore.Put", key)
		return false
	}
	return true
}

func (s *redisRevocationStore) Get(ctx context.Context, key string) (string, bool) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.warn(ctx, err, "*redisRevocationStore.Get", key)
		}
		return "", false
	}
	return value, true
}

func (s *redisRevocationStore) Delete(ctx context.Context, key string) bool {
	deleted, err := s.client.Del(ctx, key).Result()
	if err != nil {
		s.warn(ctx, err, "*redisRevocationStore.Delete", key)
		return false
	}
	return deleted > 0
}

func (s *redisRevocationStore) Exists(ctx context.Context, key string) bool {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		s.warn(ctx, err, "*redisRevocationStore.Exists", key)
		return false
	}
	return n > 0
}

// incrementScript sets the expiry only on the first increment, so the
// counter lives for ttl from its creation. PEXPIRE keeps it Redis 6
// compatible.
var incrementScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 and tonumber(ARGV[1]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

func (s *redisRevocationStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, bool) {
	n, err := incrementScript.Run(ctx, s.client, []string{key}, ttl.Milliseconds()).Int64()
	if err != nil {
		s.warn(ctx, err, "*redisRevocationStore.Increment", key)
		return 0, false
	}
	return n, true
}

func (s *redisRevocationStore) GetAndDelete(ctx context.Context, key string) (string, bool) {
	value, err := s.client.GetDel(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.warn(ctx, err, "*redisRevocationStore.GetAndDelete", key)
		}
		return "", false
	}
	return value, true
}

// warn logs only the key namespace: keys embed tokens.
func (s *redisRevocationStore) warn(ctx context.Context, err error, funcName, key string) {
	logger.FromContext(ctx).Warn().Err(err).
		Str("func", funcName).
		Str("namespace", keyNamespace(key)).
		Msg("revocation store unavailable")
}

func keyNamespace(key string) string {
	if prefix, _, found := strings.Cut(key, ":"); found {
		return prefix + ":"
	}
	return ""
}
