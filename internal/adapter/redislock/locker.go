package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"campaignstudio/internal/domain"
)

const keyPrefix = "campaignstudio:lock:campaign:"

// releaseScript deletes the key only while it still holds our token, so an
// expired lock re-acquired by another replica is never released by us.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`

type commands interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *goredis.Cmd
}

// Locker serialises campaign mutations across API replicas.
type Locker struct {
	rdb    commands
	ttl    time.Duration
	logger zerolog.Logger
}

// New builds a Locker. A non-positive ttl falls back to ten minutes.
func New(rdb *goredis.Client, ttl time.Duration, logger zerolog.Logger) *Locker {
	return newLocker(rdb, ttl, logger)
}

func newLocker(rdb commands, ttl time.Duration, logger zerolog.Logger) *Locker {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Locker{rdb: rdb, ttl: ttl, logger: logger}
}

// Acquire takes the campaign lock or fails with domain.ErrCampaignBusy.
func (l *Locker) Acquire(ctx context.Context, campaignID string) (func(), error) {
	key := keyPrefix + campaignID
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire campaign lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrCampaignBusy
	}

	release := func() {
		// the caller's context may already be cancelled when the run ends
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.rdb.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil {
			l.logger.Warn().Err(err).Str("campaign_id", campaignID).Msg("release campaign lock failed")
		}
	}
	return release, nil
}
