package payby

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotificationLocked means another worker is applying a notification
// for the same correlation id right now. The gateway retries delivery,
// so contention is reported as a transient failure rather than waited
// out.
var ErrNotificationLocked = errors.New("notification for this id is being processed")

const notifyLockTTL = 30 * time.Second

// NotifyLock serializes notification handling per correlation id with a
// Redis advisory lock. A nil client disables locking, which single
// instance deployments and tests rely on.
type NotifyLock struct {
	client *redis.Client
}

// NewNotifyLock creates a NotifyLock.
func NewNotifyLock(client *redis.Client) *NotifyLock {
	return &NotifyLock{client: client}
}

// Acquire takes the lock for the given correlation id and returns a
// release func. ErrNotificationLocked means someone else holds it.
func (l *NotifyLock) Acquire(ctx context.Context, id string) (func(), error) {
	if l.client == nil {
		return func() {}, nil
	}

	key := "payby:notify:lock:" + id
	ok, err := l.client.SetNX(ctx, key, "1", notifyLockTTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotificationLocked
	}
	return func() {
		// Release on a fresh context so a cancelled request still
		// unlocks; the TTL covers crashes.
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		l.client.Del(releaseCtx, key)
	}, nil
}
