// Package idempotency runs side-effecting operations at most once per key.
// State lives in Redis so every replica sees the same history.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrAlreadyInProgress = errors.New("idempotency: operation already in progress")
	ErrAlreadyCompleted  = errors.New("idempotency: operation already completed")
	ErrInvalidState      = errors.New("idempotency: invalid state")
)

// State is what Redis holds for a key. StateNone means the caller now owns it.
type State string

const (
	StateNone       State = "none"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateError      State = "error"
)

func (s State) String() string { return string(s) }

type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

const (
	defaultPrefix       = "idempotency:"
	defaultLockDuration = time.Minute
	defaultStateTTL     = 24 * time.Hour
)

// acquireScript claims KEYS[1] with ARGV[1] for ARGV[2] ms, or returns the
// value already there. Doing both in one round trip leaves no window where
// the key expires between the check and the claim.
var acquireScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur then
	return cur
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
return ''
`)

// releaseScript deletes KEYS[1] only while it is still marked in progress,
// so a lock that expired and was re-claimed is not released by its old owner.
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

type StateTracker struct {
	client redis.UniversalClient
	prefix string
}

// New stores keys under prefix, "idempotency:" when empty.
func New(client redis.UniversalClient, prefix string) *StateTracker {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &StateTracker{client: client, prefix: prefix}
}

type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

// WithLockDuration bounds how long an in-progress marker survives a crash.
func WithLockDuration(d time.Duration) Option {
	return func(o *execOptions) { o.lockDuration = d }
}

// WithStateTTL sets how long a completed key is remembered.
func WithStateTTL(d time.Duration) Option {
	return func(o *execOptions) { o.stateTTL = d }
}

func (s *StateTracker) Acquire(ctx context.Context, key string, lock time.Duration) (State, error) {
	cur, err := acquireScript.Run(ctx, s.client, []string{s.prefix + key},
		StateInProgress.String(), lock.Milliseconds()).Text()
	if err != nil {
		return StateError, err
	}

	switch State(cur) {
	case "":
		return StateNone, nil
	case StateInProgress, StateCompleted:
		return State(cur), nil
	default:
		return StateError, ErrInvalidState
	}
}

func (s *StateTracker) MarkCompleted(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, StateCompleted.String(), ttl).Err()
}

func (s *StateTracker) release(ctx context.Context, key string) error {
	return releaseScript.Run(ctx, s.client, []string{s.prefix + key}, StateInProgress.String()).Err()
}

// Exec runs fn unless key is in progress or completed. When fn fails the key
// is released so the caller may retry with it.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	o := execOptions{lockDuration: defaultLockDuration, stateTTL: defaultStateTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.lockDuration <= 0 {
		o.lockDuration = defaultLockDuration
	}
	if o.stateTTL <= 0 {
		o.stateTTL = defaultStateTTL
	}

	state, err := s.Acquire(ctx, key, o.lockDuration)
	switch {
	case err != nil:
		return err
	case state == StateInProgress:
		return ErrAlreadyInProgress
	case state == StateCompleted:
		return ErrAlreadyCompleted
	}

	if err := fn(ctx); err != nil {
		return errors.Join(err, s.release(context.WithoutCancel(ctx), key))
	}
	return s.MarkCompleted(ctx, key, o.stateTTL)
}
