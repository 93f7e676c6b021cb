package redis

import (
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/RichardKnop/casedocs"
)

// Adapter caches case documents in redis in front of another document index.
type Adapter struct {
	client    redis.UniversalClient
	next      casedocs.DocumentIndex
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

type Option func(*Adapter)

const (
	defaultKeyPrefix = "casedocs:docs:"
	defaultTTL       = 10 * time.Minute
)

func New(client redis.UniversalClient, next casedocs.DocumentIndex, options ...Option) *Adapter {
	a := &Adapter{
		client:    client,
		next:      next,
		keyPrefix: defaultKeyPrefix,
		ttl:       defaultTTL,
		logger:    zap.NewNop(),
	}

	for _, o := range options {
		o(a)
	}

	a.logger.Sugar().With(
		"key_prefix", a.keyPrefix,
		"ttl", a.ttl,
	).Info("init redis document cache")

	return a
}

func WithKeyPrefix(prefix string) Option {
	return func(a *Adapter) {
		a.keyPrefix = prefix
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(a *Adapter) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

func (a *Adapter) key(ref casedocs.CaseRef) string {
	return a.keyPrefix + string(ref)
}
