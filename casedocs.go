package casedocs

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnavailable     = errors.New("unavailable")
	ErrInvalidArgument = errors.New("invalid argument")
)

type clock func() time.Time

// LookupStrategy decides how document data is fetched for authorized cases.
type LookupStrategy string

const (
	// StrategyBatched collects every authorized case first and fetches their
	// documents with a single call to the document index.
	StrategyBatched LookupStrategy = "batched"
	// StrategyPerCase fetches documents with one call per authorized case.
	StrategyPerCase LookupStrategy = "per-case"
)

const defaultDocumentBatchSize = 500

type Service struct {
	store             Store
	documents         DocumentIndex
	storage           FileStorage
	logger            *zap.Logger
	now               clock
	strategy          LookupStrategy
	documentBatchSize int
}

type Option func(*Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithStrategy(strategy LookupStrategy) Option {
	return func(s *Service) {
		s.strategy = strategy
	}
}

// WithDocumentBatchSize caps how many case refs go into one document index call.
func WithDocumentBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.documentBatchSize = size
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(store Store, documents DocumentIndex, storage FileStorage, options ...Option) *Service {
	s := &Service{
		store:             store,
		documents:         documents,
		storage:           storage,
		logger:            zap.NewNop(),
		now:               func() time.Time { return time.Now().UTC() },
		strategy:          StrategyBatched,
		documentBatchSize: defaultDocumentBatchSize,
	}

	for _, o := range options {
		o(s)
	}

	s.logger.Sugar().With(
		"strategy", s.strategy,
		"document_batch_size", s.documentBatchSize,
	).Info("init casedocs service")

	return s
}

func ParseStrategy(s string) (LookupStrategy, error) {
	switch LookupStrategy(s) {
	case StrategyBatched, "":
		return StrategyBatched, nil
	case StrategyPerCase:
		return StrategyPerCase, nil
	default:
		return "", fmt.Errorf("%w: unknown lookup strategy %q", ErrInvalidArgument, s)
	}
}
