package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/RichardKnop/casedocs"
)

// SaveDocuments writes through to the wrapped index and evicts the cached
// entries of every affected case. When the write joins a store transaction
// the caller must evict again after commit, see EvictDocuments.
func (a *Adapter) SaveDocuments(ctx context.Context, documents ...casedocs.Document) error {
	if err := a.next.SaveDocuments(ctx, documents...); err != nil {
		return err
	}

	refs := make([]casedocs.CaseRef, 0, len(documents))
	for _, aDocument := range documents {
		refs = append(refs, aDocument.CaseRef)
	}

	return a.EvictDocuments(ctx, refs...)
}

// EvictDocuments drops the cached entries of refs with a single DEL.
func (a *Adapter) EvictDocuments(ctx context.Context, refs ...casedocs.CaseRef) error {
	if len(refs) == 0 {
		return nil
	}

	var (
		keys = make([]string, 0, len(refs))
		seen = make(map[casedocs.CaseRef]struct{}, len(refs))
	)
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		keys = append(keys, a.key(ref))
	}

	if err := a.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("evict cached documents: %w", err)
	}

	return nil
}

// ListDocuments reads all refs with one MGET, loads the misses from the
// wrapped index in one batched call and caches them with one pipeline.
// Cached refs come first in the result, followed by the loaded ones.
func (a *Adapter) ListDocuments(ctx context.Context, refs ...casedocs.CaseRef) ([]casedocs.Document, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		keys = append(keys, a.key(ref))
	}

	values, err := a.client.MGet(ctx, keys...).Result()
	if err != nil {
		// The cache is an optimisation, fall back to the wrapped index.
		a.logger.Sugar().With("error", err).Warn("redis mget failed")
		return a.next.ListDocuments(ctx, refs...)
	}

	var (
		documents []casedocs.Document
		misses    []casedocs.CaseRef
	)
	for i, value := range values {
		cached, ok := value.(string)
		if !ok {
			misses = append(misses, refs[i])
			continue
		}
		var entry []casedocs.Document
		if err := json.Unmarshal([]byte(cached), &entry); err != nil {
			a.logger.Sugar().With("key", keys[i], "error", err).Warn("discarding corrupt cache entry")
			misses = append(misses, refs[i])
			continue
		}
		documents = append(documents, entry...)
	}

	if len(misses) == 0 {
		return documents, nil
	}

	loaded, err := a.next.ListDocuments(ctx, misses...)
	if err != nil {
		return nil, err
	}
	documents = append(documents, loaded...)

	if err := a.fill(ctx, casedocs.PartitionDocuments(misses, loaded)); err != nil {
		a.logger.Sugar().With("error", err).Warn("redis cache fill failed")
	}

	return documents, nil
}

func (a *Adapter) fill(ctx context.Context, grouped map[casedocs.CaseRef][]casedocs.Document) error {
	_, err := a.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for ref, documents := range grouped {
			data, err := json.Marshal(documents)
			if err != nil {
				return err
			}
			pipe.Set(ctx, a.key(ref), data, a.ttl)
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
