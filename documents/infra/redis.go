package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"document-gateway/documents/domain"

	"github.com/redis/go-redis/v9"
)

// RedisRepository grava cada documento como JSON em <prefix>:doc:<doc_id> e
// indexa o doc_id em <prefix>:participant:<signature>.
type RedisRepository struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

type RedisOption func(*RedisRepository)

func WithPrefix(prefix string) RedisOption {
	return func(r *RedisRepository) {
		if p := strings.Trim(prefix, ":"); p != "" {
			r.prefix = p
		}
	}
}

// WithTTL expira documentos e índices; 0 mantém para sempre.
func WithTTL(d time.Duration) RedisOption {
	return func(r *RedisRepository) { r.ttl = d }
}

func NewRedisRepository(rdb redis.Cmdable, opts ...RedisOption) *RedisRepository {
	r := &RedisRepository{rdb: rdb, prefix: "documents"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RedisRepository) docKey(docID string) string {
	return r.prefix + ":doc:" + docID
}

func (r *RedisRepository) participantKey(signature string) string {
	return r.prefix + ":participant:" + signature
}

func (r *RedisRepository) Save(ctx context.Context, signature string, doc domain.Document) error {
	if doc.DocID == "" {
		return ErrEmptyDocID
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, r.docKey(doc.DocID), b, r.ttl)
	if signature != "" {
		pipe.SAdd(ctx, r.participantKey(signature), doc.DocID)
		if r.ttl > 0 {
			pipe.Expire(ctx, r.participantKey(signature), r.ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save %s: %w", doc.DocID, err)
	}
	return nil
}

func (r *RedisRepository) Get(ctx context.Context, docID string) (domain.Document, bool, error) {
	b, err := r.rdb.Get(ctx, r.docKey(docID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Document{}, false, nil
	}
	if err != nil {
		return domain.Document{}, false, err
	}
	var doc domain.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return domain.Document{}, false, fmt.Errorf("decode document %s: %w", docID, err)
	}
	return doc, true, nil
}

// ByParticipant lista os doc_ids salvos com a assinatura.
func (r *RedisRepository) ByParticipant(ctx context.Context, signature string) ([]string, error) {
	return r.rdb.SMembers(ctx, r.participantKey(signature)).Result()
}
