package cache

import (
	"context"
	"crypto/md5"
	"fmt"
	"strings"
	"time"
)

// TTL policies for the three logical caches sharing one backing store.
const (
	IntentTTL    = 1 * time.Hour
	RetrievalTTL = 6 * time.Hour
	AnswerTTL    = 24 * time.Hour
)

// Facade exposes the three pipeline caches. Keys are prefixed per cache so
// TTL policy and invalidation stay independent.
type Facade struct {
	store Store
}

func NewFacade(store Store) *Facade {
	return &Facade{store: store}
}

func hash(parts ...string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(strings.Join(parts, "\x00"))))
}

// NormalizeQuestion produces the canonical form used for answer-cache keys.
func NormalizeQuestion(question string) string {
	return strings.ToLower(strings.TrimSpace(question))
}

// Intent analysis cache

func (f *Facade) GetIntent(ctx context.Context, message, history string, dest interface{}) bool {
	return f.store.Get(ctx, "intent:"+hash(message, history), dest)
}

func (f *Facade) SetIntent(ctx context.Context, message, history string, value interface{}) {
	f.store.Set(ctx, "intent:"+hash(message, history), value, IntentTTL)
}

// Retrieval results cache (raw pre-threshold passages, so threshold tuning
// does not require invalidation)

func (f *Facade) GetRetrieval(ctx context.Context, query, scopeKey string, dest interface{}) bool {
	return f.store.Get(ctx, "rag:"+hash(query, scopeKey), dest)
}

func (f *Facade) SetRetrieval(ctx context.Context, query, scopeKey string, value interface{}) {
	f.store.Set(ctx, "rag:"+hash(query, scopeKey), value, RetrievalTTL)
}

// Final answer cache

func (f *Facade) GetAnswer(ctx context.Context, question, scopeKey string, dest interface{}) bool {
	return f.store.Get(ctx, "answer:"+hash(NormalizeQuestion(question), scopeKey), dest)
}

func (f *Facade) SetAnswer(ctx context.Context, question, scopeKey string, value interface{}) {
	f.store.Set(ctx, "answer:"+hash(NormalizeQuestion(question), scopeKey), value, AnswerTTL)
}
