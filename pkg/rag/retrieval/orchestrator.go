package retrieval

import (
	"context"
	"log"
	"time"

	"github.com/cenkalti/backoff/v5"

	"ai-teacher-be/internal/constant"
	"ai-teacher-be/pkg/cache"
	"ai-teacher-be/pkg/metrics"
	"ai-teacher-be/pkg/vectorsearch"
)

// Orchestrator runs scoped vector retrieval with caching, retry and
// threshold filtering. A retrieval failure degrades to an empty result so
// the answer stage can refuse gracefully instead of erroring the request.
type Orchestrator struct {
	searcher    vectorsearch.Searcher
	cache       *cache.Facade
	threshold   float64
	topK        int
	maxAttempts int
	callTimeout time.Duration
	logger      *log.Logger
}

func NewOrchestrator(searcher vectorsearch.Searcher, cacheFacade *cache.Facade, threshold float64, topK int, logger *log.Logger) *Orchestrator {
	if threshold <= 0 {
		threshold = constant.SimilarityThreshold
	}
	if topK <= 0 {
		topK = constant.RetrievalTopK
	}
	return &Orchestrator{
		searcher:    searcher,
		cache:       cacheFacade,
		threshold:   threshold,
		topK:        topK,
		maxAttempts: constant.RetrievalMaxAttempts,
		callTimeout: 4 * time.Second,
		logger:      logger,
	}
}

// Retrieve returns the passages clearing the similarity threshold plus the
// best surviving score (0.0 when nothing survives). Raw pre-threshold
// results are what gets cached, so threshold tuning does not invalidate
// cached entries.
func (o *Orchestrator) Retrieve(ctx context.Context, query string, scope vectorsearch.Scope) ([]vectorsearch.Passage, float64) {
	var raw []vectorsearch.Passage
	if !o.cache.GetRetrieval(ctx, query, scope.Key(), &raw) {
		fetched, err := o.search(ctx, query, scope)
		if err != nil {
			o.logger.Printf("Retrieval failed after %d attempts, degrading to empty: %v", o.maxAttempts, err)
			return nil, 0.0
		}
		raw = fetched
		o.cache.SetRetrieval(ctx, query, scope.Key(), raw)
	}

	var best float64
	passages := make([]vectorsearch.Passage, 0, len(raw))
	for _, p := range raw {
		metrics.SimilarityScore.Observe(p.Score)
		if p.Score < o.threshold {
			continue
		}
		if p.Score > best {
			best = p.Score
		}
		passages = append(passages, p)
	}
	if len(passages) == 0 {
		return nil, 0.0
	}
	return passages, best
}

func (o *Orchestrator) search(ctx context.Context, query string, scope vectorsearch.Scope) ([]vectorsearch.Passage, error) {
	operation := func() ([]vectorsearch.Passage, error) {
		callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
		defer cancel()
		return o.searcher.Search(callCtx, query, o.topK, scope)
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 200 * time.Millisecond

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(uint(o.maxAttempts)),
	)
}
