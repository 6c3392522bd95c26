package corpus

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Corpus is the outcome of Provider.Get.
type Corpus struct {
	Items  []Item
	Report Report

	// Synthetic is true when Items came from Placeholder.
	Synthetic bool

	// Warning carries the load error that triggered the placeholder fallback.
	Warning error
}

// Provider memoizes corpus loads per source and applies the placeholder
// fallback policy. Loads run inside tea.Cmd goroutines, so the cache is
// guarded by a mutex.
type Provider struct {
	loader           *Loader
	sources          map[Category]Source
	allowPlaceholder bool
	logger           *zap.Logger

	mu    sync.Mutex
	cache map[string]Corpus
}

// NewProvider wires a loader to one source per category.
func NewProvider(loader *Loader, sources map[Category]Source, allowPlaceholder bool, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		loader:           loader,
		sources:          sources,
		allowPlaceholder: allowPlaceholder,
		logger:           logger,
		cache:            make(map[string]Corpus),
	}
}

// Get returns the corpus for category, loading it on first use.
// With placeholders allowed, an unavailable corpus degrades to the
// synthetic set and a nil error; Corpus.Warning explains why.
func (p *Provider) Get(ctx context.Context, category Category) (Corpus, error) {
	src, ok := p.sources[category]
	if !ok {
		return p.fallback(category, Report{Category: category},
			fmt.Errorf("no %s source configured: %w", category, ErrCorpusUnavailable))
	}

	cacheKey := category.String() + "|" + src.Name()
	p.mu.Lock()
	if c, ok := p.cache[cacheKey]; ok {
		p.mu.Unlock()
		return c, nil
	}
	p.mu.Unlock()

	items, rep, err := p.loader.Load(ctx, src, category)
	if err != nil {
		if ctx.Err() != nil {
			return Corpus{Report: rep}, err
		}
		c, ferr := p.fallback(category, rep, err)
		if ferr == nil {
			p.store(cacheKey, c)
		}
		return c, ferr
	}

	c := Corpus{Items: items, Report: rep}
	p.store(cacheKey, c)
	return c, nil
}

// Invalidate drops every cached corpus; the next Get reloads from the source.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache = make(map[string]Corpus)
}

func (p *Provider) store(key string, c Corpus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache[key] = c
}

func (p *Provider) fallback(category Category, rep Report, cause error) (Corpus, error) {
	if !p.allowPlaceholder {
		return Corpus{Report: rep}, cause
	}
	p.logger.Warn("using placeholder corpus",
		zap.Stringer("category", category),
		zap.Error(cause),
	)
	return Corpus{
		Items:     Placeholder(category),
		Report:    rep,
		Synthetic: true,
		Warning:   cause,
	}, nil
}
