package corpus

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultFetchConcurrency bounds parallel record fetches per load.
const DefaultFetchConcurrency = 4

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	// Encodings is the decode order (WHATWG labels). Default: DefaultEncodings.
	Encodings []string

	// MinTextLength is the minimum essay length in runes. Default: DefaultMinTextLength.
	MinTextLength int

	// Concurrency bounds parallel fetches. Default: DefaultFetchConcurrency.
	Concurrency int

	Logger *zap.Logger
}

// Loader turns a Source into validated Items.
type Loader struct {
	decoder     *Decoder
	minText     int
	concurrency int
	logger      *zap.Logger
}

// Report summarizes one load.
type Report struct {
	Source     string
	Category   Category
	Candidates int
	Loaded     int
	Skipped    []*RecordParseError
}

// NewLoader validates opts and builds a Loader.
func NewLoader(opts LoaderOptions) (*Loader, error) {
	dec, err := NewDecoder(opts.Encodings)
	if err != nil {
		return nil, err
	}
	l := &Loader{
		decoder:     dec,
		minText:     opts.MinTextLength,
		concurrency: opts.Concurrency,
		logger:      opts.Logger,
	}
	if l.minText <= 0 {
		l.minText = DefaultMinTextLength
	}
	if l.concurrency <= 0 {
		l.concurrency = DefaultFetchConcurrency
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	return l, nil
}

// Load reads every record at src. Items are returned in key order. Bad
// records are skipped and listed in the report; the error is non-nil only
// when no item survives or the context is cancelled.
func (l *Loader) Load(ctx context.Context, src Source, category Category) ([]Item, Report, error) {
	rep := Report{Source: src.Name(), Category: category}
	log := l.logger.With(zap.String("source", rep.Source), zap.Stringer("category", category))

	listed, err := src.List(ctx)
	if err != nil {
		log.Warn("corpus listing failed", zap.Error(err))
		return nil, rep, fmt.Errorf("%s: %w: %w", rep.Source, ErrCorpusUnavailable, err)
	}
	keys := recordKeys(listed)
	rep.Candidates = len(keys)

	raws := make([][]byte, len(keys))
	fetchErrs := make([]error, len(keys))
	var g errgroup.Group
	g.SetLimit(l.concurrency)
	for i, key := range keys {
		g.Go(func() error {
			raws[i], fetchErrs[i] = src.Fetch(ctx, key)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, rep, err
	}

	seen := make(map[int]string, len(keys))
	items := make([]Item, 0, len(keys))
	for i, key := range keys {
		item, err := l.parse(key, raws[i], fetchErrs[i], category)
		if err == nil {
			if prev, dup := seen[item.ID]; dup {
				err = &RecordParseError{Key: key, Line: lineID, Err: fmt.Errorf("%w (first seen in %s)", ErrDuplicateID, prev)}
			}
		}
		if err != nil {
			var perr *RecordParseError
			if !errors.As(err, &perr) {
				perr = &RecordParseError{Key: key, Err: err}
			}
			rep.Skipped = append(rep.Skipped, perr)
			log.Warn("skipping corpus record", zap.String("key", key), zap.Error(perr))
			continue
		}
		seen[item.ID] = key
		items = append(items, item)
	}
	rep.Loaded = len(items)

	log.Info("corpus loaded",
		zap.Int("candidates", rep.Candidates),
		zap.Int("loaded", rep.Loaded),
		zap.Int("skipped", len(rep.Skipped)),
	)

	if len(items) == 0 {
		return nil, rep, fmt.Errorf("%s: %w: no valid records among %d candidates",
			rep.Source, ErrCorpusUnavailable, rep.Candidates)
	}
	return items, rep, nil
}

func (l *Loader) parse(key string, raw []byte, fetchErr error, category Category) (Item, error) {
	if fetchErr != nil {
		return Item{}, &RecordParseError{Key: key, Err: fmt.Errorf("fetch: %w", fetchErr)}
	}
	text, _, err := l.decoder.Decode(raw)
	if err != nil {
		return Item{}, &RecordParseError{Key: key, Err: err}
	}
	return ParseRecord(key, text, category, l.minText)
}
