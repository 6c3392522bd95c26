// Package feedback resolves feedback and instructional images. The terminal
// cannot render them, so the resolver returns a reference (URL or path) that
// the screens print, after checking that the image actually exists.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sepme/sepme/internal/corpus"
)

// ErrImageUnavailable means the image does not exist or could not be
// checked. Callers omit the image and carry on.
var ErrImageUnavailable = errors.New("image unavailable")

// Default feedback folders under Base.
const (
	DefaultGradeDir = "f_grade"
	DefaultScoreDir = "f_score"
	DefaultTimeout  = 5 * time.Second
)

// Config locates images. Base is either an http(s) URL prefix or a local
// directory.
type Config struct {
	Base     string
	GradeDir string
	ScoreDir string
	Timeout  time.Duration

	// Client overrides the HTTP client used for probing.
	Client *http.Client
}

// Resolver maps items and asset names to image references. Probe results
// are cached for the lifetime of the resolver.
type Resolver struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger

	mu    sync.Mutex
	known map[string]bool
}

// NewResolver creates a resolver. A nil logger discards logs.
func NewResolver(cfg Config, logger *zap.Logger) *Resolver {
	if cfg.GradeDir == "" {
		cfg.GradeDir = DefaultGradeDir
	}
	if cfg.ScoreDir == "" {
		cfg.ScoreDir = DefaultScoreDir
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		cfg:    cfg,
		client: client,
		logger: logger,
		known:  make(map[string]bool),
	}
}

// Feedback returns the feedback image for item id of category:
// {base}/{dir}/{id}.png.
func (r *Resolver) Feedback(ctx context.Context, category corpus.Category, id int) (string, error) {
	if id < 0 {
		return "", fmt.Errorf("synthetic item %d: %w", id, ErrImageUnavailable)
	}
	dir := r.cfg.GradeDir
	if category == corpus.ScoreEstimation {
		dir = r.cfg.ScoreDir
	}
	return r.resolve(ctx, dir, strconv.Itoa(id)+".png")
}

// Asset returns an instructional image by file name, relative to Base.
func (r *Resolver) Asset(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty asset name: %w", ErrImageUnavailable)
	}
	return r.resolve(ctx, name)
}

func (r *Resolver) resolve(ctx context.Context, parts ...string) (string, error) {
	if r.cfg.Base == "" {
		return "", fmt.Errorf("no image base configured: %w", ErrImageUnavailable)
	}
	ref := r.join(parts...)

	r.mu.Lock()
	ok, cached := r.known[ref]
	r.mu.Unlock()
	if cached {
		if !ok {
			return "", fmt.Errorf("%s: %w", ref, ErrImageUnavailable)
		}
		return ref, nil
	}

	err := r.probe(ctx, ref)
	if err != nil && ctx.Err() != nil {
		// Not cached: a cancelled probe says nothing about the image.
		return "", fmt.Errorf("%s: %w: %w", ref, ErrImageUnavailable, err)
	}
	r.mu.Lock()
	r.known[ref] = err == nil
	r.mu.Unlock()

	if err != nil {
		r.logger.Debug("image unavailable", zap.String("ref", ref), zap.Error(err))
		return "", fmt.Errorf("%s: %w: %w", ref, ErrImageUnavailable, err)
	}
	return ref, nil
}

func (r *Resolver) remote() bool {
	return strings.HasPrefix(r.cfg.Base, "http://") || strings.HasPrefix(r.cfg.Base, "https://")
}

func (r *Resolver) join(parts ...string) string {
	if r.remote() {
		return strings.TrimRight(r.cfg.Base, "/") + "/" + strings.Join(parts, "/")
	}
	return filepath.Join(append([]string{r.cfg.Base}, parts...)...)
}

func (r *Resolver) probe(ctx context.Context, ref string) error {
	if !r.remote() {
		info, err := os.Stat(ref)
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return errors.New("not a regular file")
		}
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, ref, nil)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return nil
}
