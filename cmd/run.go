package cmd

import (
	"fmt"
	"math/rand/v2"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sepme/sepme/internal/app"
	"github.com/sepme/sepme/internal/config"
	"github.com/sepme/sepme/internal/corpus"
	"github.com/sepme/sepme/internal/feedback"
	"github.com/sepme/sepme/internal/screens/assignment"
	"github.com/sepme/sepme/internal/session"
)

// runApp loads the configuration, builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer e.sync()

	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	provider, err := newProvider(e.cfg, e.logger)
	if err != nil {
		return err
	}

	seed := e.cfg.Questions.Seed
	opts := app.Options{
		QuestionCount: e.cfg.Questions.Count,
		Assets: []assignment.Asset{
			{Label: "Writing task", Name: e.cfg.Assets.Assignment},
			{Label: "Scoring rubric", Name: e.cfg.Assets.Standard},
			{Label: "Sample prompt", Name: e.cfg.Assets.Prompt},
		},
		Provider: provider,
		Resolver: newResolver(e.cfg, e.logger),
		Repo:     st.ResultRepo(),
		NewRand:  func() *rand.Rand { return session.NewRand(seed) },
		Logger:   e.logger,
	}

	e.logger.Info("starting",
		zap.String("version", version),
		zap.String("corpus", e.cfg.Corpus.Type),
		zap.Int("questions", e.cfg.Questions.Count),
	)
	return app.Run(opts)
}

func newLoader(cfg config.Config, logger *zap.Logger) (*corpus.Loader, error) {
	l, err := corpus.NewLoader(corpus.LoaderOptions{
		Encodings:     cfg.Corpus.Encodings,
		MinTextLength: cfg.Corpus.MinTextLength,
		Concurrency:   cfg.Corpus.Concurrency,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("corpus loader: %w", err)
	}
	return l, nil
}

// newSources builds one source per category for the configured backend.
func newSources(cfg config.Config) (map[corpus.Category]corpus.Source, error) {
	folders := map[corpus.Category]string{
		corpus.GradeEstimation: cfg.Corpus.GradeFolder,
		corpus.ScoreEstimation: cfg.Corpus.ScoreFolder,
	}
	sources := make(map[corpus.Category]corpus.Source, len(folders))
	for cat, folder := range folders {
		switch cfg.Corpus.Type {
		case config.SourceDir:
			sources[cat] = corpus.NewDirSource(filepath.Join(cfg.Corpus.Dir, filepath.FromSlash(folder)))
		case config.SourceGitHub:
			gh := cfg.Corpus.GitHub
			sources[cat] = corpus.NewGitHubSource(corpus.GitHubConfig{
				APIURL: gh.APIURL,
				RawURL: gh.RawURL,
				Owner:  gh.Owner,
				Repo:   gh.Repo,
				Branch: gh.Branch,
				Folder: folder,
			})
		case config.SourceBucket:
			b := cfg.Corpus.Bucket
			src, err := corpus.NewBucketSource(corpus.BucketConfig{
				Endpoint:  b.Endpoint,
				AccessKey: b.AccessKey,
				SecretKey: b.SecretKey,
				Region:    b.Region,
				Bucket:    b.Bucket,
				Prefix:    bucketPrefix(folder),
				Secure:    b.Secure,
			})
			if err != nil {
				return nil, err
			}
			sources[cat] = src
		default:
			return nil, fmt.Errorf("unknown corpus.type %q", cfg.Corpus.Type)
		}
	}
	return sources, nil
}

// bucketPrefix turns a folder into an object key prefix. An empty folder
// lists the whole bucket.
func bucketPrefix(folder string) string {
	p := strings.TrimPrefix(path.Clean("/"+folder), "/")
	if p == "" {
		return ""
	}
	return p + "/"
}

func newProvider(cfg config.Config, logger *zap.Logger) (*corpus.Provider, error) {
	loader, err := newLoader(cfg, logger)
	if err != nil {
		return nil, err
	}
	sources, err := newSources(cfg)
	if err != nil {
		return nil, err
	}
	return corpus.NewProvider(loader, sources, cfg.Corpus.AllowPlaceholder, logger), nil
}

func newResolver(cfg config.Config, logger *zap.Logger) *feedback.Resolver {
	return feedback.NewResolver(feedback.Config{
		Base:     cfg.Feedback.Base,
		GradeDir: cfg.Feedback.GradeDir,
		ScoreDir: cfg.Feedback.ScoreDir,
		Timeout:  cfg.Feedback.Timeout,
	}, logger)
}
