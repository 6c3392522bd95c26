package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sepme/sepme/internal/config"
	"github.com/sepme/sepme/internal/logging"
	"github.com/sepme/sepme/internal/store"
)

// v holds flags, environment and the config file; flags win.
var v = config.New()

var rootCmd = &cobra.Command{
	Use:   "sepme",
	Short: "Essay grading practice in the terminal",
	Long: "sepme trains writing teachers to grade student essays: estimate a grade,\n" +
		"estimate the content, organization and expression scores, and compare with\n" +
		"the reference answers.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a config file (default: ./config.yaml or $XDG_CONFIG_HOME/sepme/config.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides SEPME_DB env var)")
	pf.String("log-file", "", "Write JSON logs to this file")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("corpus-dir", "", "Load essays from this local directory instead of the configured source")
	mustBind(v.BindPFlag("db.path", pf.Lookup("db")))
	mustBind(v.BindPFlag("log.file", pf.Lookup("log-file")))
	mustBind(v.BindPFlag("log.level", pf.Lookup("log-level")))

	f := rootCmd.Flags()
	f.Int("questions", 0, "Questions per practice (1-15)")
	f.Uint64("seed", 0, "Shuffle seed; 0 picks a random order")
	mustBind(v.BindPFlag("questions.count", f.Lookup("questions")))
	mustBind(v.BindPFlag("questions.seed", f.Lookup("seed")))

	rootCmd.AddCommand(corpusCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

func mustBind(err error) {
	if err != nil {
		panic(err)
	}
}

// env is what every command needs once flags are parsed.
type env struct {
	cfg    config.Config
	logger *zap.Logger
	sync   func()
}

// setup loads the config and builds the logger. console, when set, also
// receives warnings and errors.
func setup(cmd *cobra.Command, console io.Writer) (*env, error) {
	file, _ := cmd.Flags().GetString("config")
	if dir, _ := cmd.Flags().GetString("corpus-dir"); dir != "" {
		v.Set("corpus.type", config.SourceDir)
		v.Set("corpus.dir", dir)
	}
	cfg, err := config.Load(v, file)
	if err != nil {
		return nil, err
	}
	logger, sync, err := logging.New(cfg.Log, console)
	if err != nil {
		return nil, err
	}
	logger.Debug("config loaded", zap.String("file", v.ConfigFileUsed()), zap.String("corpus", cfg.Corpus.Type))
	return &env{cfg: cfg, logger: logger, sync: sync}, nil
}

// openStore opens the database at db.path or the default location.
func (e *env) openStore() (*store.Store, error) {
	path := e.cfg.DB.Path
	if path == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		path = p
	} else if err := store.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.logger.Debug("store opened", zap.String("path", path))
	return st, nil
}
