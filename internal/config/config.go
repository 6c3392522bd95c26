// Package config loads sepme settings from defaults, an optional YAML file,
// SEPME_* environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SEPME_QUESTIONS_COUNT.
const EnvPrefix = "SEPME"

// Corpus source types.
const (
	SourceGitHub = "github"
	SourceDir    = "dir"
	SourceBucket = "bucket"
)

type Config struct {
	Questions QuestionsConfig `mapstructure:"questions"`
	Corpus    CorpusConfig    `mapstructure:"corpus"`
	Feedback  FeedbackConfig  `mapstructure:"feedback"`
	Assets    AssetsConfig    `mapstructure:"assets"`
	DB        DBConfig        `mapstructure:"db"`
	Log       LogConfig       `mapstructure:"log"`
}

type QuestionsConfig struct {
	Count int `mapstructure:"count"`

	// Seed fixes the shuffle order; 0 means random.
	Seed uint64 `mapstructure:"seed"`
}

type CorpusConfig struct {
	// Type is one of SourceGitHub, SourceDir, SourceBucket.
	Type string `mapstructure:"type"`

	// Folders holding the grade and score records, relative to the source root.
	GradeFolder string `mapstructure:"grade_folder"`
	ScoreFolder string `mapstructure:"score_folder"`

	// Dir is the local root for SourceDir.
	Dir string `mapstructure:"dir"`

	Encodings        []string `mapstructure:"encodings"`
	MinTextLength    int      `mapstructure:"min_text_length"`
	Concurrency      int      `mapstructure:"concurrency"`
	AllowPlaceholder bool     `mapstructure:"allow_placeholder"`

	GitHub GitHubConfig `mapstructure:"github"`
	Bucket BucketConfig `mapstructure:"bucket"`
}

type GitHubConfig struct {
	APIURL string `mapstructure:"api_url"`
	RawURL string `mapstructure:"raw_url"`
	Owner  string `mapstructure:"owner"`
	Repo   string `mapstructure:"repo"`
	Branch string `mapstructure:"branch"`
}

type BucketConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Secure    bool   `mapstructure:"secure"`
}

type FeedbackConfig struct {
	// Base is a URL prefix or a local directory holding the feedback folders
	// and the instructional images.
	Base     string        `mapstructure:"base"`
	GradeDir string        `mapstructure:"grade_dir"`
	ScoreDir string        `mapstructure:"score_dir"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// AssetsConfig names the instructional images under Feedback.Base.
type AssetsConfig struct {
	Assignment string `mapstructure:"assignment"`
	Standard   string `mapstructure:"standard"`
	Prompt     string `mapstructure:"prompt"`
}

type DBConfig struct {
	// Path of the SQLite file. Empty selects store.DefaultDBPath.
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	// File receives JSON logs. Empty disables logging.
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// SetDefaults registers the default of every key on v. Keys must be known
// to viper for AutomaticEnv to reach them during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("questions.count", 3)
	v.SetDefault("questions.seed", 0)

	v.SetDefault("corpus.type", SourceGitHub)
	v.SetDefault("corpus.grade_folder", "data/grade")
	v.SetDefault("corpus.score_folder", "data/scre")
	v.SetDefault("corpus.dir", ".")
	v.SetDefault("corpus.encodings", []string{"utf-8", "euc-kr", "utf-16le"})
	v.SetDefault("corpus.min_text_length", 10)
	v.SetDefault("corpus.concurrency", 4)
	v.SetDefault("corpus.allow_placeholder", true)

	v.SetDefault("corpus.github.api_url", "https://api.github.com")
	v.SetDefault("corpus.github.raw_url", "https://raw.githubusercontent.com")
	v.SetDefault("corpus.github.owner", "liisso")
	v.SetDefault("corpus.github.repo", "sep-me-streamlit1")
	v.SetDefault("corpus.github.branch", "main")

	v.SetDefault("corpus.bucket.endpoint", "")
	v.SetDefault("corpus.bucket.access_key", "")
	v.SetDefault("corpus.bucket.secret_key", "")
	v.SetDefault("corpus.bucket.region", "")
	v.SetDefault("corpus.bucket.bucket", "")
	v.SetDefault("corpus.bucket.secure", true)

	v.SetDefault("feedback.base", "https://raw.githubusercontent.com/liisso/sep-me-streamlit1/main/data")
	v.SetDefault("feedback.grade_dir", "f_grade")
	v.SetDefault("feedback.score_dir", "f_score")
	v.SetDefault("feedback.timeout", 5*time.Second)

	v.SetDefault("assets.assignment", "assignment.png")
	v.SetDefault("assets.standard", "standard.png")
	v.SetDefault("assets.prompt", "prompt.jpg")

	v.SetDefault("db.path", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// New returns a viper instance with defaults and environment lookup wired.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (if any) into v and decodes the result. An
// empty file searches the working directory and $XDG_CONFIG_HOME/sepme for
// config.yaml and tolerates its absence; an explicit file must exist.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Questions.Count < 1 || c.Questions.Count > 15 {
		errs = append(errs, fmt.Errorf("questions.count %d outside [1, 15]", c.Questions.Count))
	}
	switch c.Corpus.Type {
	case SourceGitHub:
		if c.Corpus.GitHub.Owner == "" || c.Corpus.GitHub.Repo == "" {
			errs = append(errs, errors.New("corpus.github.owner and corpus.github.repo are required"))
		}
	case SourceDir:
		if c.Corpus.Dir == "" {
			errs = append(errs, errors.New("corpus.dir is required"))
		}
	case SourceBucket:
		if c.Corpus.Bucket.Endpoint == "" || c.Corpus.Bucket.Bucket == "" {
			errs = append(errs, errors.New("corpus.bucket.endpoint and corpus.bucket.bucket are required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown corpus.type %q", c.Corpus.Type))
	}
	if len(c.Corpus.Encodings) == 0 {
		errs = append(errs, errors.New("corpus.encodings must not be empty"))
	}
	if c.Corpus.MinTextLength < 1 {
		errs = append(errs, errors.New("corpus.min_text_length must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
