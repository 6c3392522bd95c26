package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sepme/sepme/internal/config"
)

func TestNew_FileGetsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sepme.log")
	logger, flush, err := New(config.LogConfig{File: path, Level: "info"}, nil)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("corpus loaded", zap.Int("loaded", 3))
	flush()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "corpus loaded", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.EqualValues(t, 3, entry["loaded"])
}

func TestNew_ConsoleOnlyWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger, flush, err := New(config.LogConfig{Level: "debug"}, &buf)
	require.NoError(t, err)

	logger.Info("quiet")
	logger.Warn("using placeholder corpus")
	flush()

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "using placeholder corpus")
}

func TestNew_NopAndBadLevel(t *testing.T) {
	logger, flush, err := New(config.LogConfig{Level: "info"}, nil)
	require.NoError(t, err)
	logger.Info("discarded")
	flush()

	_, _, err = New(config.LogConfig{Level: "loud"}, nil)
	assert.Error(t, err)
}
