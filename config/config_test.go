package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(20<<20), cfg.Server.MaxUploadBytes())
	assert.Equal(t, "memory", cfg.Cache.Type)
	assert.Equal(t, 500, cfg.Document.ChunkSize)
	assert.Equal(t, 12, cfg.Document.OverlapWords)
	assert.Equal(t, 20, cfg.Document.MinBlockLength)
	assert.Equal(t, 15, cfg.Analyzer.LexicalTopK)
	assert.Equal(t, 30, cfg.Analyzer.FallbackBlocks)
	assert.InDelta(t, 0.1, cfg.Analyzer.LexicalWeight, 1e-9)
	assert.InDelta(t, 0.15, cfg.Analyzer.MinSimilarity, 1e-9)
	assert.InDelta(t, 0.01, cfg.Analyzer.MinConfidence, 1e-9)
	assert.Equal(t, 2, cfg.Analyzer.TopBlocks)
	assert.Equal(t, 5*time.Minute, cfg.PythonService.LoadTimeout)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
  mode: debug
cache:
  type: redis
  address: redis:6379
  ttl: 15m
analyzer:
  min_similarity: 0.3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "redis", cfg.Cache.Type)
	assert.Equal(t, "redis:6379", cfg.Cache.Address)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.InDelta(t, 0.3, cfg.Analyzer.MinSimilarity, 1e-9)
	// 未覆盖的字段保留默认值
	assert.Equal(t, 15, cfg.Analyzer.LexicalTopK)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PYTHON_SERVICE_BASE_URL", "http://inference:9000/api")
	t.Setenv("ANALYZER_TOP_BLOCKS", "3")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://inference:9000/api", cfg.PythonService.BaseURL)
	assert.Equal(t, 3, cfg.Analyzer.TopBlocks)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad cache type", map[string]string{"CACHE_TYPE": "memcached"}},
		{"confidence out of range", map[string]string{"ANALYZER_MIN_CONFIDENCE": "1.5"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "distilbert-base-cased-distilled-squad", cfg.QA.Model)
}
