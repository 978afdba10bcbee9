package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8<<20, cfg.UtxoCacheSize)
	assert.False(t, cfg.TestNet)
	assert.False(t, cfg.RegTest)
}

func TestLoadFlags(t *testing.T) {
	cfg, err := Load([]string{"--datadir", "/tmp/sk-test", "--loglevel", "debug", "--regtest"})
	assert.NoError(t, err)
	assert.Equal(t, "/tmp/sk-test", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.RegTest)
	assert.False(t, cfg.TestNet)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "skeincoin.yaml")
	err := os.WriteFile(file, []byte("loglevel: warn\ntestnet: true\n"), 0644)
	assert.NoError(t, err)

	cfg, err := Load([]string{"--configfile", file})
	assert.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.TestNet)

	// a flag overrides the file
	cfg, err = Load([]string{"--configfile", file, "--loglevel", "error"})
	assert.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}
