package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amie/internal/pipeline"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:7071/api", cfg.API.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Watch.PollInterval())
	assert.Equal(t, 600, cfg.Watch.MaxPolls)
	assert.Equal(t, 200*time.Millisecond, cfg.Watch.TickInterval())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "amie.log", cfg.Log.File)
	assert.Equal(t, "amie", cfg.Telemetry.ServiceName)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AMIE_API_BASE_URL", "https://amie.example.net/api")
	t.Setenv("AMIE_API_CODE", "sekrit")
	t.Setenv("AMIE_WATCH_MAX_POLLS", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://amie.example.net/api", cfg.API.BaseURL)
	assert.Equal(t, "sekrit", cfg.API.Code)
	assert.Equal(t, 12, cfg.Watch.MaxPolls)
}

func TestWatchConfig_Expected(t *testing.T) {
	w := WatchConfig{ExpectedSecs: map[string]int{
		"classification": 120,
		"aggregation":    0, // ignored: non-positive
	}}

	expected := w.Expected()
	assert.Equal(t, 120*time.Second, expected[pipeline.StageClassify])
	assert.Equal(t, pipeline.DefaultExpected[pipeline.StageIngest], expected[pipeline.StageIngest])
	assert.Equal(t, pipeline.DefaultExpected[pipeline.StageAggregate], expected[pipeline.StageAggregate])
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "chatty", Format: "json"})
	assert.Error(t, err)
}
