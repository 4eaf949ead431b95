package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"alcyxob/reptrack/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("dropped")
	logger.WithField("post", "p1").Warn("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "p1", entry["post"])
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	logger := New(config.LogConfig{Level: "loud"})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
