package log_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f4ah6o/pageserve-go/internal/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		want    slog.Level
		wantErr bool
	}{
		"debug":   {want: slog.LevelDebug},
		"INFO":    {want: slog.LevelInfo},
		"":        {want: slog.LevelInfo},
		"warning": {want: slog.LevelWarn},
		"error":   {want: slog.LevelError},
		"trace":   {wantErr: true},
	}

	for in, tc := range tests {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			got, err := log.ParseLevel(in)
			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrInvalidLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseFormatAuto(t *testing.T) {
	t.Parallel()

	got, err := log.ParseFormat(&bytes.Buffer{}, "auto")
	require.NoError(t, err)
	assert.Equal(t, log.LogfmtFormat, got)

	_, err = log.ParseFormat(&bytes.Buffer{}, "xml")
	require.ErrorIs(t, err, log.ErrInvalidFormat)
}

func TestCreateHandlerJSON(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	h, err := log.CreateHandler(buf, "info", "json")
	require.NoError(t, err)

	logger := slog.New(h)
	logger.Debug("hidden")
	logger.Info("request", "status", 200)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "request", rec["msg"])
	assert.InDelta(t, 200, rec["status"], 0)
}

func TestCreateHandlerLogfmt(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	h, err := log.CreateHandler(buf, "warn", "logfmt")
	require.NoError(t, err)

	logger := slog.New(h)
	logger.Info("hidden")
	logger.Warn("root missing", "root", "/srv/www")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "root=/srv/www")
}

func TestCreateHandlerInvalid(t *testing.T) {
	t.Parallel()

	_, err := log.CreateHandler(&bytes.Buffer{}, "loud", "text")
	require.ErrorIs(t, err, log.ErrInvalidLevel)

	_, err = log.CreateHandler(&bytes.Buffer{}, "info", "yaml")
	require.ErrorIs(t, err, log.ErrInvalidFormat)
}
