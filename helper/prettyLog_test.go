package helper

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrettyHandler(t *testing.T) {
	t.Run("Create PrettyHandler with empty options", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		require.NotNil(t, handler, "Expected NewPrettyHandler to return a non-nil handler")
		assert.NotNil(t, handler.Handler, "Expected handler to have a non-nil Handler field")
		assert.NotNil(t, handler.l, "Expected handler to have a non-nil logger field")
	})

	t.Run("Level option is honoured by Enabled", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{Level: slog.LevelWarn},
		})

		assert.False(t, handler.Enabled(context.Background(), slog.LevelInfo), "Expected INFO to be disabled at WARN level")
		assert.True(t, handler.Enabled(context.Background(), slog.LevelError), "Expected ERROR to be enabled at WARN level")
	})
}

func TestPrettyHandlerHandle(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		level   slog.Level
		message string
		attr    slog.Attr
		want    []string
	}{
		{
			name:    "DEBUG record",
			level:   slog.LevelDebug,
			message: "candidates loaded",
			attr:    slog.Int("candidates", 12),
			want:    []string{"DEBUG:", "candidates loaded", "candidates", "12"},
		},
		{
			name:    "INFO record",
			level:   slog.LevelInfo,
			message: "query ranked",
			attr:    slog.String("keywords", "지게차"),
			want:    []string{"INFO:", "query ranked", "keywords", "지게차"},
		},
		{
			name:    "WARN record",
			level:   slog.LevelWarn,
			message: "category ignored",
			attr:    slog.Bool("applied", false),
			want:    []string{"WARN:", "category ignored", "applied", "false"},
		},
		{
			name:    "ERROR record",
			level:   slog.LevelError,
			message: "store failed",
			attr:    slog.String("error", "connection refused"),
			want:    []string{"ERROR:", "store failed", "error", "connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := NewPrettyHandler(&buf, PrettyHandlerOptions{
				SlogOpts: slog.HandlerOptions{Level: slog.LevelDebug},
			})

			record := slog.NewRecord(time.Now(), tt.level, tt.message, 0)
			record.AddAttrs(tt.attr)

			err := handler.Handle(ctx, record)
			assert.NoError(t, err, "Expected Handle to not return an error")

			output := buf.String()
			for _, want := range tt.want {
				assert.Contains(t, output, want, "Expected output to contain %q", want)
			}
		})
	}

	t.Run("Record without attributes prints empty object", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		err := handler.Handle(ctx, slog.NewRecord(time.Now(), slog.LevelInfo, "plain", 0))
		assert.NoError(t, err)
		assert.Contains(t, buf.String(), "{}", "Expected output to contain empty JSON object for attributes")
	})

	t.Run("Timestamp is formatted with milliseconds", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		err := handler.Handle(ctx, slog.NewRecord(time.Now(), slog.LevelInfo, "time test", 0))
		assert.NoError(t, err)
		assert.Regexp(t, `\[\d{2}:\d{2}:\d{2}\.\d{3}\]`, buf.String(), "Expected output to contain properly formatted timestamp")
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("visible", slog.Int("limit", 50))

	output := buf.String()
	assert.NotContains(t, output, "hidden", "Expected debug record to be filtered at INFO level")
	assert.Contains(t, output, "visible")
	assert.Contains(t, output, "50")
}

func TestPrettyHandlerWith(t *testing.T) {
	t.Run("Attributes from With keep the pretty format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, slog.LevelInfo).With(slog.String("source", "snapshot"))

		logger.Info("saved", slog.Int("records", 3))

		output := buf.String()
		assert.Regexp(t, `^\[\d{2}:\d{2}:\d{2}\.\d{3}\]`, output, "Expected pretty line, not JSON")
		assert.Contains(t, output, `"source": "snapshot"`)
		assert.Contains(t, output, `"records": 3`)
	})

	t.Run("Groups prefix later keys", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, slog.LevelInfo).WithGroup("query").With(slog.Int("limit", 50))

		logger.Info("ranked", slog.Int("results", 2))

		output := buf.String()
		assert.Contains(t, output, `"query.limit": 50`)
		assert.Contains(t, output, `"query.results": 2`)
	})

	t.Run("Derived loggers do not share attributes", func(t *testing.T) {
		var buf bytes.Buffer
		base := NewLogger(&buf, slog.LevelInfo)
		_ = base.With(slog.String("only", "child"))

		base.Info("plain")
		assert.NotContains(t, buf.String(), "only")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"), "Expected unknown level to fall back to INFO")
}
