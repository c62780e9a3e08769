package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// bufferLogger builds a logger from the production config writing into buf
func bufferLogger(buf *bytes.Buffer) *zap.Logger {
	config := Config("production")

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(config.EncoderConfig),
		zapcore.AddSync(buf),
		zapcore.DebugLevel,
	)

	fields := make([]zap.Field, 0, len(config.InitialFields))
	for k, v := range config.InitialFields {
		fields = append(fields, zap.Any(k, v))
	}

	return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)).With(fields...)
}

func TestProperty_LogsAreStructured(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("all log entries are JSON with level, timestamp and service", prop.ForAll(
		func(message string, level string) bool {
			var buf bytes.Buffer
			logger := bufferLogger(&buf)

			switch level {
			case "debug":
				logger.Debug(message)
			case "warn":
				logger.Warn(message)
			case "error":
				logger.Error(message)
			default:
				logger.Info(message)
			}
			_ = logger.Sync()

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				return false
			}

			for _, key := range []string{"level", "timestamp", "msg", "service"} {
				if _, ok := logEntry[key]; !ok {
					t.Logf("FAIL: log entry missing %q", key)
					return false
				}
			}

			return logEntry["msg"] == message && logEntry["level"] == level && logEntry["service"] == ServiceName
		},
		gen.AnyString(),
		gen.OneConstOf("debug", "info", "warn", "error"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ErrorLogsIncludeContext(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("error logs keep their fields and a stack trace", prop.ForAll(
		func(message string, errorMsg string) bool {
			var buf bytes.Buffer
			logger := bufferLogger(&buf)

			logger.Error(message, zap.String("error", errorMsg))

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				return false
			}

			_, hasStack := logEntry["stacktrace"]
			return logEntry["error"] == errorMsg && hasStack
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestConfigPerEnvironment(t *testing.T) {
	production := Config("production")
	assert.Equal(t, "json", production.Encoding)
	assert.Equal(t, []string{"stdout"}, production.OutputPaths)
	assert.False(t, production.Level.Enabled(zapcore.DebugLevel))
	assert.Equal(t, ServiceName, production.InitialFields["service"])

	development := Config("development")
	assert.Equal(t, "console", development.Encoding)
	assert.True(t, development.Level.Enabled(zapcore.DebugLevel))
	assert.Equal(t, "development", development.InitialFields["env"])
}

func TestNewBuildsLogger(t *testing.T) {
	logger, err := New("production")
	require.NoError(t, err)
	defer logger.Sync()

	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.NotNil(t, Must("development"))
}
