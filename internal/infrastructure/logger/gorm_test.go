package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func TestNewGormLogger_Defaults(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info)

	assert.Equal(t, gormlogger.Info, gl.logLevel)
	assert.Equal(t, defaultSlowThreshold, gl.slowThreshold)
	assert.True(t, gl.ignoreNotFoundErrs)
}

func TestNewGormLogger_Options(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
	)

	assert.Equal(t, 500*time.Millisecond, gl.slowThreshold)
	assert.False(t, gl.ignoreNotFoundErrs)
}

func TestGormLogger_LogMode_ClonesLogger(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info)

	lowered := gl.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, gl.logLevel)
	cloned, ok := lowered.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, cloned.logLevel)
}

func TestGormLogger_LevelGating(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Warn)

	gl.Info(context.Background(), "hidden %s", "info")
	assert.Equal(t, 0, recorded.Len())

	gl.Warn(context.Background(), "visible %s", "warn")
	assert.Equal(t, 1, recorded.Len())

	gl.Error(context.Background(), "visible %s", "error")
	assert.Equal(t, 2, recorded.Len())
}

func TestGormLogger_Trace_Error(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM products", 0
	}, errors.New("connection refused"))

	require.Equal(t, 1, recorded.Len())
	entry := recorded.All()[0]
	assert.Equal(t, "SQL error", entry.Message)
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
}

func TestGormLogger_Trace_RecordNotFoundIgnored(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM shops WHERE code = 'NOLT'", 0
	}, gormlogger.ErrRecordNotFound)

	assert.Equal(t, 0, recorded.Len())
}

func TestGormLogger_Trace_SlowQuery(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Millisecond))

	gl.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
		return "SELECT * FROM product_categories", 120
	}, nil)

	require.Equal(t, 1, recorded.Len())
	entry := recorded.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Contains(t, entry.Message, "SLOW SQL")
}

func TestGormLogger_Trace_NormalQuery(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Info)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, nil)

	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "SQL query", recorded.All()[0].Message)
}

func TestGormLogger_Trace_Silent(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, errors.New("ignored"))

	assert.Equal(t, 0, recorded.Len())
}

func TestGormLogger_Trace_CarriesRequestID(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Info)

	ctx := WithRequestID(context.Background(), "req-123")
	gl.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, nil)

	require.Equal(t, 1, recorded.Len())
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, MapGormLogLevel(tt.level), tt.level)
	}
}

func TestGormLoggerImplementsInterface(t *testing.T) {
	var _ gormlogger.Interface = (*GormLogger)(nil)
}
