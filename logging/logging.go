package logging

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

const ginKey = "logger"

var (
	once sync.Once
	base *zap.Logger
)

// Init configures the global logger exactly once. Output goes to stdout and,
// when filePath is set, to a rotated JSON file.
func Init(component, filePath, level string) *zap.Logger {
	once.Do(func() {
		lvl := zap.NewAtomicLevelAt(zapcore.InfoLevel)
		if level != "" {
			if parsed, err := zapcore.ParseLevel(level); err == nil {
				lvl.SetLevel(parsed)
			}
		}

		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "time"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder := zapcore.NewJSONEncoder(encCfg)

		sinks := []zapcore.WriteSyncer{zapcore.Lock(os.Stdout)}
		if filePath != "" {
			_ = os.MkdirAll(filepath.Dir(filePath), 0o755)
			sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
				Filename:   filePath,
				MaxSize:    50, // MB
				MaxBackups: 3,
				MaxAge:     7, // days
			}))
		}

		core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(sinks...), lvl)
		base = zap.New(core, zap.AddCaller()).With(zap.String("component", component))
	})
	return base
}

// Base returns the global logger, or a no-op logger before Init.
func Base() *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	return base
}

// New returns a child of the global logger. It shares the global core.
func New(component string) *zap.Logger {
	return Base().With(zap.String("component", component))
}

func WithCtx(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func FromCtx(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return Base()
}

// With stores the request-scoped logger in the gin context.
func With(c *gin.Context, l *zap.Logger) {
	c.Set(ginKey, l)
}

func From(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(ginKey); ok {
		if l, ok := v.(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return Base()
}

func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}
