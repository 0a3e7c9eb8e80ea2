// Package log writes one structured entry per notable request event.
// Entries carry the request id, client ip, method, path and response
// status of the Fiber context they were raised from.
package log

import (
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var current atomic.Pointer[zap.Logger]

func init() { current.Store(zap.NewNop()) }

// New builds the process logger: JSON at info level in production, console
// at debug level otherwise. An optional file sink is appended to stdout.
func New(production bool, file string) (*zap.Logger, error) {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if file != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, file)
	}
	return cfg.Build()
}

// SetLogger replaces the logger used by the helpers below and returns the
// previous one.
func SetLogger(l *zap.Logger) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return current.Swap(l)
}

func L() *zap.Logger { return current.Load() }

func fieldsFor(c *fiber.Ctx, kind string, err error, extra map[string]any) []zap.Field {
	fs := make([]zap.Field, 0, 8)
	fs = append(fs, zap.String("kind", kind))
	if c != nil {
		fs = append(fs,
			zap.String("ip", c.IP()),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
		)
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			fs = append(fs, zap.String("req_id", rid))
		}
		if uid, ok := c.Locals("user_id").(string); ok && uid != "" {
			fs = append(fs, zap.String("user_id", uid))
		}
	}
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	if len(extra) > 0 {
		fs = append(fs, zap.Any("fields", extra))
	}
	return fs
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	L().Info(action, fieldsFor(c, "info", nil, fields)...)
}

// Audit records state changes made on behalf of a user.
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	L().Info(action, fieldsFor(c, "audit", nil, fields)...)
}

// Security records rejected or suspicious input and access denials.
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	L().Warn(action, fieldsFor(c, "security", nil, fields)...)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	L().Error(action, fieldsFor(c, "error", err, fields)...)
}
