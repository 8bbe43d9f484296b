// Package logger builds the zap logger used across the service.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level string
	// Dir enables rotating app.log and error.log files when set.
	Dir string
}

// New returns a JSON sugared logger writing to stdout and, if configured, to rotating files.
func New(opts Options) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", opts.Level, err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.StacktraceKey = "stacktrace"
	encoderConfig.CallerKey = "caller"
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	atLeast := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= level
	})

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), atLeast),
	}

	if opts.Dir != "" {
		errorsOnly := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= zapcore.ErrorLevel
		})
		belowError := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= level && lvl < zapcore.ErrorLevel
		})

		cores = append(cores,
			zapcore.NewCore(encoder, zapcore.AddSync(rotating(opts.Dir, "error.log", 3)), errorsOnly),
			zapcore.NewCore(encoder, zapcore.AddSync(rotating(opts.Dir, "app.log", 5)), belowError),
		)
	}

	return zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	).Sugar(), nil
}

func rotating(dir, name string, backups int) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, name),
		MaxSize:    100, // megabytes
		MaxAge:     7,   // days
		MaxBackups: backups,
		Compress:   true,
		LocalTime:  true,
	}
}
