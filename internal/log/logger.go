package log

//go:generate mockgen -destination=../../generated/mocks/logger_mock.go -package=mocks dmirror/internal/log Logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Sync() error
}

//Options describes where and how verbosely the application log is written.
type Options struct {
	Level    Level
	LogToStd bool   // if true, logs go to stderr, otherwise - to FilePath
	FilePath string // rotated by lumberjack
}

const (
	fileMaxSizeMB  = 10
	fileMaxBackups = 3
	fileMaxAgeDays = 28
)

func New(opts Options) (Logger, error) {
	if !opts.Level.IsValid() {
		return nil, fmt.Errorf("logging level %q does not exist", opts.Level)
	}
	if opts.LogToStd {
		logger, err := zap.Config{
			Level:            zap.NewAtomicLevelAt(opts.Level.zapLevel()),
			Encoding:         "json",
			EncoderConfig:    encoderConfig(),
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
		}.Build()
		if err != nil {
			return nil, fmt.Errorf("cannot build console logger: %w", err)
		}
		return logger, nil
	}

	if opts.FilePath == "" {
		return nil, fmt.Errorf("log file path must be set when logs are not written to the console")
	}
	if err := os.MkdirAll(filepath.Dir(opts.FilePath), os.ModePerm); err != nil {
		return nil, fmt.Errorf("cannot create log dir: %w", err)
	}
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   opts.FilePath,
		MaxSize:    fileMaxSizeMB,
		MaxBackups: fileMaxBackups,
		MaxAge:     fileMaxAgeDays,
	})
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), sink, opts.Level.zapLevel())
	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(zapcore.Lock(os.Stderr))), nil
}

//NewNop returns a logger which discards everything (handy for tests and dry wiring).
func NewNop() Logger {
	return zap.NewNop()
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "lvl",
		TimeKey:        "ts",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}
