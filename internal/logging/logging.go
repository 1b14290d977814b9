// Package logging builds the daemon's zap logger.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap logger whose level can change at runtime.
type Logger struct {
	*zap.Logger
	level zap.AtomicLevel
	file  *RotatingFile
}

// ParseLevel maps a config log level to a zap level. "warning" and "warn"
// are both accepted.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// New returns a JSON logger writing to file, or to stderr when file is empty.
func New(level, file string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var (
		sink zapcore.WriteSyncer
		rf   *RotatingFile
	)
	if file != "" {
		rf, err = OpenRotatingFile(file, DefaultMaxSizeMB, DefaultMaxFiles)
		if err != nil {
			return nil, err
		}
		sink = rf
	} else {
		sink = zapcore.Lock(os.Stderr)
	}

	atom := zap.NewAtomicLevelAt(lvl)
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, atom)
	return &Logger{
		Logger: zap.New(core, zap.AddCaller(), zap.ErrorOutput(zapcore.Lock(os.Stderr))),
		level:  atom,
		file:   rf,
	}, nil
}

// SetLevel changes the level of this logger and every logger derived from it.
func (l *Logger) SetLevel(level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	l.level.SetLevel(lvl)
	return nil
}

func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}

// Close flushes buffered entries and closes the log file, if any.
func (l *Logger) Close() error {
	_ = l.Logger.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
