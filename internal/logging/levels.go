package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// TraceLevel is a custom level below Debug for per-tier cascade detail.
// Value: -2 (Debug is -1, Info is 0)
const TraceLevel = zapcore.Level(-2)

// LevelFromString parses a level name, supporting "trace". Matching is
// case-insensitive.
func LevelFromString(level string) (zapcore.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "trace" {
		return TraceLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, err
	}
	return l, nil
}

// levelName renders TraceLevel as "trace" and defers to zap otherwise.
func levelName(l zapcore.Level) string {
	if l == TraceLevel {
		return "trace"
	}
	return l.String()
}
