package logs

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level string

const (
	INFO  Level = "INFO"
	WARN  Level = "WARN"
	ERROR Level = "ERROR"
	DEBUG Level = "DEBUG"
)

// levelPriority defines the priority of each log level
// higher value= more severe
var levelPriority = map[Level]int{
	DEBUG: 1,
	INFO:  2,
	WARN:  3,
	ERROR: 4,
}

// ParseLevel maps a config string onto a Level, defaulting to INFO.
func ParseLevel(s string) Level {
	l := Level(s)
	if _, ok := levelPriority[l]; ok {
		return l
	}
	switch s {
	case "debug":
		return DEBUG
	case "warn":
		return WARN
	case "error":
		return ERROR
	}
	return INFO
}

type Entry struct {
	TimeStamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Logger keeps the most recent entries in memory for the health analyzer
// and forwards every recorded entry to a zap sink.
type Logger struct {
	mu      sync.Mutex
	entries []Entry
	maxSize int
	level   Level
	sink    *zap.Logger
	fields  []zap.Field
	parent  *Logger
}

// level: minimum log level to record(e.g., INFO, WARN, ERROR,DEBUG)
//
// maxsize:maximum number of log entries kept in memory
//
// sink may be nil, in which case nothing leaves the process.
func NewLogger(maxSize int, level Level, sink *zap.Logger) *Logger {
	if sink == nil {
		sink = zap.NewNop()
	}
	if maxSize < 0 {
		maxSize = 0
	}
	return &Logger{
		entries: make([]Entry, 0, maxSize),
		maxSize: maxSize,
		level:   level,
		sink:    sink,
	}
}

// With returns a child logger sharing the same ring buffer whose entries
// carry the given fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{
		maxSize: l.maxSize,
		level:   l.level,
		sink:    l.sink.With(fields...),
		fields:  append(append([]zap.Field{}, l.fields...), fields...),
		parent:  l.root(),
	}
}

// log is the internal logging function
// it applies level filtering and ring buffer behavior
func (l *Logger) log(level Level, msg string, fields []zap.Field) {
	//filter logs below the current level
	if levelPriority[level] < levelPriority[l.level] {
		return
	}

	switch level {
	case DEBUG:
		l.sink.Debug(msg, fields...)
	case INFO:
		l.sink.Info(msg, fields...)
	case WARN:
		l.sink.Warn(msg, fields...)
	case ERROR:
		l.sink.Error(msg, fields...)
	}

	root := l.root()
	root.mu.Lock()
	defer root.mu.Unlock()

	if root.maxSize <= 0 {
		return
	}
	if len(root.entries) >= root.maxSize {
		//remove oldest entry(ring behavior)
		root.entries = root.entries[1:]
	}

	root.entries = append(root.entries, Entry{
		TimeStamp: time.Now(),
		Level:     level,
		Message:   msg,
		Fields:    fieldMap(l.fields, fields),
	})
}

func (l *Logger) root() *Logger {
	if l.parent != nil {
		return l.parent
	}
	return l
}

func fieldMap(base, extra []zap.Field) map[string]any {
	if len(base)+len(extra) == 0 {
		return nil
	}
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range base {
		f.AddTo(enc)
	}
	for _, f := range extra {
		f.AddTo(enc)
	}
	return enc.Fields
}

func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.log(DEBUG, msg, fields)
}

func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.log(INFO, msg, fields)
}

func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.log(WARN, msg, fields)
}

func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.log(ERROR, msg, fields)
}

func (l *Logger) GetLast(n int) []Entry {
	root := l.root()
	root.mu.Lock()
	defer root.mu.Unlock()

	if n > len(root.entries) {
		out := make([]Entry, len(root.entries))
		copy(out, root.entries)
		return out
	}

	start := len(root.entries) - n
	out := make([]Entry, n)
	copy(out, root.entries[start:])
	return out
}

// Sync flushes the zap sink.
func (l *Logger) Sync() error {
	return l.sink.Sync()
}
