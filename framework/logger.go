package framework

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-logfmt/logfmt"
)

type Noop struct{}

func (nl Noop) Debug(...interface{})          {}
func (nl Noop) Debugf(string, ...interface{}) {}
func (nl Noop) Info(...interface{})           {}
func (nl Noop) Infof(string, ...interface{})  {}
func (nl Noop) Warn(...interface{})           {}
func (nl Noop) Warnf(string, ...interface{})  {}
func (nl Noop) Error(...interface{})          {}
func (nl Noop) Errorf(string, ...interface{}) {}

// Level orders log records, records below a logger's level are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	default:
		return "error"
	}
}

// ParseLevel accepts the level names as printed by Level.String,
// anything else is info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logfmt writes one logfmt record per call. It is safe for concurrent
// use, records are never interleaved.
type Logfmt struct {
	mu     *sync.Mutex
	w      io.Writer
	level  Level
	now    func() time.Time
	fields []interface{}
}

func NewLogfmt(w io.Writer, level Level) Logfmt {
	return Logfmt{mu: &sync.Mutex{}, w: w, level: level, now: time.Now}
}

// With returns a logger that appends the given key/value pairs to
// every record. The copy shares the writer and its lock.
func (l Logfmt) With(keyvals ...interface{}) Logfmt {
	fields := make([]interface{}, 0, len(l.fields)+len(keyvals))
	fields = append(fields, l.fields...)
	l.fields = append(fields, keyvals...)
	return l
}

func (l Logfmt) log(level Level, msg string) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	enc := logfmt.NewEncoder(l.w)
	enc.EncodeKeyvals("ts", l.now().UTC().Format(time.RFC3339), "level", level.String(), "msg", msg)
	if len(l.fields) > 0 {
		enc.EncodeKeyvals(l.fields...)
	}
	enc.EndRecord()
}

func (l Logfmt) Debug(args ...interface{}) { l.log(LevelDebug, fmt.Sprint(args...)) }
func (l Logfmt) Debugf(pattern string, args ...interface{}) {
	l.log(LevelDebug, fmt.Sprintf(pattern, args...))
}
func (l Logfmt) Info(args ...interface{}) { l.log(LevelInfo, fmt.Sprint(args...)) }
func (l Logfmt) Infof(pattern string, args ...interface{}) {
	l.log(LevelInfo, fmt.Sprintf(pattern, args...))
}
func (l Logfmt) Warn(args ...interface{}) { l.log(LevelWarn, fmt.Sprint(args...)) }
func (l Logfmt) Warnf(pattern string, args ...interface{}) {
	l.log(LevelWarn, fmt.Sprintf(pattern, args...))
}
func (l Logfmt) Error(args ...interface{}) { l.log(LevelError, fmt.Sprint(args...)) }
func (l Logfmt) Errorf(pattern string, args ...interface{}) {
	l.log(LevelError, fmt.Sprintf(pattern, args...))
}
