// Package audit records one line per user operation outcome to an append-only file.
package audit

import (
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Outcome tags written after the operation name
const (
	Success = "success"
	Fail    = "fail"
)

// DefaultTimeLayout renders timestamps as day/month/year hour:minute:second
const DefaultTimeLayout = "02/01/2006 15:04:05"

const defaultBufferSize = 256

// Config holds audit log file settings
type Config struct {
	Path       string
	TimeLayout string
	BufferSize int
	MaxSizeMB  int
	MaxBackups int
}

// Option customizes a Logger
type Option func(*Logger)

// WithClock overrides the time source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

// WithTimeLayout overrides the timestamp layout.
func WithTimeLayout(layout string) Option {
	return func(l *Logger) {
		if layout != "" {
			l.layout = layout
		}
	}
}

// WithBufferSize sets how many entries may wait for the writer before new ones are dropped.
func WithBufferSize(size int) Option {
	return func(l *Logger) {
		if size > 0 {
			l.size = size
		}
	}
}

// Logger writes audit entries in the background. Save never blocks the caller.
type Logger struct {
	log    *zap.Logger
	out    io.WriteCloser
	layout string
	size   int
	now    func() time.Time

	mu      sync.RWMutex
	closed  bool
	entries chan string
	done    chan struct{}
}

// New creates an audit Logger appending to a size-rotated file.
func New(cfg Config, log *zap.Logger) *Logger {
	out := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
	return NewWithWriter(out, log, WithTimeLayout(cfg.TimeLayout), WithBufferSize(cfg.BufferSize))
}

// NewWithWriter creates an audit Logger writing to out and starts its writer goroutine.
func NewWithWriter(out io.WriteCloser, log *zap.Logger, opts ...Option) *Logger {
	l := &Logger{
		log:    log.Named("audit"),
		out:    out,
		layout: DefaultTimeLayout,
		size:   defaultBufferSize,
		now:    time.Now,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.entries = make(chan string, l.size)

	go l.run()
	return l
}

// Save enqueues "<timestamp>: <info>". The entry is dropped when the buffer is full or the logger is closed.
func (l *Logger) Save(info string) {
	line := fmt.Sprintf("%s: %s\n", l.now().Format(l.layout), info)

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return
	}

	select {
	case l.entries <- line:
	default:
		l.log.Warn("audit buffer full, dropping entry", zap.String("info", info))
	}
}

// Record saves "<op>() success" or "<op>() fail" depending on err.
func (l *Logger) Record(op string, err error) {
	if err != nil {
		l.Save(Entry(op, Fail))
		return
	}
	l.Save(Entry(op, Success))
}

// Entry builds the info part of an audit line.
func Entry(op, outcome string) string {
	return op + "() " + outcome
}

// Close stops accepting entries, flushes the queued ones and closes the file.
func (l *Logger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.entries)
	l.mu.Unlock()

	<-l.done
	return l.out.Close()
}

func (l *Logger) run() {
	defer close(l.done)

	for line := range l.entries {
		if _, err := io.WriteString(l.out, line); err != nil {
			l.log.Warn("failed to write audit entry", zap.Error(err))
		}
	}
}
