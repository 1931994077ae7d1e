package gekko

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Log targets used by engine subsystems. Filters address them by name.
const (
	LogTargetApp    = "app"
	LogTargetWindow = "glfw"
	LogTargetGpu    = "wgpu"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	// Target returns a logger for a named subsystem, filtered by its own level.
	Target(name string) Logger
}

// LogFilter maps log targets to levels. It is parsed from directives like
// "info,wgpu=error,glfw=error": a bare level sets the default, target=level
// overrides a target and every "target/..." below it.
type LogFilter struct {
	Default logrus.Level
	Targets map[string]logrus.Level
}

func ParseLogFilter(directives string) (LogFilter, error) {
	filter := LogFilter{Default: logrus.InfoLevel, Targets: map[string]logrus.Level{}}

	for _, directive := range strings.Split(directives, ",") {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}

		target, levelName, hasTarget := strings.Cut(directive, "=")
		if !hasTarget {
			levelName = target
		}
		level, err := logrus.ParseLevel(strings.TrimSpace(levelName))
		if err != nil {
			return LogFilter{}, fmt.Errorf("log filter directive %q: %w", directive, err)
		}

		if !hasTarget {
			filter.Default = level
			continue
		}
		target = strings.TrimSpace(target)
		if target == "" {
			return LogFilter{}, fmt.Errorf("log filter directive %q: empty target", directive)
		}
		filter.Targets[target] = level
	}
	return filter, nil
}

func (f LogFilter) LevelFor(target string) logrus.Level {
	for name := target; name != ""; {
		if level, ok := f.Targets[name]; ok {
			return level
		}
		idx := strings.LastIndex(name, "/")
		if idx < 0 {
			break
		}
		name = name[:idx]
	}
	return f.Default
}

type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	level  logrus.Level
	target string
	filter LogFilter
	entry  *logrus.Entry
}

func NewDefaultLogger(prefix string, filter LogFilter, out io.Writer) *DefaultLogger {
	if out == nil {
		out = os.Stderr
	}

	base := logrus.New()
	base.SetOutput(out)
	// Filtering happens per target; the backing logger lets everything through.
	base.SetLevel(logrus.TraceLevel)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000000",
	})

	entry := logrus.NewEntry(base)
	if prefix != "" {
		entry = entry.WithField("prefix", prefix)
	}
	return newTargetLogger(entry, filter, LogTargetApp)
}

func newTargetLogger(entry *logrus.Entry, filter LogFilter, target string) *DefaultLogger {
	return &DefaultLogger{
		level:  filter.LevelFor(target),
		target: target,
		filter: filter,
		entry:  entry.WithField("target", target),
	}
}

// Target loggers inherit the forced debug flag at the time of the call.
func (l *DefaultLogger) Target(name string) Logger {
	child := newTargetLogger(l.entry, l.filter, name)
	l.mu.Lock()
	child.debug = l.debug
	l.mu.Unlock()
	return child
}

func (l *DefaultLogger) DebugEnabled() bool {
	return l.enabled(logrus.DebugLevel)
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

func (l *DefaultLogger) enabled(level logrus.Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.debug && level <= logrus.DebugLevel {
		return true
	}
	return level <= l.level
}

func (l *DefaultLogger) logf(level logrus.Level, format string, args ...any) {
	if !l.enabled(level) {
		return
	}
	l.entry.Logf(level, format, args...)
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	l.logf(logrus.DebugLevel, format, args...)
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.logf(logrus.InfoLevel, format, args...)
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.logf(logrus.WarnLevel, format, args...)
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.logf(logrus.ErrorLevel, format, args...)
}

// LoggingModule installs a default logger as a resource.
type LoggingModule struct {
	Prefix string
	// Filter uses the LogFilter directive syntax. Empty means "info".
	Filter string
	Debug  bool
	Output io.Writer
}

func (m LoggingModule) Install(app *App, cmd *Commands) {
	filter, err := ParseLogFilter(m.Filter)
	if err != nil {
		cmd.Fail(fmt.Errorf("logging: %w", err))
		return
	}

	logger := NewDefaultLogger(m.Prefix, filter, m.Output)
	logger.SetDebug(m.Debug)
	app.addResources(logger)
}

// Nop logger and App helper accessor

type nopLogger struct{}

func NewNopLogger() Logger                            { return &nopLogger{} }
func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}
func (n *nopLogger) Target(name string) Logger         { return n }

// Logger returns the first Logger resource if present, otherwise a no-op logger.
// Safe to call at any time; never returns nil.
func (app *App) Logger() Logger {
	if app == nil {
		return NewNopLogger()
	}
	for _, t := range app.resourceOrder {
		if l, ok := app.resources[t].(Logger); ok {
			return l
		}
	}
	return NewNopLogger()
}
