package logging

// Leveled logging for dexterm, backed by zap.

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelSilent LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelVerbose
	LogLevelDebug
)

// zap has no level between Debug and Info, so verbose takes zap's debug slot
// and debug sits one step below it.
const (
	zapVerbose = zapcore.DebugLevel
	zapDebug   = zapcore.DebugLevel - 1
)

// ParseLevel maps a config/flag string to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent", "off", "none":
		return LogLevelSilent, nil
	case "error", "":
		return LogLevelError, nil
	case "info":
		return LogLevelInfo, nil
	case "verbose":
		return LogLevelVerbose, nil
	case "debug":
		return LogLevelDebug, nil
	}
	return LogLevelError, fmt.Errorf("unknown log level %q", s)
}

func (l LogLevel) String() string {
	switch l {
	case LogLevelSilent:
		return "silent"
	case LogLevelError:
		return "error"
	case LogLevelInfo:
		return "info"
	case LogLevelVerbose:
		return "verbose"
	case LogLevelDebug:
		return "debug"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Options configures a Logger.
type Options struct {
	Level  LogLevel
	File   string
	Format string // "text" (default) or "json"

	// Quiet disables console output entirely. The TUI sets this so log lines
	// never land on the alternate screen.
	Quiet  bool
	Stderr io.Writer
}

// Logger provides leveled logging. Messages below the configured level are
// dropped before they reach zap.
type Logger struct {
	mu     sync.Mutex
	level  LogLevel
	format string
	file   *os.File
	zl     *zap.Logger
}

// NewLogger creates a logger that writes console output to stderr and
// everything enabled to logFile when one is given. Stdout is left to command
// output so --json and --yaml stay parseable.
func NewLogger(level LogLevel, logFile string) (*Logger, error) {
	return NewLoggerWithOptions(Options{Level: level, File: logFile})
}

// NewLoggerWithOptions creates a logger from Options.
func NewLoggerWithOptions(opts Options) (*Logger, error) {
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "text"
	}
	if format != "text" && format != "json" {
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	l := &Logger{level: opts.Level, format: format}

	var cores []zapcore.Core
	if opts.File != "" {
		file, err := os.Create(opts.File)
		if err != nil {
			return nil, fmt.Errorf("create log file: %w", err)
		}
		l.file = file
		cores = append(cores, zapcore.NewCore(
			newEncoder(format, true),
			zapcore.AddSync(file),
			zap.LevelEnablerFunc(func(zapcore.Level) bool { return true }),
		))
	}

	if !opts.Quiet {
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		cores = append(cores,
			zapcore.NewCore(
				newEncoder(format, false),
				zapcore.AddSync(stderr),
				zap.LevelEnablerFunc(func(lv zapcore.Level) bool { return lv >= zapcore.ErrorLevel }),
			),
			zapcore.NewCore(
				newEncoder(format, false),
				zapcore.AddSync(stderr),
				zap.LevelEnablerFunc(func(lv zapcore.Level) bool {
					return lv < zapcore.ErrorLevel && l.GetLevel() >= LogLevelVerbose
				}),
			),
		)
	}

	if len(cores) == 0 {
		l.zl = zap.NewNop()
	} else {
		l.zl = zap.New(zapcore.NewTee(cores...))
	}
	return l, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{level: LogLevelSilent, format: "text", zl: zap.NewNop()}
}

func newEncoder(format string, withTime bool) zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		MessageKey:     "message",
		LevelKey:       "level",
		NameKey:        "logger",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
	}
	if withTime {
		cfg.TimeKey = "time"
	}
	if format == "json" {
		cfg.EncodeLevel = levelEncoder(false)
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeLevel = levelEncoder(true)
	cfg.ConsoleSeparator = " "
	return zapcore.NewConsoleEncoder(cfg)
}

func levelEncoder(upper bool) zapcore.LevelEncoder {
	return func(lv zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		var name string
		switch lv {
		case zapDebug:
			name = "debug"
		case zapVerbose:
			name = "verbose"
		default:
			name = lv.String()
		}
		if upper {
			name = strings.ToUpper(name) + ":"
		}
		enc.AppendString(name)
	}
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	_ = l.zl.Sync()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.log(LogLevelError, zapcore.ErrorLevel, fmt.Sprintf(format, v...))
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.log(LogLevelInfo, zapcore.InfoLevel, fmt.Sprintf(format, v...))
}

// Verbose logs a verbose message
func (l *Logger) Verbose(format string, v ...interface{}) {
	l.log(LogLevelVerbose, zapVerbose, fmt.Sprintf(format, v...))
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.log(LogLevelDebug, zapDebug, fmt.Sprintf(format, v...))
}

func (l *Logger) log(min LogLevel, lv zapcore.Level, msg string, fields ...zap.Field) {
	if l.GetLevel() < min {
		return
	}
	if ce := l.zl.Check(lv, msg); ce != nil {
		ce.Write(fields...)
	}
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current logging level
func (l *Logger) GetLevel() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// With returns a child logger sharing sinks and level that adds a
// correlation field to every line.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{
		level:  l.GetLevel(),
		format: l.format,
		zl:     l.zl.With(zap.String(key, value)),
	}
}

// LogFetch logs one upstream API call. Successful calls are verbose, failures
// are info so they show up at the default CLI level with -v.
func (l *Logger) LogFetch(op, url string, success bool, rtt time.Duration, err error) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("url", url),
		zap.Duration("rtt", rtt),
	}
	if success {
		l.log(LogLevelVerbose, zapVerbose, "fetch ok", fields...)
		return
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	l.log(LogLevelInfo, zapcore.InfoLevel, "fetch failed", fields...)
}

// LogStartup logs the effective runtime settings.
func (l *Logger) LogStartup(command, baseURL string, pageSize int, policy string, configPath string) {
	l.Info("Starting dexterm %s", command)
	l.Verbose("  API: %s", baseURL)
	l.Verbose("  Page size: %d", pageSize)
	l.Verbose("  Join policy: %s", policy)
	l.Verbose("  Config: %s", configPath)
}
