package output

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LogLevel represents the importance level of a log message
type LogLevel int

const (
	LogLevelTrace LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelTrace:
		return "TRACE"
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText writes the level by name so JSON entries stay readable.
func (l LogLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText accepts any name ParseLogLevel accepts.
func (l *LogLevel) UnmarshalText(text []byte) error {
	level, err := ParseLogLevel(string(text))
	if err != nil {
		return err
	}
	*l = level
	return nil
}

// ParseLogLevel converts a level name such as "warn" to a LogLevel.
func ParseLogLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LogLevelTrace, nil
	case "debug":
		return LogLevelDebug, nil
	case "info", "":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	case "fatal":
		return LogLevelFatal, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// LogFormat represents the output format for logs
type LogFormat int

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

// ParseLogFormat converts "text" or "json" to a LogFormat.
func ParseLogFormat(name string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "":
		return LogFormatText, nil
	case "json":
		return LogFormatJSON, nil
	default:
		return LogFormatText, fmt.Errorf("unknown log format %q", name)
	}
}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     LogLevel       `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Logger handles structured logging with multiple outputs and formats
type Logger struct {
	level     LogLevel
	format    LogFormat
	outputs   []io.Writer
	closers   []io.Closer
	fields    map[string]any
	formatter *Formatter
}

// NewLogger creates a new structured logger
func NewLogger() *Logger {
	return &Logger{
		level:     LogLevelInfo,
		format:    LogFormatText,
		outputs:   []io.Writer{os.Stderr},
		fields:    make(map[string]any),
		formatter: NewFormatter(os.Stderr),
	}
}

// NewConfiguredLogger builds a logger from settings values. It writes to w
// and, when file is not empty, appends to that file as well.
func NewConfiguredLogger(w io.Writer, level, format, file string) (*Logger, error) {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	fmtt, err := ParseLogFormat(format)
	if err != nil {
		return nil, err
	}

	logger := NewLogger().SetLevel(lvl).SetFormat(fmtt).SetOutputs(w)
	logger.formatter = NewFormatter(w)

	if file != "" {
		f, err := openLogFile(file)
		if err != nil {
			return nil, err
		}
		logger.AddOutput(f)
		logger.closers = append(logger.closers, f)
	}

	return logger, nil
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level LogLevel) *Logger {
	l.level = level
	return l
}

// SetFormat sets the output format (text or JSON)
func (l *Logger) SetFormat(format LogFormat) *Logger {
	l.format = format
	return l
}

// AddOutput adds an output writer for logs
func (l *Logger) AddOutput(w io.Writer) *Logger {
	l.outputs = append(l.outputs, w)
	return l
}

// SetOutputs replaces all output writers
func (l *Logger) SetOutputs(outputs ...io.Writer) *Logger {
	l.outputs = outputs
	return l
}

// WithField adds a field that will be included in all subsequent log entries
func (l *Logger) WithField(key string, value any) *Logger {
	newLogger := &Logger{
		level:     l.level,
		format:    l.format,
		outputs:   l.outputs,
		closers:   l.closers,
		fields:    make(map[string]any, len(l.fields)+1),
		formatter: l.formatter,
	}

	maps.Copy(newLogger.fields, l.fields)
	newLogger.fields[key] = value

	return newLogger
}

// WithError adds an error field
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

// Close closes any log files the logger opened.
func (l *Logger) Close() error {
	var first error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	l.closers = nil
	return first
}

// log is the internal logging method
func (l *Logger) log(level LogLevel, message string, fields ...map[string]any) {
	if level < l.level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Fields:    make(map[string]any),
	}

	maps.Copy(entry.Fields, l.fields)
	for _, fieldMap := range fields {
		maps.Copy(entry.Fields, fieldMap)
	}

	if len(entry.Fields) == 0 {
		entry.Fields = nil
	}

	l.writeEntry(entry)
}

// writeEntry writes a log entry to all configured outputs
func (l *Logger) writeEntry(entry LogEntry) {
	var output string

	switch l.format {
	case LogFormatJSON:
		if data, err := json.Marshal(entry); err == nil {
			output = string(data) + "\n"
		} else {
			output = fmt.Sprintf(`{"level":"ERROR","message":"Failed to marshal log entry: %v"}%s`, err, "\n")
		}
	case LogFormatText:
		output = l.formatTextEntry(entry)
	}

	for _, w := range l.outputs {
		fmt.Fprint(w, output)
	}
}

// formatTextEntry formats a log entry as human-readable text
func (l *Logger) formatTextEntry(entry LogEntry) string {
	var parts []string

	parts = append(parts, entry.Timestamp.Format("15:04:05"))
	parts = append(parts, l.formatLogLevel(entry.Level))
	parts = append(parts, entry.Message)

	if len(entry.Fields) > 0 {
		parts = append(parts, l.formatFields(entry.Fields))
	}

	return strings.Join(parts, " ") + "\n"
}

// formatLogLevel formats the log level with appropriate colors
func (l *Logger) formatLogLevel(level LogLevel) string {
	text := fmt.Sprintf("[%s]", level)
	if !l.formatter.colorOutput {
		return text
	}

	switch level {
	case LogLevelTrace, LogLevelDebug:
		return l.formatter.colorize(text, l.formatter.theme.Muted, StyleDim)
	case LogLevelInfo:
		return l.formatter.colorize(text, l.formatter.theme.Info, StyleNormal)
	case LogLevelWarn:
		return l.formatter.colorize(text, l.formatter.theme.Warning, StyleBold)
	default:
		return l.formatter.colorize(text, l.formatter.theme.Error, StyleBold)
	}
}

// formatFields renders fields as key=value pairs sorted by key
func (l *Logger) formatFields(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fieldPairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pair := fmt.Sprintf("%s=%v", k, fields[k])
		switch k {
		case "error":
			pair = l.formatter.colorize(pair, l.formatter.theme.Error, StyleNormal)
		case "duration", "elapsed":
			pair = l.formatter.colorize(pair, l.formatter.theme.Success, StyleNormal)
		case "component", "module":
			pair = l.formatter.colorize(pair, l.formatter.theme.Primary, StyleNormal)
		}
		fieldPairs = append(fieldPairs, pair)
	}

	return l.formatter.colorize(fmt.Sprintf("[%s]", strings.Join(fieldPairs, " ")), l.formatter.theme.Secondary, StyleDim)
}

// LogDuration logs how long an operation took, louder the slower it was.
func (l *Logger) LogDuration(operation string, duration time.Duration, fields ...map[string]any) {
	durationFields := map[string]any{
		"operation": operation,
		"duration":  duration.String(),
	}
	for _, fieldMap := range fields {
		maps.Copy(durationFields, fieldMap)
	}

	switch {
	case duration > 5*time.Second:
		l.Warn("Slow operation detected", durationFields)
	case duration > time.Second:
		l.Info("Operation completed", durationFields)
	default:
		l.Debug("Operation completed", durationFields)
	}
}

// Trace logs a trace message
func (l *Logger) Trace(message string, fields ...map[string]any) {
	l.log(LogLevelTrace, message, fields...)
}

// Debug logs a debug message
func (l *Logger) Debug(message string, fields ...map[string]any) {
	l.log(LogLevelDebug, message, fields...)
}

// Info logs an info message
func (l *Logger) Info(message string, fields ...map[string]any) {
	l.log(LogLevelInfo, message, fields...)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, fields ...map[string]any) {
	l.log(LogLevelWarn, message, fields...)
}

// Error logs an error message
func (l *Logger) Error(message string, fields ...map[string]any) {
	l.log(LogLevelError, message, fields...)
}

func openLogFile(filename string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}
