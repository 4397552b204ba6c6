package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/clinicore/medical-automation-api/internal/core/ports/out"
)

const timestampLayout = "2006-01-02 15:04:05.000"

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[37m"
)

var levelColors = map[out.LogLevel]string{
	out.LogLevelDebug: colorGray,
	out.LogLevelInfo:  colorGreen,
	out.LogLevelWarn:  colorYellow,
	out.LogLevelError: colorRed,
}

// ConsoleLogger пишет цветные структурированные записи в stdout.
// Экземпляры иммутабельны: WithModule и WithFields возвращают копию,
// поэтому один логгер можно раздавать фоновым горутинам без гонок
type ConsoleLogger struct {
	defaultFields out.LogFields
	module        string
	location      *time.Location
	minLevel      out.LogLevel
}

func NewConsoleLogger(timezone string, level string) (*ConsoleLogger, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}

	return &ConsoleLogger{
		defaultFields: make(out.LogFields),
		location:      loc,
		minLevel:      out.ParseLogLevel(level),
	}, nil
}

func (l *ConsoleLogger) clone() *ConsoleLogger {
	fields := make(out.LogFields, len(l.defaultFields))
	for k, v := range l.defaultFields {
		fields[k] = v
	}

	return &ConsoleLogger{
		defaultFields: fields,
		module:        l.module,
		location:      l.location,
		minLevel:      l.minLevel,
	}
}

func (l *ConsoleLogger) WithFields(fields out.LogFields) out.LoggerPort {
	derived := l.clone()
	for k, v := range fields {
		derived.defaultFields[k] = v
	}

	return derived
}

func (l *ConsoleLogger) WithModule(module string) out.LoggerPort {
	derived := l.clone()
	derived.module = module

	return derived
}

func (l *ConsoleLogger) Debug(event string, fields out.LogFields) {
	l.log(out.LogLevelDebug, event, fields)
}

func (l *ConsoleLogger) Info(event string, fields out.LogFields) {
	l.log(out.LogLevelInfo, event, fields)
}

func (l *ConsoleLogger) Warn(event string, fields out.LogFields) {
	l.log(out.LogLevelWarn, event, fields)
}

func (l *ConsoleLogger) Error(event string, fields out.LogFields) {
	l.log(out.LogLevelError, event, fields)
}

func (l *ConsoleLogger) log(level out.LogLevel, event string, fields out.LogFields) {
	// Фильтрация по минимальному уровню из конфигурации
	if !level.Enabled(l.minLevel) {
		return
	}

	module := l.module
	if module == "" {
		module = "unknown"
	}

	// Поля записи поверх полей логгера, event всегда присутствует
	merged := make(out.LogFields, len(l.defaultFields)+len(fields)+1)
	for k, v := range l.defaultFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	merged["event"] = event

	timestamp := time.Now().In(l.location).Format(timestampLayout)
	fieldsBytes, _ := json.MarshalIndent(merged, "", "  ")

	fmt.Fprintf(os.Stdout, "%s[%s]%s %s[%s]%s %s[%s]%s\n%s\n",
		colorGray, timestamp, colorReset,
		levelColors[level], level, colorReset,
		colorCyan, module, colorReset,
		string(fieldsBytes),
	)
}
