package log

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

// New creates a logger which writes JSON encoded entries to writer.
func New(writer io.Writer, level Level, opts ...Option) *Logger {
	if writer == nil {
		panic("the writer is nil")
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg.EncoderConfig),
		zapcore.AddSync(writer),
		zapcore.Level(level),
	)
	return &Logger{
		l:     zap.New(applyFilter(core), opts...),
		level: level,
	}
}

// DevLogger creates a logger with a human readable console encoding.
func DevLogger(writer io.Writer, level Level, opts ...Option) *Logger {
	if writer == nil {
		panic("the writer is nil")
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(writer),
		zapcore.Level(level),
	)
	return &Logger{
		l:     zap.New(applyFilter(core), opts...),
		level: level,
	}
}

// filterRules are applied to every logger created after SetFilterRules was called.
var filterRules zapfilter.FilterFunc

// SetFilterRules installs namespace filter rules like "debug:analysis.* info:*".
// An empty rule set removes the filter.
func SetFilterRules(rules string) error {
	if rules == "" {
		filterRules = nil
		return nil
	}
	f, err := zapfilter.ParseRules(rules)
	if err != nil {
		return err
	}
	filterRules = f
	return nil
}

func applyFilter(core zapcore.Core) zapcore.Core {
	if filterRules == nil {
		return core
	}
	return zapfilter.NewFilteringCore(core, filterRules)
}
