package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"job-hunt-agent/internal/logging/types"
)

// ZapAdapter writes log entries through a zap logger
type ZapAdapter struct {
	name   string
	logger *zap.Logger
}

// StdoutConfig represents configuration for the stdout adapter
type StdoutConfig struct {
	Format    string `yaml:"format"`    // json or text
	Colorized bool   `yaml:"colorized"` // colour levels in text mode
}

// FileConfig represents configuration for the file adapter
type FileConfig struct {
	FilePath   string `yaml:"file_path"`
	Format     string `yaml:"format"`
	CreateDirs bool   `yaml:"create_dirs"`
}

// NewZapAdapter wraps an existing zap logger, mostly useful in tests
func NewZapAdapter(name string, logger *zap.Logger) *ZapAdapter {
	return &ZapAdapter{name: name, logger: logger}
}

// NewStdoutAdapter creates an adapter writing to stdout
func NewStdoutAdapter(name string, config StdoutConfig) (*ZapAdapter, error) {
	logger, err := buildZap(config.Format, config.Colorized, []string{"stdout"})
	if err != nil {
		return nil, fmt.Errorf("failed to build stdout logger: %w", err)
	}
	return &ZapAdapter{name: name, logger: logger}, nil
}

// NewFileAdapter creates an adapter appending to a file
func NewFileAdapter(name string, config FileConfig) (*ZapAdapter, error) {
	if config.FilePath == "" {
		return nil, fmt.Errorf("file_path is required for file adapter")
	}

	if config.CreateDirs {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	logger, err := buildZap(config.Format, false, []string{config.FilePath})
	if err != nil {
		return nil, fmt.Errorf("failed to build file logger: %w", err)
	}
	return &ZapAdapter{name: name, logger: logger}, nil
}

// Write writes a log entry through zap. The level filter lives in the
// MultiLogger, so every entry reaching the adapter is emitted.
func (a *ZapAdapter) Write(entry *types.LogEntry) error {
	fields := make([]zap.Field, 0, len(entry.Fields))

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fields = append(fields, zap.Any(k, entry.Fields[k]))
	}

	if ce := a.logger.Check(entry.Level.ZapLevel(), entry.Message); ce != nil {
		ce.Time = entry.Timestamp
		ce.Write(fields...)
	}
	return nil
}

// Close flushes buffered entries
func (a *ZapAdapter) Close() error {
	err := a.logger.Sync()
	// Syncing stdout fails on some platforms (EINVAL on pipes/ttys)
	if err != nil && strings.Contains(err.Error(), "invalid argument") {
		return nil
	}
	return err
}

// Name returns the name of the adapter
func (a *ZapAdapter) Name() string {
	return a.name
}

func buildZap(format string, colorized bool, outputs []string) (*zap.Logger, error) {
	encoding := "json"
	levelEncoder := zapcore.LowercaseLevelEncoder

	if strings.EqualFold(format, "text") || strings.EqualFold(format, "console") {
		encoding = "console"
		levelEncoder = zapcore.CapitalLevelEncoder
		if colorized {
			levelEncoder = zapcore.CapitalColorLevelEncoder
		}
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(zapcore.DebugLevel),
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:  "message",
			LevelKey:    "level",
			EncodeLevel: levelEncoder,
			TimeKey:     "time",
			EncodeTime:  zapcore.RFC3339TimeEncoder,
		},
	}

	return cfg.Build()
}
