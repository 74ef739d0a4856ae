package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps *zap.Logger so that Named and With keep the wrapper type.
type Logger struct {
	*zap.Logger
}

// New builds a logger from cfg. An invalid level falls back to info and an
// unusable output file falls back to stdout.
func New(cfg config.LoggerConfig) *Logger {
	var zapConfig zap.Config
	if strings.EqualFold(cfg.Level, "debug") { // More verbose debug config
		zapConfig = zap.NewDevelopmentConfig()
	} else { // Production config
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder // Standard time format
	}

	// Set the log level

	if err := zapConfig.Level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q, using info: %v\n", cfg.Level, err)
		zapConfig.Level.SetLevel(zapcore.InfoLevel)
	}

	// Configure output paths
	output := cfg.OutputFile
	if output == "" {
		output = "stdout"
	}
	zapConfig.OutputPaths = []string{output}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	if output != "stdout" && output != "stderr" {
		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "cannot create log directory for %q, using stdout: %v\n", output, err)
			zapConfig.OutputPaths = []string{"stdout"}
		} else {
			zapConfig.OutputPaths = []string{output, "stdout"} // Log to file and stdout
		}
	}

	// Configure encoding
	switch strings.ToLower(cfg.Format) {
	case "console", "text":
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder // Colored level for console
	default:
		zapConfig.Encoding = "json"
	}

	zl, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot build logger, using production defaults: %v\n", err)
		zl, _ = zap.NewProduction()
	}

	l := &Logger{Logger: zl}
	l.Info("Logger initialized",
		zap.String("level", zapConfig.Level.String()),
		zap.String("format", zapConfig.Encoding),
		zap.Strings("output_paths", zapConfig.OutputPaths),
	)
	return l
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{Logger: l.Logger.Named(name)}
}

func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}
