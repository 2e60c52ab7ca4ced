// internal/logger/logger.go
//
// Structured logger (Zap + Lumberjack).
//
// Context
// -------
// With a log directory, datadict writes JSON events to one file per day
// under `<dir>/YYYY-MM-DD.log` and, when tee is set, mirrors them to stderr
// in console form.  Without a directory only the console core is attached.
// Rotation, compression, and retention are handled by Lumberjack.
//
// The console core writes to stderr, never stdout: `datadict args` prints
// its result on stdout and must stay machine-readable.
//
// Usage
// -----
//
//	log, err := logger.New(cfg.Logging.Dir, cfg.Logging.Tee, cfg.Logging.Level)
//	if err != nil { … }
//	log.Infow("specfile loaded", "file", path)
//
// Notes
// -----
// • Zap core uses ISO-8601 timestamps and lowercase levels.
// • Oxford commas, two spaces after periods.
package logger

import (
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a *zap.SugaredLogger and installs it as the process-wide
// default via zap.ReplaceGlobals.  level is one of debug, info, warn, or
// error; anything else means info.
func New(dir string, tee bool, level string) (*zap.SugaredLogger, error) {
	lvl := zap.InfoLevel
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zap.InfoLevel
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		lvl,
	)

	if dir == "" {
		z := zap.New(consoleCore).Sugar()
		zap.ReplaceGlobals(z.Desugar())
		return z, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	fileName := time.Now().Format("2006-01-02") + ".log"
	fileSink := &lumberjack.Logger{
		Filename:   filepath.Join(dir, fileName),
		MaxSize:    50, // MB
		MaxBackups: 7,  // keep last seven files
		MaxAge:     14, // days
		Compress:   true,
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(fileSink), lvl),
	}
	if tee {
		cores = append(cores, consoleCore)
	}

	z := zap.New(
		zapcore.NewTee(cores...),
		zap.ErrorOutput(zapcore.AddSync(fileSink)),
	).Sugar()
	zap.ReplaceGlobals(z.Desugar())

	z.Debugw("logger online", "dir", dir, "tee", tee)
	return z, nil
}
