package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fefrre/ferweb/internal/gelf"
)

type Options struct {
	Level    string
	Format   string // json or console
	GelfAddr string
	Service  string
}

// New builds the process logger. When GelfAddr is set, entries are also
// shipped as GELF over UDP. The returned close func flushes and releases the sink.
func New(opts Options) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	config := zap.NewProductionConfig()
	if opts.Format == "console" {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(level)

	var gw *gelf.Writer
	var buildOpts []zap.Option
	if opts.GelfAddr != "" {
		gw, err = gelf.New(opts.GelfAddr, opts.Service)
		if err != nil {
			return nil, nil, fmt.Errorf("gelf sink: %w", err)
		}
		gcore := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			gw,
			config.Level,
		)
		buildOpts = append(buildOpts, zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, gcore)
		}))
	}

	logger, err := config.Build(buildOpts...)
	if err != nil {
		if gw != nil {
			gw.Close()
		}
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if opts.Service != "" {
		logger = logger.With(zap.String("service", opts.Service))
	}

	closeFn := func() {
		_ = logger.Sync()
		if gw != nil {
			gw.Close()
		}
	}
	return logger, closeFn, nil
}
