package sinks

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ashenkeep/voxelserver/logging"
)

// Zap forwards router events to a *zap.Logger, mapping logging.Severity onto
// zapcore levels so production deployments can reuse an existing zap
// pipeline instead of the bundled console/JSON sinks.
type Zap struct {
	logger *zap.Logger
}

// NewZap builds a sink around the provided zap logger. A nil logger falls
// back to zap.NewNop so the sink is always safe to register.
func NewZap(logger *zap.Logger) *Zap {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Zap{logger: logger}
}

func (s *Zap) Write(event logging.Event) error {
	fields := []zap.Field{
		zap.Uint64("tick", event.Tick),
		zap.String("category", event.Category),
		zap.String("actor", formatEntity(event.Actor)),
	}
	if event.Payload != nil {
		fields = append(fields, zap.Any("payload", event.Payload))
	}
	if len(event.Extra) > 0 {
		fields = append(fields, zap.Any("extra", event.Extra))
	}
	s.logger.Check(severityLevel(event.Severity), string(event.Type)).Write(fields...)
	return nil
}

func (s *Zap) Close(context.Context) error {
	return s.logger.Sync()
}

func severityLevel(severity logging.Severity) zapcore.Level {
	switch severity {
	case logging.SeverityDebug:
		return zapcore.DebugLevel
	case logging.SeverityInfo:
		return zapcore.InfoLevel
	case logging.SeverityWarn:
		return zapcore.WarnLevel
	case logging.SeverityError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
