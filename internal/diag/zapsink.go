package diag

import "go.uber.org/zap"

// WriteTo logs every message in the log through logger, at a level chosen
// from the message's severity: Info/Warning go to Info/Warn, Error to
// Warn, Fatal to Error (the caller decides whether a fatal diagnostic
// actually terminates the process, so this never calls zap's own Fatal).
func (l *Log) WriteTo(logger *zap.Logger) {
	for _, m := range l.messages {
		fields := []zap.Field{
			zap.String("code", string(m.Code)),
			zap.String("severity", m.Severity.String()),
		}
		switch m.Severity {
		case Info:
			logger.Info(m.Text, fields...)
		case Warning, Error:
			logger.Warn(m.Text, fields...)
		default:
			logger.Error(m.Text, fields...)
		}
	}
}
