package jobpipe

import "log/slog"

// debugSink writes transition diagnostics. It is silent unless verbose is set
// and never panics.
type debugSink struct {
	logger  *slog.Logger
	verbose bool
}

func (d debugSink) debug(msg string, args ...any) {
	if !d.verbose || d.logger == nil {
		return
	}
	d.logger.Info(msg, args...)
}

func (d debugSink) debugErr(msg string, err error, args ...any) {
	if !d.verbose || d.logger == nil || err == nil {
		return
	}
	args = append(args, "error", err)
	if stack := ErrorStack(err); stack != "" {
		args = append(args, "stack", stack)
	}
	d.logger.Info(msg, args...)
}
