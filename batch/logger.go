package batch

import (
	"fmt"
	"io"
	"log/slog"
)

// NewLogger writes text records to w. Errors are logged under "err", and a
// subscriber panic is split into the channel that raised it and the panic
// value.
func NewLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLogAttr,
	}))
}

func replaceLogAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == "error" {
		a.Key = "err"
	}
	if a.Key != "err" {
		return a
	}
	if p, ok := a.Value.Any().(*SubscriberPanic); ok {
		return slog.Group(a.Key,
			slog.String("channel", p.Channel),
			slog.String("panic", fmt.Sprint(p.Value)),
		)
	}
	return a
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
