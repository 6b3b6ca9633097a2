package ggm

// https://stackoverflow.com/questions/77422213/how-to-hide-all-keys-when-using-slog-in-golang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Logger is passed explicitly to every component that reports progress.
// Callers gate informational messages on Verbosity; errors are always logged.
type Logger interface {
	Info(message string, module string)
	Error(message string)
	Verbosity() int
}

// StdLogger writes informational messages as plain text and errors as JSON.
type StdLogger struct {
	InfoLog   *slog.Logger
	ErrorLog  *slog.Logger
	verbosity int
}

func NewLogger(verbosity int, stdout io.Writer, stderr io.Writer) *StdLogger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	return &StdLogger{
		InfoLog:   slog.New(NewHandler(stdout, opts)),
		ErrorLog:  slog.New(slog.NewJSONHandler(stderr, opts)),
		verbosity: verbosity,
	}
}

func (l *StdLogger) Info(message string, module string) {
	l.InfoLog.Info(message, "module", module)
}

func (l *StdLogger) Error(message string) {
	l.ErrorLog.Error(message)
}

func (l *StdLogger) Verbosity() int {
	return l.verbosity
}

// Handler formats records as "[time] [attr]... message", after the handler in
// the answer linked at the top of this file.
type Handler struct {
	h   slog.Handler
	mu  *sync.Mutex
	out io.Writer
}

func NewHandler(o io.Writer, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &Handler{
		out: o,
		h: slog.NewTextHandler(o, &slog.HandlerOptions{
			Level:       opts.Level,
			AddSource:   opts.AddSource,
			ReplaceAttr: nil,
		}),
		mu: &sync.Mutex{},
	}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{h: h.h.WithAttrs(attrs), out: h.out, mu: h.mu}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{h: h.h.WithGroup(name), out: h.out, mu: h.mu}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	formattedTime := r.Time.Format("[2006/01/02 15:04:05]")

	// time first, then every attribute, then the message
	strs := []string{formattedTime}

	if r.NumAttrs() != 0 {
		r.Attrs(func(a slog.Attr) bool {
			value := fmt.Sprintf("[%s]", a.Value.String())
			strs = append(strs, value)
			return true
		})
	}
	strs = append(strs, r.Message)

	result := strings.Join(strs, " ") + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.out.Write([]byte(result))
	return err
}
