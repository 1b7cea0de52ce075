package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// contextExtractor pulls a structured attribute out of a context.Context.
type contextExtractor func(ctx context.Context) (slog.Attr, bool)

// options accumulates logger.New configuration.
type options struct {
	level           slog.Level
	json            bool
	output          io.Writer
	attrs           []slog.Attr
	extractors      []contextExtractor
	handlerOptions  *slog.HandlerOptions
	hasHandlerOptsSet bool
}

// Option configures a logger built by New.
type Option func(*options)

// WithLevel sets the minimum level that will be logged.
func WithLevel(level slog.Level) Option {
	return func(o *options) { o.level = level }
}

// WithJSONFormatter selects JSON output instead of the default text format.
func WithJSONFormatter() Option {
	return func(o *options) { o.json = true }
}

// WithOutput sets the destination writer (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithAttr attaches static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) { o.attrs = append(o.attrs, attrs...) }
}

// WithHandlerOptions overrides the underlying slog.HandlerOptions.
func WithHandlerOptions(ho *slog.HandlerOptions) Option {
	return func(o *options) {
		o.handlerOptions = ho
		o.hasHandlerOptsSet = true
	}
}

// WithContextExtractors registers functions used to pull attributes out of
// a context.Context passed to the *Context logging methods.
func WithContextExtractors(fns ...contextExtractor) Option {
	return func(o *options) { o.extractors = append(o.extractors, fns...) }
}

// WithContextValue registers a simple extractor that copies ctx.Value(key)
// into an attribute named attrKey, when present and non-empty.
func WithContextValue(key, attrKey string) Option {
	return func(o *options) {
		o.extractors = append(o.extractors, func(ctx context.Context) (slog.Attr, bool) {
			v, ok := ctx.Value(key).(string)
			if !ok || v == "" {
				return slog.Attr{}, false
			}
			return slog.String(attrKey, v), true
		})
	}
}

// WithDevelopment configures a human-readable, debug-level text logger
// tagged with the given service name.
func WithDevelopment(service string) Option {
	return func(o *options) {
		o.level = slog.LevelDebug
		o.json = false
		o.attrs = append(o.attrs, slog.String("service", service), slog.String("env", "development"))
	}
}

// WithStaging configures a JSON, info-level logger tagged with the given
// service name.
func WithStaging(service string) Option {
	return func(o *options) {
		o.level = slog.LevelInfo
		o.json = true
		o.attrs = append(o.attrs, slog.String("service", service), slog.String("env", "staging"))
	}
}

// WithProduction configures a JSON, info-level logger tagged with the given
// service name.
func WithProduction(service string) Option {
	return func(o *options) {
		o.level = slog.LevelInfo
		o.json = true
		o.attrs = append(o.attrs, slog.String("service", service), slog.String("env", "production"))
	}
}

// contextHandler wraps an slog.Handler, injecting attributes extracted from
// the context on every Handle call.
type contextHandler struct {
	slog.Handler
	extractors []contextExtractor
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, extract := range h.extractors {
		if attr, ok := extract(ctx); ok {
			r.AddAttrs(attr)
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), extractors: h.extractors}
}

// New builds a *slog.Logger from the given options.
func New(opts ...Option) *slog.Logger {
	o := &options{
		level:  slog.LevelInfo,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	ho := o.handlerOptions
	if !o.hasHandlerOptsSet {
		ho = &slog.HandlerOptions{Level: o.level}
	}

	var handler slog.Handler
	if o.json {
		handler = slog.NewJSONHandler(o.output, ho)
	} else {
		handler = slog.NewTextHandler(o.output, ho)
	}

	if len(o.attrs) > 0 {
		handler = handler.WithAttrs(o.attrs)
	}

	if len(o.extractors) > 0 {
		handler = &contextHandler{Handler: handler, extractors: o.extractors}
	}

	return slog.New(handler)
}

// SetAsDefault installs l as the package-level default used by slog.Info
// and friends.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}
