package rtplot

import (
	"context"
	"io"
	"log"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/ukaji3/rtplot-go/pkg/rtplot"

// Renderer composes the chart views. A Renderer holds no per-call state; one value may be
// used from several goroutines as long as each call draws into its own panels.
type Renderer struct {
	opts   Options
	logger *log.Logger
	tracer trace.Tracer
}

// New returns a Renderer using opts.
func New(opts Options) *Renderer {
	r := &Renderer{opts: opts, logger: opts.Logger, tracer: opts.Tracer}
	if r.logger == nil {
		r.logger = log.New(io.Discard, "", 0)
	}
	if r.tracer == nil {
		r.tracer = noop.NewTracerProvider().Tracer(tracerName)
	}
	return r
}

// Options returns the renderer's options.
func (r *Renderer) Options() Options { return r.opts }

func (r *Renderer) start(ctx context.Context, view string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, "rtplot."+view, trace.WithAttributes(attrs...))
}

// fail records err on the span and wraps it for the caller.
func (r *Renderer) fail(span trace.Span, view, component string, err error) error {
	rerr := NewRenderError(view, component, err)
	span.RecordError(rerr)
	span.SetStatus(codes.Error, rerr.Error())
	r.logger.Printf("%v", rerr)
	return rerr
}
