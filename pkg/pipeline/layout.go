package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/tree"
)

var tracer = otel.Tracer("github.com/matzehuels/treemap/pkg/pipeline")

// =============================================================================
// Layout Computation
// =============================================================================

// ComputeLayout lays out m with the squarified engine. Layout starts at
// opts.Start, or at the root when Start is empty. Cancelling ctx, or
// opts.Canceler when set, stops the engine and returns a CANCELED error.
func ComputeLayout[T any](ctx context.Context, m *tree.Model[string, T], opts Options) (*layout.RectTree[string], error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}

	start := opts.Start
	if start == "" {
		start = m.Root()
	}
	if !m.Contains(start) {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", start)
	}

	ctx, span := tracer.Start(ctx, "pipeline.ComputeLayout",
		trace.WithAttributes(
			attribute.String("treemap.start", start),
			attribute.Int("treemap.width", opts.Width),
			attribute.Int("treemap.height", opts.Height),
			attribute.Int("treemap.nodes", m.Len()),
		),
	)
	defer span.End()

	engine := layout.NewSquarified[string, T](m.Arithmetic(),
		layout.WithMaxDepth(opts.MaxDepth),
		layout.WithBorder(opts.Border),
	)

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, m.Len())
	began := time.Now()
	canceler := layout.ContextCanceler(ctx)
	if opts.Canceler != nil {
		canceler = layout.CancelFunc(func() bool {
			return ctx.Err() != nil || opts.Canceler.Canceled()
		})
	}
	rects := engine.LayoutCancelable(m, start, opts.Width, opts.Height, canceler)
	var err error
	if canceler.Canceled() {
		if err = ctx.Err(); err == nil {
			err = context.Canceled
		}
	}
	hooks.OnLayoutComplete(ctx, rects.Len(), time.Since(began), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Wrap(errors.ErrCodeCanceled, err, "layout canceled")
	}
	span.SetAttributes(attribute.Int("treemap.rects", rects.Len()))
	span.SetStatus(codes.Ok, "")
	return rects, nil
}
