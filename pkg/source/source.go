// Package source builds weighted trees from external inputs.
//
// Subpackages scan a concrete input into a [tree.Model] keyed by
// slash-joined paths, the same identifiers [tree.ReadJSON] produces, so a
// scanned tree can be written with [tree.WriteJSON] and read back
// unchanged:
//
//   - [fs]: a local directory, weighted by file size
//   - [s3]: an S3 bucket prefix, weighted by object size
//
// [tree.Model]: github.com/matzehuels/treemap/pkg/tree.Model
// [tree.ReadJSON]: github.com/matzehuels/treemap/pkg/tree.ReadJSON
// [tree.WriteJSON]: github.com/matzehuels/treemap/pkg/tree.WriteJSON
// [fs]: github.com/matzehuels/treemap/pkg/source/fs
// [s3]: github.com/matzehuels/treemap/pkg/source/s3
package source

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/treemap/pkg/observability"
)

// Source kinds, used in cache keys, metrics and spans.
const (
	KindFile = "file"
	KindDir  = "dir"
	KindS3   = "s3"
)

// DefaultMaxFiles limits the number of entries a single scan may collect.
const DefaultMaxFiles = 1 << 20

// ErrTooManyFiles is returned when a scan exceeds its file limit.
var ErrTooManyFiles = errors.New("too many files")

// Logger receives non-fatal scan problems such as unreadable directories.
type Logger func(format string, args ...any)

// Discard is a [Logger] that drops everything.
func Discard(string, ...any) {}

// MaxFiles returns n, or [DefaultMaxFiles] when n is not positive.
func MaxFiles(n int) int {
	if n <= 0 {
		return DefaultMaxFiles
	}
	return n
}

var tracer = otel.Tracer("github.com/matzehuels/treemap/pkg/source")

// Trace starts a scan span and fires the scan start hook. The returned
// function ends both and must be called exactly once.
func Trace(ctx context.Context, kind, input string) (context.Context, func(nodes int, err error)) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "source.Scan",
		trace.WithAttributes(
			attribute.String("treemap.source", kind),
			attribute.String("treemap.input", input),
		),
	)
	observability.Scan().OnScanStart(ctx, kind, input)

	return ctx, func(nodes int, err error) {
		observability.Scan().OnScanComplete(ctx, kind, nodes, time.Since(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("treemap.nodes", nodes))
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}
