package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/source"
	"github.com/matzehuels/treemap/pkg/source/fs"
	"github.com/matzehuels/treemap/pkg/source/s3"
	"github.com/matzehuels/treemap/pkg/tree"
)

// =============================================================================
// Tree Loading
// =============================================================================

// ReadTree decodes a JSON tree with the weight type of opts.Weights.
func ReadTree(data []byte, opts Options) (Tree, error) {
	r := bytes.NewReader(data)
	if opts.Weights == WeightsDecimal {
		m, err := tree.ReadDecimalJSON(r)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read tree")
		}
		return DecimalTree(m), nil
	}
	m, err := tree.ReadInt64JSON(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read tree")
	}
	return Int64Tree(m), nil
}

// LoadFile reads a JSON tree file.
func LoadFile(opts Options) (Tree, error) {
	if err := errors.ValidatePath(opts.Input); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(opts.Input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "tree file %s", opts.Input)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", opts.Input)
	}
	return ReadTree(data, opts)
}

// Scan scans a directory or S3 prefix. Scanned trees always have integer
// weights.
func Scan(ctx context.Context, opts Options) (Tree, error) {
	logf := source.Discard
	if opts.Logger != nil {
		logf = opts.Logger.Warnf
	}

	switch opts.Source {
	case source.KindDir:
		m, err := fs.Scan(ctx, opts.Input, fs.Options{
			Hidden:   opts.Hidden,
			MaxFiles: opts.MaxFiles,
			Logger:   logf,
		})
		if err != nil {
			return nil, scanError(err, opts.Input)
		}
		return Int64Tree(m), nil
	case source.KindS3:
		bucket, prefix, err := errors.ParseS3URL(opts.Input)
		if err != nil {
			return nil, err
		}
		if opts.S3Client == nil {
			return nil, errors.New(errors.ErrCodeInvalidSource, "no S3 client configured")
		}
		m, err := s3.Scan(ctx, opts.S3Client, bucket, prefix, s3.Options{
			MaxFiles: opts.MaxFiles,
			Logger:   logf,
		})
		if err != nil {
			return nil, scanError(err, opts.Input)
		}
		return Int64Tree(m), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidSource, "source %q cannot be scanned", opts.Source)
	}
}

func scanError(err error, input string) error {
	switch {
	case os.IsNotExist(err):
		return errors.Wrap(errors.ErrCodeNotFound, err, "scan %s", input)
	case errors.GetCode(err) == errors.ErrCodeCanceled:
		return err
	default:
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "scan %s", input)
	}
}

// cacheInput normalizes an input for cache keys.
func cacheInput(opts Options) string {
	if opts.Source != source.KindDir {
		return opts.Input
	}
	if abs, err := filepath.Abs(opts.Input); err == nil {
		return abs
	}
	return opts.Input
}
