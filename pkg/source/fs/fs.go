// Package fs scans a local directory into a weighted tree.
//
// Files weigh their size in bytes and directories weigh the sum of what
// they contain. Symbolic links, special files and empty entries are
// skipped, and so are hidden entries unless [Options.Hidden] is set.
// Top-level subdirectories are walked concurrently.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/treemap/pkg/source"
	"github.com/matzehuels/treemap/pkg/tree"
	"github.com/matzehuels/treemap/pkg/weight"
)

// DefaultWorkers bounds the number of subtrees walked in parallel.
const DefaultWorkers = 8

// Options configures [Scan].
type Options struct {
	// Hidden includes entries whose name starts with a dot.
	Hidden bool
	// MaxFiles aborts the scan with [source.ErrTooManyFiles] once more
	// entries have been seen. Zero means [source.DefaultMaxFiles].
	MaxFiles int
	// Workers is the walk concurrency. Zero means [DefaultWorkers].
	Workers int
	// Logger receives unreadable entries. Nil discards them.
	Logger source.Logger
}

type entry struct {
	name     string
	size     int64
	children []*entry
}

func (e *entry) add(c *entry) {
	if c == nil || c.size <= 0 {
		return
	}
	e.children = append(e.children, c)
	e.size += c.size
}

type scanner struct {
	hidden bool
	limit  int64
	seen   atomic.Int64
	logf   source.Logger
}

// Scan walks root and returns its weighted tree. The root node is named
// after the directory; all other identifiers are slash-joined paths below
// it. If root is a regular file the tree has a single node.
func Scan(ctx context.Context, root string, opts Options) (m *tree.Model[string, int64], err error) {
	ctx, done := source.Trace(ctx, source.KindDir, root)
	defer func() {
		n := 0
		if m != nil {
			n = m.Len()
		}
		done(n, err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	s := &scanner{
		hidden: opts.Hidden,
		limit:  int64(source.MaxFiles(opts.MaxFiles)),
		logf:   opts.Logger,
	}
	if s.logf == nil {
		s.logf = source.Discard
	}

	top := &entry{name: rootName(root)}
	if !info.IsDir() {
		top.size = info.Size()
		return build(top)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	// Each goroutine owns one slot, so results keep directory order.
	children := make([]*entry, len(entries))
	var fileErr error
	for i, de := range entries {
		if !s.include(de) {
			continue
		}
		path := filepath.Join(root, de.Name())
		if de.IsDir() {
			g.Go(func() error {
				e, err := s.walk(gctx, path, de.Name())
				children[i] = e
				return err
			})
			continue
		}
		if children[i], fileErr = s.file(path, de); fileErr != nil {
			break
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if fileErr != nil {
		return nil, fileErr
	}

	for _, c := range children {
		top.add(c)
	}
	return build(top)
}

func (s *scanner) include(de os.DirEntry) bool {
	if !s.hidden && strings.HasPrefix(de.Name(), ".") {
		return false
	}
	return de.Type()&os.ModeSymlink == 0
}

func (s *scanner) count() error {
	if s.seen.Add(1) > s.limit {
		return fmt.Errorf("%w: limit is %d", source.ErrTooManyFiles, s.limit)
	}
	return nil
}

func (s *scanner) walk(ctx context.Context, path, name string) (*entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.count(); err != nil {
		return nil, err
	}

	e := &entry{name: name}
	entries, err := os.ReadDir(path)
	if err != nil {
		s.logf("skipping %s: %v", path, err)
	}
	for _, de := range entries {
		if !s.include(de) {
			continue
		}
		child := filepath.Join(path, de.Name())
		var c *entry
		if de.IsDir() {
			c, err = s.walk(ctx, child, de.Name())
		} else {
			c, err = s.file(child, de)
		}
		if err != nil {
			return nil, err
		}
		e.add(c)
	}
	return e, nil
}

// file returns nil for entries that are not regular files.
func (s *scanner) file(path string, de os.DirEntry) (*entry, error) {
	info, err := de.Info()
	if err != nil {
		s.logf("skipping %s: %v", path, err)
		return nil, nil
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}
	if err := s.count(); err != nil {
		return nil, err
	}
	return &entry{name: de.Name(), size: info.Size()}, nil
}

func rootName(root string) string {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	name := filepath.Base(root)
	if name == string(filepath.Separator) || name == "." {
		return "root"
	}
	return name
}

func build(top *entry) (*tree.Model[string, int64], error) {
	m := tree.NewModel[string, int64](weight.Int64())
	if err := m.SetRoot(top.name, top.size); err != nil {
		return nil, err
	}
	var insert func(e *entry, id string) error
	insert = func(e *entry, id string) error {
		for _, c := range e.children {
			cid := id + tree.Separator + c.name
			if err := m.Insert(cid, c.size, id, false); err != nil {
				return err
			}
			if err := insert(c, cid); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert(top, top.name); err != nil {
		return nil, err
	}
	return m, nil
}
