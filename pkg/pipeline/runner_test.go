package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/layout"
)

const wijkJSON = `{
  "name": "root",
  "children": [
    {"name": "a", "weight": 6}, {"name": "b", "weight": 6}, {"name": "c", "weight": 4},
    {"name": "d", "weight": 3}, {"name": "e", "weight": 2}, {"name": "f", "weight": 2},
    {"name": "g", "weight": 1}
  ]
}`

const halfWijkJSON = `{
  "name": "root",
  "children": [
    {"name": "a", "weight": 3}, {"name": "b", "weight": 3}, {"name": "c", "weight": 2},
    {"name": "d", "weight": 1.5}, {"name": "e", "weight": 1}, {"name": "f", "weight": 1},
    {"name": "g", "weight": 0.5}
  ]
}`

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

func checkRect(t *testing.T, rects *layout.RectTree[string], id string, x, y, w, h int) {
	t.Helper()
	r, ok := rects.Lookup(id)
	if !ok {
		t.Fatalf("%s not laid out", id)
	}
	if r.X != x || r.Y != y || r.Width != w || r.Height != h {
		t.Errorf("%s = %v, want %d,%d %dx%d", id, r, x, y, w, h)
	}
}

func TestExecuteFile(t *testing.T) {
	path := writeFile(t, "tree.json", wijkJSON)
	r := quietRunner(nil)

	res, err := r.Execute(context.Background(), Options{
		Input:   path,
		Width:   600,
		Height:  400,
		Formats: []string{FormatSVG, FormatJSON, FormatPNG},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if res.Stats.Nodes != 8 || res.Stats.Rects != 8 {
		t.Errorf("stats = %+v, want 8 nodes and 8 rects", res.Stats)
	}
	checkRect(t, res.Layout, "root/a", 0, 0, 300, 200)
	checkRect(t, res.Layout, "root/g", 540, 233, 60, 167)

	for _, f := range []string{FormatSVG, FormatJSON, FormatPNG} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("missing %s artifact", f)
		}
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG]), `id="item-root/c"`) {
		t.Error("SVG missing root/c")
	}
	if res.CacheInfo.TreeHit {
		t.Error("files are never cached")
	}
}

func TestExecuteDecimalWeights(t *testing.T) {
	path := writeFile(t, "tree.json", halfWijkJSON)
	r := quietRunner(nil)

	res, err := r.Execute(context.Background(), Options{
		Input:   path,
		Weights: WeightsDecimal,
		Width:   600,
		Height:  400,
		Formats: []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	checkRect(t, res.Layout, "root/a", 0, 0, 300, 200)
	checkRect(t, res.Layout, "root/d", 471, 0, 129, 233)
	if got := res.Tree.FormatWeight("root/d"); got != "1.5" {
		t.Errorf("FormatWeight(root/d) = %q, want 1.5", got)
	}
}

func TestExecuteOptions(t *testing.T) {
	path := writeFile(t, "tree.json", `{
  "name": "root",
  "children": [
    {"name": "src", "children": [{"name": "main.go", "weight": 80}, {"name": "util.go", "weight": 40}]},
    {"name": "README.md", "weight": 30}
  ]
}`)
	r := quietRunner(nil)

	tests := []struct {
		name  string
		opts  Options
		rects int
	}{
		{"full", Options{}, 5},
		{"depth 1", Options{MaxDepth: 1}, 3},
		{"start", Options{Start: "root/src"}, 3},
		{"border", Options{Border: 20}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.Input = path
			opts.Width, opts.Height = 150, 100
			opts.Formats = []string{FormatJSON}
			res, err := r.Execute(context.Background(), opts)
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if got := res.Layout.Len(); got != tt.rects {
				t.Errorf("rects = %d, want %d", got, tt.rects)
			}
		})
	}
}

func TestExecuteErrors(t *testing.T) {
	path := writeFile(t, "tree.json", wijkJSON)
	bad := writeFile(t, "bad.json", `{"name": ""}`)
	r := quietRunner(nil)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		opts Options
		code errors.Code
	}{
		{"missing file", context.Background(), Options{Input: filepath.Join(t.TempDir(), "nope.json")}, errors.ErrCodeNotFound},
		{"malformed tree", context.Background(), Options{Input: bad}, errors.ErrCodeInvalidInput},
		{"unknown start", context.Background(), Options{Input: path, Start: "root/zz"}, errors.ErrCodeNodeNotFound},
		{"canceled", canceled, Options{Input: path}, errors.ErrCodeCanceled},
		{"s3 without client", context.Background(), Options{Input: "s3://bucket"}, errors.ErrCodeInvalidSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(tt.ctx, tt.opts)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestLoadTreeDirCaching(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	for name, data := range map[string]string{"a.txt": "aaaa", "sub/b.txt": "bb"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(fc)
	ctx := context.Background()

	steps := []struct {
		name    string
		refresh bool
		wantHit bool
	}{
		{"first scan", false, false},
		{"cached", false, true},
		{"refresh", true, false},
	}
	for _, s := range steps {
		tr, hit, err := r.LoadTreeWithCacheInfo(ctx, Options{Input: dir, Refresh: s.refresh})
		if err != nil {
			t.Fatalf("%s: LoadTreeWithCacheInfo() error: %v", s.name, err)
		}
		if hit != s.wantHit {
			t.Errorf("%s: hit = %v, want %v", s.name, hit, s.wantHit)
		}
		if tr.Root() != "project" || tr.FormatWeight("project") != "6" || tr.Len() != 4 {
			t.Errorf("%s: root %q weight %s len %d", s.name, tr.Root(), tr.FormatWeight(tr.Root()), tr.Len())
		}
	}
}

type fakeS3 struct{}

func (fakeS3) ListObjectsV2(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	return &s3.ListObjectsV2Output{Contents: []types.Object{
		{Key: aws.String("x/1.bin"), Size: aws.Int64(30)},
		{Key: aws.String("x/2.bin"), Size: aws.Int64(10)},
		{Key: aws.String("y.bin"), Size: aws.Int64(10)},
	}}, nil
}

func TestExecuteS3(t *testing.T) {
	r := quietRunner(nil)
	res, err := r.Execute(context.Background(), Options{
		Input:    "s3://bucket",
		S3Client: fakeS3{},
		Width:    100,
		Height:   50,
		Formats:  []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if got := res.Tree.FormatWeight("bucket"); got != "50" {
		t.Errorf("root weight = %s, want 50", got)
	}
	checkRect(t, res.Layout, "bucket/x", 0, 0, 80, 50)
	checkRect(t, res.Layout, "bucket/y.bin", 80, 0, 20, 50)
}

func TestComputeLayoutCancelFlag(t *testing.T) {
	tr, err := ReadTree([]byte(wijkJSON), Options{})
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(nil)

	var flag layout.CancelFlag
	rects, err := r.ComputeLayout(context.Background(), tr, Options{Width: 600, Height: 400, Canceler: &flag})
	if err != nil || rects.Len() != 8 {
		t.Fatalf("ComputeLayout() = %d rects, %v; want 8 rects", rects.Len(), err)
	}

	flag.Cancel()
	_, err = r.ComputeLayout(context.Background(), tr, Options{Width: 600, Height: 400, Canceler: &flag})
	if got := errors.GetCode(err); got != errors.ErrCodeCanceled {
		t.Errorf("code = %s, want %s", got, errors.ErrCodeCanceled)
	}
}
