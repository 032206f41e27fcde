package tree

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/treemap/pkg/errors"
)

const sampleJSON = `{
  "name": "root",
  "children": [
    {"name": "a", "weight": 6},
    {"name": "b", "children": [
      {"name": "x", "weight": 3},
      {"name": "y", "weight": 1}
    ]},
    {"name": "c", "weight": 10, "children": [{"name": "z", "weight": 2}]}
  ]
}`

func TestReadInt64JSON(t *testing.T) {
	m, err := ReadInt64JSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ReadInt64JSON: %v", err)
	}

	tests := []struct {
		id   string
		want int64
	}{
		{"root/a", 6},
		{"root/b", 4},
		{"root/b/x", 3},
		{"root/c", 10},
		{"root/c/z", 2},
		{"root", 20},
	}
	for _, tt := range tests {
		if got := m.Weight(tt.id); got != tt.want {
			t.Errorf("Weight(%q) = %d, want %d", tt.id, got, tt.want)
		}
	}

	got := slices.Collect(m.Children("root"))
	if want := []string{"root/a", "root/b", "root/c"}; !slices.Equal(got, want) {
		t.Errorf("Children(root) = %v, want %v", got, want)
	}
}

func TestImportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if got := m.Weight("root"); got != 20 {
		t.Errorf("Weight(root) = %d, want 20", got)
	}

	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ImportJSON(missing) error = %v, want ErrNotExist", err)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"name": `},
		{"empty root", `{"name": ""}`},
		{"empty child", `{"name": "r", "children": [{"weight": 1}]}`},
		{"duplicate sibling", `{"name": "r", "children": [{"name": "a"}, {"name": "a"}]}`},
		{"fractional int", `{"name": "r", "children": [{"name": "a", "weight": 1.5}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadInt64JSON(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := ReadInt64JSON(strings.NewReader(`{"name": "r", "children": [{"name": "a"}, {"name": "a"}]}`))
	if !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("duplicate sibling error = %v, want ErrDuplicateNode", err)
	}
}

func TestReadJSONRejectsSeparatorInName(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"root", `{"name": "r/s", "children": [{"name": "a", "weight": 1}]}`},
		{"child", `{"name": "r", "children": [{"name": "a/b", "weight": 3}]}`},
		{"leading", `{"name": "r", "children": [{"name": "/a", "weight": 3}]}`},
		{"next to nested", `{"name": "r", "children": [
			{"name": "a", "children": [{"name": "b", "weight": 1}]},
			{"name": "a/b", "weight": 3}
		]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadInt64JSON(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
				t.Errorf("code = %q, want INVALID_INPUT (err: %v)", apperrors.GetCode(err), err)
			}
			if errors.Is(err, ErrDuplicateNode) {
				t.Errorf("error = %v, want a name error, not a duplicate", err)
			}
		})
	}
}

func TestNamesSurviveRoundTrip(t *testing.T) {
	in := `{"name": "r", "children": [{"name": "a.b", "weight": 3}, {"name": "c d", "weight": 1}]}`
	m, err := ReadInt64JSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadInt64JSON: %v", err)
	}
	data, err := MarshalInt64(m)
	if err != nil {
		t.Fatalf("MarshalInt64: %v", err)
	}
	back, err := ReadInt64JSON(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	got := slices.Collect(back.Children("r"))
	if want := []string{"r/a.b", "r/c d"}; !slices.Equal(got, want) {
		t.Errorf("Children(r) = %v, want %v", got, want)
	}
}

func TestReadDecimalJSON(t *testing.T) {
	in := `{"name": "r", "children": [{"name": "a", "weight": 0.1}, {"name": "b", "weight": "0.2"}]}`
	m, err := ReadDecimalJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadDecimalJSON: %v", err)
	}
	if got := m.Weight("r").String(); got != "0.3" {
		t.Errorf("Weight(r) = %s, want 0.3", got)
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	m, err := ReadInt64JSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatal(err)
	}
	data, err := MarshalInt64(m)
	if err != nil {
		t.Fatalf("MarshalInt64: %v", err)
	}
	back, err := ReadInt64JSON(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if back.Len() != m.Len() {
		t.Errorf("Len() = %d, want %d", back.Len(), m.Len())
	}
	for n := range BreadthFirst[string](m, m.Root()) {
		if back.Weight(n) != m.Weight(n) {
			t.Errorf("Weight(%q) = %d, want %d", n, back.Weight(n), m.Weight(n))
		}
	}
}

func TestName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"root", "root"},
		{"root/a/b.go", "b.go"},
	}
	for _, tt := range tests {
		if got := Name(tt.in); got != tt.want {
			t.Errorf("Name(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
