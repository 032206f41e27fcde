package sink

import (
	"strings"
	"testing"

	"github.com/matzehuels/treemap/pkg/render"
)

func TestToDOT(t *testing.T) {
	dot := ToDOT(testScene(), DOTOptions{})

	if !strings.HasPrefix(dot, "digraph G {\n") {
		t.Errorf("unexpected header: %.40s", dot)
	}
	for _, want := range []string{
		`"src/main.go" [label="main.go"];`,
		`"src" [label="src", penwidth=2];`,
		`"root" -> "src";`,
		`"src" -> "src/util.go";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing %s", want)
		}
	}
	if got := strings.Count(dot, "->"); got != 4 {
		t.Errorf("edges = %d, want 4", got)
	}
}

func TestToDOTDetailed(t *testing.T) {
	p, _ := render.LookupPalette("mono")
	dot := ToDOT(testScene(), DOTOptions{Detailed: true, Palette: &p})

	if !strings.Contains(dot, `label="util.go\n40x100 @ 80,0"`) {
		t.Error("missing detailed label")
	}
	if !strings.Contains(dot, `"src/util.go" [label="util.go\n40x100 @ 80,0", fillcolor="#ffffff"]`) {
		t.Error("missing palette fill")
	}
}
