package cli

import (
	"bytes"
	"slices"
	"strings"
	"testing"
)

// execute runs the root command with args against an empty config
// directory and returns what it printed.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	root := newTestCLI(t).RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestCompletionScripts(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			if out := execute(t, "completion", shell); !strings.Contains(out, "treemap") {
				t.Errorf("completion %s does not mention treemap:\n%.200s", shell, out)
			}
		})
	}
}

func TestFlagValueCompletions(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"render", "in", "--format", ""}, formatValues},
		{[]string{"render", "in", "--palette", ""}, paletteValues()},
		{[]string{"layout", "in", "--source", ""}, sourceValues},
		{[]string{"scan", "in", "--weights", ""}, weightValues},
		{[]string{"explore", "in", "--palette", ""}, paletteValues()},
		{[]string{"serve", "--cache", ""}, backendValues},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args[:len(tt.args)-1], " "), func(t *testing.T) {
			out := execute(t, append([]string{"__complete"}, tt.args...)...)
			var got []string
			for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
				if line != "" && !strings.HasPrefix(line, ":") && !strings.HasPrefix(line, "Completion ended") {
					got = append(got, line)
				}
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("completions = %q, want %q", got, tt.want)
			}
		})
	}
}
