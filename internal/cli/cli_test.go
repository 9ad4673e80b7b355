package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

const sampleCSV = "source,target,value\nA,B,10\nA,C,5\nB,D,6\nC,D,5\n"

// testCLI returns a CLI whose config points the file cache into a temp dir,
// plus the directory for inputs and outputs.
func testCLI(t *testing.T) (*CLI, string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	cfg := "[cache]\nbackend = \"file\"\ndir = " + quote(filepath.Join(dir, "cache")) + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, env := range []string{"SANKEYFLOW_CACHE_BACKEND", "SANKEYFLOW_CACHE_DIR", "SANKEYFLOW_PALETTE", "SANKEYFLOW_THEME"} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}

	c := New(io.Discard, log.ErrorLevel)
	var out bytes.Buffer
	c.Out = &out
	c.configPath = cfgPath
	return c, dir, &out
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func run(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", c.configPath}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func writeInput(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"parse", "layout", "render", "examples", "schemes", "serve", "cache", "config", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestParseCommandConverts(t *testing.T) {
	c, dir, out := testCLI(t)
	input := writeInput(t, dir, "flows.csv", sampleCSV)

	if err := run(t, c, "parse", input, "--to", "tsv"); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.HasPrefix(out.String(), "source\ttarget\tvalue\n") {
		t.Errorf("stdout = %q, want TSV", out.String())
	}

	output := filepath.Join(dir, "out", "flows.json")
	if err := run(t, c, "parse", input, "-o", output); err != nil {
		t.Fatalf("parse -o: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Nodes []any `json:"nodes"`
		Links []any `json:"links"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(doc.Nodes) != 4 || len(doc.Links) != 4 {
		t.Errorf("got %d nodes, %d links", len(doc.Nodes), len(doc.Links))
	}
}

func TestParseCommandRejectsCycle(t *testing.T) {
	c, dir, _ := testCLI(t)
	input := writeInput(t, dir, "cycle.csv", "source,target,value\nA,B,1\nB,A,1\n")
	err := run(t, c, "parse", input)
	if err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Errorf("err = %v, want cycle error", err)
	}
}

func TestLayoutCommand(t *testing.T) {
	c, dir, _ := testCLI(t)
	input := writeInput(t, dir, "flows.csv", sampleCSV)

	if err := run(t, c, "layout", input, "--width", "500", "--align", "left"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "flows.layout.json"))
	if err != nil {
		t.Fatal(err)
	}
	var p struct {
		Width   float64 `json:"width"`
		Columns int     `json:"columns"`
		Nodes   []struct {
			ID string  `json:"id"`
			X1 float64 `json:"x1"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatal(err)
	}
	if p.Width != 500 {
		t.Errorf("width = %v, want 500", p.Width)
	}
	if p.Columns != 3 || len(p.Nodes) != 4 {
		t.Errorf("columns = %d, nodes = %d", p.Columns, len(p.Nodes))
	}
}

func TestLayoutCommandFrameToStdout(t *testing.T) {
	c, dir, out := testCLI(t)
	input := writeInput(t, dir, "flows.csv", sampleCSV)

	if err := run(t, c, "layout", input, "--frame", "400x300+10+20", "-o", "-"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	var p struct {
		Nodes []struct {
			X0, Y0, X1, Y1 float64
		} `json:"nodes"`
	}
	if err := json.Unmarshal(out.Bytes(), &p); err != nil {
		t.Fatalf("stdout is not JSON: %v", err)
	}
	for _, n := range p.Nodes {
		if n.X0 < 0 || n.X1 > 400 || n.Y0 < 0 || n.Y1 > 300 {
			t.Errorf("node %+v outside the frame", n)
		}
	}
}

func TestLayoutCommandBadFlags(t *testing.T) {
	c, dir, _ := testCLI(t)
	input := writeInput(t, dir, "flows.csv", sampleCSV)

	tests := [][]string{
		{"layout", input, "--frame", "wide"},
		{"layout", input, "--align", "diagonal"},
		{"layout", input, "--width", "-1"},
		{"layout", filepath.Join(dir, "missing.csv")},
	}
	for _, args := range tests {
		if err := run(t, c, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	c, dir, _ := testCLI(t)
	input := writeInput(t, dir, "flows.csv", sampleCSV)

	err := run(t, c, "render", input, "-f", "svg,json,dot",
		"--palette", "ocean", "--theme", "dark", "--curve", "straight", "-o", filepath.Join(dir, "out", "diagram"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(filepath.Join(dir, "out", "diagram.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("svg starts with %q", svg[:min(len(svg), 20)])
	}
	if got := strings.Count(string(svg), "<path"); got != 4 {
		t.Errorf("svg has %d paths, want 4", got)
	}

	scene, err := os.ReadFile(filepath.Join(dir, "out", "diagram.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(scene, []byte(`"theme": "dark"`)) && !bytes.Contains(scene, []byte(`"theme":"dark"`)) {
		t.Error("scene does not carry the dark theme")
	}

	dot, err := os.ReadFile(filepath.Join(dir, "out", "diagram.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(dot, []byte("digraph")) {
		t.Errorf("dot starts with %q", dot[:min(len(dot), 20)])
	}
}

func TestRenderCommandDoesNotOverwriteInput(t *testing.T) {
	c, dir, _ := testCLI(t)
	input := writeInput(t, dir, "flows.json", `{"nodes":[{"id":"a"},{"id":"b"}],"links":[{"source":"a","target":"b","value":1}]}`)

	if err := run(t, c, "render", input, "-f", "json"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, _ := os.ReadFile(input)
	if !bytes.Contains(data, []byte(`"links"`)) {
		t.Fatal("input was overwritten")
	}
	if _, err := os.Stat(filepath.Join(dir, "flows.sankey.json")); err != nil {
		t.Errorf("scene not written next to input: %v", err)
	}
}

func TestRenderCommandBadFormat(t *testing.T) {
	c, dir, _ := testCLI(t)
	input := writeInput(t, dir, "flows.csv", sampleCSV)
	if err := run(t, c, "render", input, "-f", "gif"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestExamplesCommands(t *testing.T) {
	c, _, out := testCLI(t)

	if err := run(t, c, "examples", "list"); err != nil {
		t.Fatalf("examples list: %v", err)
	}
	if !strings.Contains(out.String(), "energy-flow") {
		t.Errorf("list output missing energy-flow:\n%s", out)
	}

	out.Reset()
	if err := run(t, c, "examples", "show", "budget-flow", "-f", "csv"); err != nil {
		t.Fatalf("examples show: %v", err)
	}
	if !strings.HasPrefix(out.String(), "source,target,value\n") {
		t.Errorf("show output = %q", out.String())
	}

	if err := run(t, c, "examples", "show", "nope"); err == nil {
		t.Error("expected error for unknown example")
	}
}

func TestSchemesCommand(t *testing.T) {
	c, _, out := testCLI(t)
	if err := run(t, c, "schemes"); err != nil {
		t.Fatalf("schemes: %v", err)
	}
	for _, id := range []string{"default", "ocean", "custom"} {
		if !strings.Contains(out.String(), id) {
			t.Errorf("schemes output missing %q", id)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	c, dir, out := testCLI(t)

	if err := run(t, c, "config", "show"); err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out.String(), "[cache]") || !strings.Contains(out.String(), filepath.Join(dir, "cache")) {
		t.Errorf("config show output:\n%s", out)
	}

	out.Reset()
	if err := run(t, c, "config", "path"); err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out.String()) != c.configPath {
		t.Errorf("config path = %q, want %q", out.String(), c.configPath)
	}
}

func TestConfigInit(t *testing.T) {
	c, dir, _ := testCLI(t)
	path := filepath.Join(dir, "fresh", "config.toml")
	c.configPath = path
	c.cfg = nil

	if err := run(t, c, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("[layout]")) {
		t.Errorf("init wrote:\n%s", data)
	}
}

func TestCacheCommands(t *testing.T) {
	c, dir, out := testCLI(t)
	input := writeInput(t, dir, "flows.csv", sampleCSV)

	if err := run(t, c, "cache", "path"); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != filepath.Join(dir, "cache") {
		t.Errorf("cache path = %q", got)
	}

	if err := run(t, c, "render", input); err != nil {
		t.Fatalf("render: %v", err)
	}
	entries, _ := filepath.Glob(filepath.Join(dir, "cache", "*", "*.json"))
	if len(entries) == 0 {
		t.Fatal("render did not populate the cache")
	}

	if err := run(t, c, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	entries, _ = filepath.Glob(filepath.Join(dir, "cache", "*", "*.json"))
	if len(entries) != 0 {
		t.Errorf("%d entries left after clear", len(entries))
	}
}

func TestCompletionCommand(t *testing.T) {
	c, _, out := testCLI(t)
	if err := run(t, c, "completion", "bash"); err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out.String(), "sankeyflow") {
		t.Error("bash completion does not mention the command")
	}
}
