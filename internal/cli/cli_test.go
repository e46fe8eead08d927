package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/ventgraph/pkg/cache"
	errs "github.com/matzehuels/ventgraph/pkg/errors"
	"github.com/matzehuels/ventgraph/pkg/network"
	"github.com/matzehuels/ventgraph/pkg/scan"
	"github.com/matzehuels/ventgraph/pkg/search"
)

const lineReport = `Valve S has flow rate=0; tunnel leads to valve A
Valve A has flow rate=10; tunnels lead to valves S, B
Valve B has flow rate=1; tunnel leads to valve A
`

func writeLine(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "line.txt")
	if err := os.WriteFile(path, []byte(lineReport), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "dot", []string{"dot"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		input   string
		formats []string
		want    map[string]string
	}{
		{
			name:    "derived from input",
			input:   "caves/input.txt",
			formats: []string{"svg"},
			want:    map[string]string{"svg": "caves/input.svg"},
		},
		{
			name:    "single format verbatim",
			output:  "out.graph",
			input:   "input.txt",
			formats: []string{"svg"},
			want:    map[string]string{"svg": "out.graph"},
		},
		{
			name:    "multiple formats strip known extension",
			output:  "out/cave.svg",
			input:   "input.txt",
			formats: []string{"dot", "svg"},
			want:    map[string]string{"dot": "out/cave.dot", "svg": "out/cave.svg"},
		},
		{
			name:    "multiple formats keep unknown extension",
			output:  "cave.v2",
			input:   "input.txt",
			formats: []string{"dot", "png"},
			want:    map[string]string{"dot": "cave.v2.dot", "png": "cave.v2.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, tt.input, tt.formats)
			if len(got) != len(tt.want) {
				t.Fatalf("outputPaths() = %v, want %v", got, tt.want)
			}
			for f, p := range tt.want {
				if got[f] != p {
					t.Errorf("outputPaths()[%s] = %q, want %q", f, got[f], p)
				}
			}
		})
	}
}

func TestCacheFlagsConfig(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	t.Setenv(envRedisAddr, "redis.local:6379")
	t.Setenv(envMongoURI, "mongodb://mongo.local")

	tests := []struct {
		name  string
		flags cacheFlags
		want  cache.Config
	}{
		{
			name:  "no cache wins",
			flags: cacheFlags{noCache: true, backend: "redis"},
			want:  cache.Config{Backend: cache.BackendNone},
		},
		{
			name:  "file uses xdg dir",
			flags: cacheFlags{backend: "file"},
			want: cache.Config{
				Backend: cache.BackendFile,
				Dir:     filepath.Join("/tmp/xdg", appName),
				Addr:    "redis.local:6379",
				URI:     "mongodb://mongo.local",
				Prefix:  cachePrefix,
			},
		},
		{
			name:  "flag overrides env",
			flags: cacheFlags{backend: "redis", redisAddr: "127.0.0.1:6380"},
			want: cache.Config{
				Backend: cache.BackendRedis,
				Addr:    "127.0.0.1:6380",
				URI:     "mongodb://mongo.local",
				Prefix:  cachePrefix,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.flags.config(); got != tt.want {
				t.Errorf("config() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidateOutputFormat(t *testing.T) {
	for _, f := range []scan.Format{scan.FormatJSON, scan.FormatTOML, scan.FormatReport} {
		if err := validateOutputFormat(f); err != nil {
			t.Errorf("validateOutputFormat(%q) = %v", f, err)
		}
	}
	err := validateOutputFormat("yaml")
	if !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("validateOutputFormat(yaml) = %v, want INVALID_FORMAT", err)
	}
}

func TestWriteNetwork(t *testing.T) {
	net, err := scan.ReadReport(strings.NewReader(lineReport))
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range []scan.Format{scan.FormatJSON, scan.FormatTOML, scan.FormatReport} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeNetwork(net, f, &buf); err != nil {
				t.Fatal(err)
			}
			back, err := scan.Read(&buf, f)
			if err != nil {
				t.Fatalf("read back: %v", err)
			}
			if scan.Hash(back) != scan.Hash(net) {
				t.Errorf("%s output does not read back to the same network", f)
			}
		})
	}
}

func TestRouteTable(t *testing.T) {
	out := routeTable([]search.Step{
		{Node: "A", Distance: 1, Remaining: 3, Gain: 30},
		{Node: "B", Distance: 1, Remaining: 1, Gain: 1},
	})
	for _, want := range []string{"Valve", "A", "B", "30", "31", "total"} {
		if !strings.Contains(out, want) {
			t.Errorf("routeTable() missing %q:\n%s", want, out)
		}
	}
}

func TestStartListModel(t *testing.T) {
	nodes := []network.Node{{ID: "AA"}, {ID: "BB", Rate: 3}, {ID: "CC"}}
	key := func(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

	m := NewStartListModel(nodes, "BB")
	if m.Cursor != 1 {
		t.Fatalf("cursor = %d, want 1 (preferred)", m.Cursor)
	}

	next, _ := m.Update(key("j"))
	m = next.(StartListModel)
	next, _ = m.Update(key("j")) // clamps at the end
	m = next.(StartListModel)
	if m.Cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.Cursor)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(StartListModel)
	if m.Selected != "CC" || cmd == nil {
		t.Errorf("selected = %q, want CC with quit", m.Selected)
	}
	if !strings.Contains(m.View(), "Select Start Valve") {
		t.Error("View() missing title")
	}

	quit, _ := NewStartListModel(nodes, "ZZ").Update(key("q"))
	if quit.(StartListModel).Selected != "" {
		t.Error("quit should not select")
	}
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()
	want := map[string]bool{"solve": false, "parse": false, "render": false, "serve": false, "cache": false, "completion": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := New(io.Discard, log.InfoLevel).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestParseCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	in := writeLine(t)
	out := filepath.Join(t.TempDir(), "line.json")

	if err := execute(t, "parse", in, "-o", out); err != nil {
		t.Fatalf("parse: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	net, err := scan.ReadJSON(f)
	if err != nil {
		t.Fatalf("output is not canonical JSON: %v", err)
	}
	if net.Len() != 3 {
		t.Errorf("parsed %d valves, want 3", net.Len())
	}

	if err := execute(t, "parse", in, "--format", "yaml"); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("bad format error = %v", err)
	}
}

func TestSolveCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	in := writeLine(t)

	if err := execute(t, "solve", in, "--start", "S", "--minutes", "5", "--split-minutes", "5", "--json"); err != nil {
		t.Fatalf("solve: %v", err)
	}
	err := execute(t, "solve", in, "--json", "--no-cache")
	if !errs.Is(err, errs.ErrCodeStartNotFound) {
		t.Errorf("missing AA error = %v, want NOT_FOUND_START", err)
	}
	err = execute(t, "solve", filepath.Join(t.TempDir(), "missing.txt"), "--no-cache")
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want NOT_FOUND_FILE", err)
	}
}

func TestRenderCommand_DOT(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	in := writeLine(t)
	out := filepath.Join(t.TempDir(), "line.dot")

	if err := execute(t, "render", in, "-f", "dot", "--route", "--start", "S", "--minutes", "5", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph") || !strings.Contains(string(data), "style=dashed") {
		t.Errorf("unexpected DOT output:\n%s", data)
	}
}

func TestCacheClearCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	in := writeLine(t)
	if err := execute(t, "solve", in, "--start", "S", "--json"); err != nil {
		t.Fatal(err)
	}
	dir, _ := cacheDir()
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("cache dir not created: %v", err)
	}
	if err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := fc.Clear(context.Background()); n != 0 {
		t.Errorf("%d entries left after clear", n)
	}
}
