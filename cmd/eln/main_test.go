package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeJournal(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

var sampleJournal = map[string]string{
	"RS1 ligation.md": "---\nexpid: RS1\ntitle: Ligation\nstatus: started\ntags: [cloning]\n---\n# RS1 Ligation\n\n## Results\n",
	"RS2 pcr.md":      "---\nexpid: RS2\ntitle: Colony PCR\nstatus: completed\n---\n# RS2\n",
	"RS3 prep.md":     "---\nexpid: RS3\ntitle: Miniprep\nstatus: planned\nenddate: 2024-05-01\n---\n",
	"broken.md":       "---\nexpid: [RS4\n---\n",
	"README.md":       "# Journal\n",
}

func TestStartedCmd(t *testing.T) {
	root := writeJournal(t, sampleJournal)

	out, err := runCmd(t, "started", root)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], "RS1") || !strings.Contains(lines[0], "started") {
		t.Errorf("got %q", out)
	}
}

func TestUnfinishedCmd_RowFmt(t *testing.T) {
	root := writeJournal(t, sampleJournal)

	out, err := runCmd(t, "--journal", root, "unfinished", "--rowfmt", "{expid}|{enddate}")
	if err != nil {
		t.Fatal(err)
	}
	if want := "RS1|\nRS3|2024-05-01\n"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestYFMIssuesCmd(t *testing.T) {
	root := writeJournal(t, sampleJournal)

	out, err := runCmd(t, "yfm-issues", root)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"broken.md", "README.md"} {
		if !strings.Contains(out, filepath.Join(root, name)+": ") {
			t.Errorf("missing issue for %s in %q", name, out)
		}
	}
	if strings.Contains(out, "RS1") {
		t.Errorf("well-formed document reported: %q", out)
	}
}

func TestMDToHTMLCmd_Stdout(t *testing.T) {
	root := writeJournal(t, map[string]string{
		"exp.md": "---\nexpid: RS9\n---\n# Run %meta.expid%\n",
	})

	out, err := runCmd(t, "--journal", root, "md-to-html", "--outputfn", "-", "--apply-template=false",
		filepath.Join(root, "exp.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "Run RS9</h1>") {
		t.Errorf("got %q", out)
	}
}

func TestMDToHTMLCmd_Template(t *testing.T) {
	root := writeJournal(t, map[string]string{
		"exp.md":                    "---\nexpid: RS9\ntitle: Digest\n---\nbody\n",
		".eln/templates/index.html": "<title>{{ meta.title }}</title>{{ html_body }}",
	})

	if _, err := runCmd(t, "--journal", root, "md-to-html", filepath.Join(root, "exp.md")); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(root, "exp.html"))
	if err != nil {
		t.Fatal(err)
	}
	if want := "<title>Digest</title><p>body</p>\n"; string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}

func TestMDToHTMLCmd_MissingTemplate(t *testing.T) {
	root := writeJournal(t, map[string]string{"exp.md": "---\nexpid: RS9\n---\n"})

	if _, err := runCmd(t, "--journal", root, "md-to-html", filepath.Join(root, "exp.md")); err == nil {
		t.Error("expected an error without an index template")
	}
}

func TestShowCmd(t *testing.T) {
	root := writeJournal(t, sampleJournal)
	path := filepath.Join(root, "RS1 ligation.md")

	out, err := runCmd(t, "show", "--meta", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"---\n", "expid: RS1\n", "basename: RS1 ligation.md\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
	if strings.Contains(out, "## Results") {
		t.Errorf("--meta printed the body: %q", out)
	}

	out, err = runCmd(t, "show", "--headings", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "## Results") {
		t.Errorf("headings: got %q", out)
	}

	if _, err := runCmd(t, "show", filepath.Join(root, "broken.md")); err == nil {
		t.Error("expected an error for broken front matter")
	}
}

func TestNewCmd(t *testing.T) {
	root := t.TempDir()

	out, err := runCmd(t, "--journal", root, "new", "RS10", "Gel run", "--tag", "gel")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "RS10 gel-run.md")
	if strings.TrimSpace(out) != want {
		t.Errorf("got %q, want %q", out, want)
	}

	out, err = runCmd(t, "--journal", root, "started")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "RS10") {
		t.Errorf("new experiment not listed: %q", out)
	}

	if _, err := runCmd(t, "--journal", root, "new", "RS10", "Gel run"); err == nil {
		t.Error("expected an error when the document exists")
	}
}

func TestIndexAndSearchCmd(t *testing.T) {
	root := writeJournal(t, sampleJournal)

	if _, err := runCmd(t, "--journal", root, "index"); err != nil {
		t.Fatal(err)
	}

	out, err := runCmd(t, "--journal", root, "search", "--status", "started")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "RS1") || strings.Contains(out, "RS2") {
		t.Errorf("status search: got %q", out)
	}

	out, err = runCmd(t, "--journal", root, "search", "miniprep")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "RS3") {
		t.Errorf("text search: got %q", out)
	}

	out, err = runCmd(t, "--journal", root, "search", "--issues")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "broken.md") {
		t.Errorf("issues: got %q", out)
	}
}

func TestConfigFile(t *testing.T) {
	root := writeJournal(t, sampleJournal)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	cfg := "journal_path = \"" + filepath.ToSlash(root) + "\"\nstarted_rowfmt = \"[{expid}]\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCmd(t, "--config", cfgPath, "started")
	if err != nil {
		t.Fatal(err)
	}
	if out != "[RS1]\n" {
		t.Errorf("got %q", out)
	}

	if _, err := runCmd(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "started"); err == nil {
		t.Error("expected an error for a missing --config file")
	}
}

func TestBadFlags(t *testing.T) {
	root := writeJournal(t, sampleJournal)

	tests := [][]string{
		{"--journal", root, "--yfm-errors", "explode", "started"},
		{"--journal", root, "--require-leading-marker", "maybe", "started"},
		{"--journal", root, "md-to-html", "--pico-errors", "loud", filepath.Join(root, "RS1 ligation.md")},
		{"started", filepath.Join(root, "missing")},
	}
	for _, args := range tests {
		t.Run(strings.Join(args[2:], " "), func(t *testing.T) {
			if _, err := runCmd(t, args...); err == nil {
				t.Errorf("expected an error for %v", args)
			}
		})
	}
}

func TestCommonDir(t *testing.T) {
	tests := []struct {
		paths []string
		want  string
	}{
		{[]string{"/j/a.md"}, "/j"},
		{[]string{"/j/2019/a.md", "/j/2020/b.md"}, "/j"},
		{[]string{"/j/x/a.md", "/j/x/b.md"}, "/j/x"},
		{[]string{"/a/x.md", "/b/y.md"}, "/"},
	}
	for _, tt := range tests {
		paths := make([]string, len(tt.paths))
		for i, p := range tt.paths {
			paths[i] = filepath.FromSlash(p)
		}
		if got := commonDir(paths); got != filepath.FromSlash(tt.want) {
			t.Errorf("commonDir(%v) = %q, want %q", tt.paths, got, tt.want)
		}
	}
}
