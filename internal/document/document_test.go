package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/zepto-eln/eln/internal/yfm"
)

type recordingLogger struct {
	msgs []string
}

func (r *recordingLogger) Warn(msg any, keyvals ...any) {
	r.msgs = append(r.msgs, fmt.Sprint(append([]any{msg}, keyvals...)...))
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func withFileInfo(meta yfm.Metadata, path string) yfm.Metadata {
	out := meta.Clone()
	for k, v := range NewFileInfo(path).Fields() {
		out[k] = v
	}
	return out
}

func TestLoad_WellFormed(t *testing.T) {
	path := writeDoc(t, "exp.md", "---\nkey: value\n---\nbody")

	doc, err := Load(path, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	want := withFileInfo(yfm.Metadata{"key": "value"}, path)
	if !reflect.DeepEqual(doc.Meta, want) {
		t.Errorf("meta: got %#v, want %#v", doc.Meta, want)
	}
	if doc.Content != "body" {
		t.Errorf("content: got %q, want %q", doc.Content, "body")
	}
	if doc.RawContent != "---\nkey: value\n---\nbody" {
		t.Errorf("raw content changed: %q", doc.RawContent)
	}
	if doc.Path != path || doc.FileInfo.Path != path {
		t.Errorf("path: got %q / %q", doc.Path, doc.FileInfo.Path)
	}
}

func TestLoad_WithoutFileInfo(t *testing.T) {
	path := writeDoc(t, "exp.md", "---\nkey: value\n---\nbody")

	opts := DefaultOptions()
	opts.AddFileInfoToMeta = false
	doc, err := Load(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(doc.Meta, yfm.Metadata{"key": "value"}) {
		t.Errorf("meta: got %#v", doc.Meta)
	}
}

func TestLoad_FileInfoWinsOnCollision(t *testing.T) {
	path := writeDoc(t, "exp.md", "---\nfilename: from-front-matter\ntitle: T\n---\n")

	doc, err := Load(path, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Meta["filename"]; got != path {
		t.Errorf("filename: got %v, want %q", got, path)
	}
	if got := doc.Meta["title"]; got != "T" {
		t.Errorf("title: got %v", got)
	}
}

func TestLoad_RaiseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		cause   error
	}{
		{"no marker", "# Just a body\n", yfm.ErrNoBoundaryMarker},
		{"one marker", "title: x\n---\nbody\n", yfm.ErrMissingLeadingMarker},
		{"leading text", "Intro\n---\na: 1\n---\nbody\n", yfm.ErrUnexpectedLeadingText},
		{"bad yaml", "---\nkey: [oops\n---\nbody\n", yfm.ErrMetadataSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDoc(t, "doc.md", tt.content)

			_, err := Load(path, DefaultOptions())
			var yerr *YFMError
			if !errors.As(err, &yerr) {
				t.Fatalf("expected *YFMError, got %T (%v)", err, err)
			}
			if yerr.Path != path {
				t.Errorf("path: got %q, want %q", yerr.Path, path)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("cause: got %v, want %v", yerr.Cause, tt.cause)
			}
		})
	}
}

func TestLoad_SkipFilePolicyRaisesForSingleDocument(t *testing.T) {
	path := writeDoc(t, "doc.md", "no front matter")

	opts := DefaultOptions()
	opts.ErrorPolicy = PolicySkipFile
	_, err := Load(path, opts)
	var yerr *YFMError
	if !errors.As(err, &yerr) {
		t.Fatalf("expected *YFMError, got %v", err)
	}
}

func TestLoad_SingleMarkerWarn(t *testing.T) {
	path := writeDoc(t, "doc.md", "title: Pre marker\n---\nthe body\n")

	log := &recordingLogger{}
	opts := DefaultOptions()
	opts.AddFileInfoToMeta = false
	opts.Split.LeadingMarker = yfm.RequireWarn
	opts.Logger = log

	doc, err := Load(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(log.msgs) != 1 {
		t.Fatalf("expected one diagnostic, got %v", log.msgs)
	}
	if !reflect.DeepEqual(doc.Meta, yfm.Metadata{"title": "Pre marker"}) {
		t.Errorf("meta: got %#v", doc.Meta)
	}
	if doc.Content != "the body\n" {
		t.Errorf("content: got %q", doc.Content)
	}
}

func TestLoad_WarnPolicy(t *testing.T) {
	raw := "# Untitled\n\nNo metadata here.\n"
	path := writeDoc(t, "doc.md", raw)

	log := &recordingLogger{}
	defaults := yfm.Metadata{"status": "unknown"}
	opts := DefaultOptions()
	opts.ErrorPolicy = PolicyWarn
	opts.DefaultMeta = defaults
	opts.Logger = log

	doc, err := Load(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(log.msgs) != 1 {
		t.Fatalf("expected one diagnostic, got %v", log.msgs)
	}
	if doc.Content != raw {
		t.Errorf("content: got %q, want raw content", doc.Content)
	}
	if doc.Meta.String("status") != "unknown" || doc.Meta.String("basename") != "doc.md" {
		t.Errorf("meta: got %#v", doc.Meta)
	}
	if len(defaults) != 1 {
		t.Errorf("default metadata was modified: %#v", defaults)
	}
}

func TestLoad_IgnorePolicy(t *testing.T) {
	raw := "---\nkey: [broken\n---\nbody\n"
	path := writeDoc(t, "doc.md", raw)

	log := &recordingLogger{}
	opts := DefaultOptions()
	opts.ErrorPolicy = PolicyIgnore
	opts.Logger = log

	doc, err := Load(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(log.msgs) != 0 {
		t.Errorf("expected no diagnostics, got %v", log.msgs)
	}
	if doc.Meta != nil {
		t.Errorf("meta: got %#v, want nil", doc.Meta)
	}
	if doc.Content != raw {
		t.Errorf("content: got %q", doc.Content)
	}
}

func TestLoad_ParsingDisabled(t *testing.T) {
	raw := "---\nkey: value\n---\nbody"
	path := writeDoc(t, "doc.md", raw)

	opts := DefaultOptions()
	opts.ParseYFM = false
	doc, err := Load(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Meta != nil {
		t.Errorf("meta: got %#v, want nil", doc.Meta)
	}
	if doc.Content != raw {
		t.Errorf("content: got %q", doc.Content)
	}
}

func TestLoad_EmptyFrontMatter(t *testing.T) {
	path := writeDoc(t, "doc.md", "---\n---\nbody")

	doc, err := Load(path, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if doc.Meta != nil {
		t.Errorf("meta: got %#v, want nil", doc.Meta)
	}
	if doc.Content != "body" {
		t.Errorf("content: got %q", doc.Content)
	}
}

func TestLoad_IOErrorsPropagate(t *testing.T) {
	opts := DefaultOptions()
	opts.ErrorPolicy = PolicyIgnore

	_, err := Load(filepath.Join(t.TempDir(), "missing.md"), opts)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
	var yerr *YFMError
	if errors.As(err, &yerr) {
		t.Error("read errors must not be wrapped as YFMError")
	}

	bad := writeDoc(t, "latin1.md", "---\nname: M\xfcller\n---\n")
	if _, err := Load(bad, opts); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestLoad_Idempotent(t *testing.T) {
	path := writeDoc(t, "doc.md", "---\nexpid: RS1\ntags: [a, b]\n---\n# RS1\n")

	a, err := Load(path, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Load(path, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("loads differ:\n%#v\n%#v", a, b)
	}
}

func TestNewFileInfo(t *testing.T) {
	tests := []struct {
		path string
		want FileInfo
	}{
		{
			path: "journal/2018/RS101 PCR.md",
			want: FileInfo{
				Path:      "journal/2018/RS101 PCR.md",
				Dir:       "journal/2018",
				Base:      "RS101 PCR.md",
				Ext:       ".md",
				Name:      "RS101 PCR",
				PathNoExt: "journal/2018/RS101 PCR",
			},
		},
		{
			path: "note.md",
			want: FileInfo{Path: "note.md", Base: "note.md", Ext: ".md", Name: "note", PathNoExt: "note"},
		},
		{
			path: "/root.md",
			want: FileInfo{Path: "/root.md", Dir: "/", Base: "root.md", Ext: ".md", Name: "root", PathNoExt: "/root"},
		},
		{
			path: "data/archive.tar.gz",
			want: FileInfo{
				Path:      "data/archive.tar.gz",
				Dir:       "data",
				Base:      "archive.tar.gz",
				Ext:       ".gz",
				Name:      "archive.tar",
				PathNoExt: "data/archive.tar",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := NewFileInfo(tt.path); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFileInfoFields(t *testing.T) {
	f := NewFileInfo("exps/RS1.md").Fields()
	want := map[string]string{
		"filename":       "exps/RS1.md",
		"filepath":       "exps/RS1.md",
		"dirname":        "exps",
		"basename":       "RS1.md",
		"fnext":          ".md",
		"fnroot":         "RS1",
		"filename_noext": "RS1",
		"filepath_root":  "exps/RS1",
		"filepath_noext": "exps/RS1",
	}
	if !reflect.DeepEqual(f, want) {
		t.Errorf("got %#v", f)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		input string
		want  Policy
	}{
		{"raise", PolicyRaise},
		{"warn", PolicyWarn},
		{"report", PolicyWarn},
		{"ignore", PolicyIgnore},
		{"skip-file", PolicySkipFile},
		{" Skip-File ", PolicySkipFile},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePolicy(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := ParsePolicy("whatever"); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("expected ErrUnknownPolicy, got %v", err)
	}

	var p Policy
	if err := p.Set("warn"); err != nil || p != PolicyWarn {
		t.Errorf("Set(warn): p=%v err=%v", p, err)
	}
}
