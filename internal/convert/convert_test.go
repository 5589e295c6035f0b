// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConverter implements Converter for testing. It returns canned text
// or an error, and counts calls.
type fakeConverter struct {
	output string
	err    error
	calls  int
}

func (f *fakeConverter) Convert(string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		conv    *fakeConverter
		want    string
		wantLog string
	}{
		{"text", &fakeConverter{output: "Abstract\nbody"}, "Abstract\nbody", ""},
		{"failure", &fakeConverter{err: errors.New("corrupt xref")}, "", "failed  paper.pdf: corrupt xref"},
		{"whitespace only", &fakeConverter{output: " \n\t"}, "", "no text extracted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log bytes.Buffer
			got := Extract(tt.conv, "/data/paper.pdf", &log)
			assert.Equal(t, tt.want, got)
			if tt.wantLog == "" {
				assert.Empty(t, log.String())
			} else {
				assert.Contains(t, log.String(), tt.wantLog)
			}
		})
	}
}

func TestTextConverter(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "p.txt"), "plain text")
	got, err := TextConverter{}.Convert(path)
	require.NoError(t, err)
	assert.Equal(t, "plain text", got)

	_, err = TextConverter{}.Convert(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestAuto(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, filepath.Join(dir, "notes.txt"), "from txt")
	withSidecar := writeFile(t, filepath.Join(dir, "a.pdf"), "%PDF")
	writeFile(t, filepath.Join(dir, "a.txt"), "from sidecar")
	emptySidecar := writeFile(t, filepath.Join(dir, "b.pdf"), "%PDF")
	writeFile(t, filepath.Join(dir, "b.txt"), "")
	bare := writeFile(t, filepath.Join(dir, "c.PDF"), "%PDF")

	pdf := &fakeConverter{output: "from pdf"}
	a := NewAuto(pdf)

	tests := []struct {
		path string
		want string
	}{
		{txt, "from txt"},
		{withSidecar, "from sidecar"},
		{emptySidecar, "from pdf"},
		{bare, "from pdf"},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			got, err := a.Convert(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, 2, pdf.calls)
}

func TestSidecarPath(t *testing.T) {
	assert.Equal(t, "/d/p.txt", SidecarPath("/d/p.pdf"))
	assert.Equal(t, "/d/p.txt", SidecarPath("/d/p.PDF"))
	assert.Empty(t, SidecarPath("/d/p.docx"))
}

func TestCached(t *testing.T) {
	root := filepath.Join(t.TempDir(), "dataset")
	cacheDir := filepath.Join(t.TempDir(), "text")
	paper := writeFile(t, filepath.Join(root, "Reference", "Publishable", "KDD", "R1.pdf"), "%PDF")

	inner := &fakeConverter{output: "extracted"}
	c := &Cached{Converter: inner, Root: root, Dir: cacheDir}

	want := filepath.Join(cacheDir, "Reference", "Publishable", "KDD", "R1.txt")
	assert.Equal(t, want, c.CachePath(paper))

	got, err := c.Convert(paper)
	require.NoError(t, err)
	assert.Equal(t, "extracted", got)
	assert.FileExists(t, want)

	inner.output = "changed"
	got, err = c.Convert(paper)
	require.NoError(t, err)
	assert.Equal(t, "extracted", got)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedSkipsEmptyText(t *testing.T) {
	root := t.TempDir()
	paper := writeFile(t, filepath.Join(root, "P.pdf"), "%PDF")
	inner := &fakeConverter{output: "  "}
	c := &Cached{Converter: inner, Root: root, Dir: filepath.Join(root, "cache")}

	_, err := c.Convert(paper)
	require.NoError(t, err)
	assert.NoFileExists(t, c.CachePath(paper))

	_, ok := c.Lookup(paper)
	assert.False(t, ok)
}

func TestCachedOutsideRoot(t *testing.T) {
	c := &Cached{Root: "/data/dataset", Dir: "/tmp/text"}
	assert.Equal(t, filepath.Join("/tmp/text", "x.txt"), c.CachePath("/elsewhere/x.pdf"))
}

func TestPDFConverterRejectsGarbage(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "broken.pdf"), "this is not a pdf")
	text, err := PDFConverter{}.Convert(path)
	assert.Error(t, err)
	assert.Empty(t, text)
}

func TestPDFConverterMissingFile(t *testing.T) {
	_, err := PDFConverter{}.Convert(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

// fakeRuntime implements container.Runtime.
type fakeRuntime struct {
	imageErr error
	output   string
	runErr   error
	gotCmd   []string
}

func (f *fakeRuntime) Name() string { return "docker" }
func (f *fakeRuntime) Available(context.Context) bool { return true }
func (f *fakeRuntime) ImageExists(_ context.Context, _ string) error { return f.imageErr }
func (f *fakeRuntime) Run(_ context.Context, _ string, cmd []string, stdin io.Reader, stdout io.Writer) error {
	f.gotCmd = cmd
	io.Copy(io.Discard, stdin)
	if f.runErr != nil {
		return f.runErr
	}
	_, err := io.WriteString(stdout, f.output)
	return err
}

func TestContainerConverter(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "p.pdf"), "%PDF")

	rt := &fakeRuntime{output: "Abstract\ntext"}
	c, err := NewContainerConverter(context.Background(), rt, "", time.Second)
	require.NoError(t, err)

	got, err := c.Convert(path)
	require.NoError(t, err)
	assert.Equal(t, "Abstract\ntext", got)
	assert.Equal(t, "pdftotext", rt.gotCmd[0])

	rt.output = ""
	_, err = c.Convert(path)
	assert.Error(t, err)

	rt.runErr = errors.New("exit status 1")
	_, err = c.Convert(path)
	assert.Error(t, err)
}

func TestNewContainerConverterMissingImage(t *testing.T) {
	_, err := NewContainerConverter(context.Background(), &fakeRuntime{imageErr: errors.New("no such image")}, "", 0)
	assert.Error(t, err)
}
