package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/tdewolff/test"

	"github.com/inamate/vecscene/internal/document"
	"github.com/inamate/vecscene/internal/markup"
	"github.com/inamate/vecscene/internal/snapshot"
)

func newFileStore(t *testing.T, codec snapshot.Codec) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "scenes"), codec)
	test.Error(t, err)
	return s
}

func TestFileStoreRoundTrip(t *testing.T) {
	for _, codec := range []snapshot.Codec{snapshot.JSON, snapshot.YAML} {
		t.Run(codec.Name(), func(t *testing.T) {
			ctx := context.Background()
			s := newFileStore(t, codec)
			scene := document.Sample()

			test.Error(t, s.Save(ctx, "first", scene))
			got, err := s.Load(ctx, "first")
			test.Error(t, err)
			test.That(t, document.Equal(got, scene), document.Diff(got, scene))

			_, err = os.Stat(filepath.Join(s.Dir(), "first"+codec.Extension()))
			test.Error(t, err)
		})
	}
}

func TestFileStoreList(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t, snapshot.JSON)
	empty := document.NewScene(document.Viewport{})

	test.Error(t, s.Save(ctx, "b", empty))
	test.Error(t, s.Save(ctx, "a", empty))
	test.Error(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0o644))
	test.Error(t, os.WriteFile(filepath.Join(s.Dir(), ".c.json.123.tmp"), []byte("x"), 0o644))

	ids, err := s.List(ctx)
	test.Error(t, err)
	test.T(t, ids, []string{"a", "b"})
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t, snapshot.JSON)
	test.Error(t, s.Save(ctx, "gone", document.Sample()))
	_, err := s.ExportMarkup(ctx, "gone", document.Sample(), false)
	test.Error(t, err)

	test.Error(t, s.Delete(ctx, "gone"))
	_, err = s.Load(ctx, "gone")
	test.That(t, errors.Is(err, ErrNotFound), err)
	_, err = os.Stat(filepath.Join(s.Dir(), "gone.svg"))
	test.That(t, os.IsNotExist(err), err)

	err = s.Delete(ctx, "gone")
	test.That(t, errors.Is(err, ErrNotFound), err)
}

func TestFileStoreInvalidID(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t, snapshot.JSON)
	for _, id := range []string{"", ".", "..", "../escape", `a\b`} {
		err := s.Save(ctx, id, document.Sample())
		test.That(t, errors.Is(err, ErrInvalidID), id)
	}
}

func TestFileStoreCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newFileStore(t, snapshot.JSON)
	err := s.Save(ctx, "x", document.Sample())
	test.That(t, errors.Is(err, context.Canceled), err)
}

func TestFileStoreCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t, snapshot.JSON)
	test.Error(t, os.WriteFile(filepath.Join(s.Dir(), "bad.json"), []byte(`{"viewport":1}`), 0o644))

	_, err := s.Load(ctx, "bad")
	test.That(t, errors.Is(err, snapshot.ErrDecode), err)
}

func TestWriteFileKeepsOldContentOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	test.Error(t, os.WriteFile(path, []byte("old"), 0o644))

	failure := errors.New("encoder exploded")
	err := WriteFile(path, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return failure
	})
	test.That(t, errors.Is(err, failure), err)

	data, err := os.ReadFile(path)
	test.Error(t, err)
	test.String(t, string(data), "old")

	entries, err := os.ReadDir(dir)
	test.Error(t, err)
	test.T(t, len(entries), 1)
}

func TestWriteFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	path := filepath.Join(t.TempDir(), "scene.svg")
	test.Error(t, WriteFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "<svg/>")
		return err
	}))
	info, err := os.Stat(path)
	test.Error(t, err)
	test.T(t, info.Mode().Perm(), os.FileMode(0o644))
}

func TestWriteFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "scene.json")
	err := WriteFile(path, func(w io.Writer) error { return nil })
	var sinkErr *document.SinkError
	test.That(t, errors.As(err, &sinkErr), err)
}

func TestExportMarkup(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t, snapshot.JSON)
	scene := document.Sample()

	path, err := s.ExportMarkup(ctx, "art", scene, false)
	test.Error(t, err)
	data, err := os.ReadFile(path)
	test.Error(t, err)
	test.String(t, string(data), markup.String(scene))

	path, err = s.ExportMarkup(ctx, "art", scene, true)
	test.Error(t, err)
	minified, err := os.ReadFile(path)
	test.Error(t, err)
	test.That(t, len(minified) < len(data))
	test.That(t, bytes.HasPrefix(minified, []byte("<svg")), string(minified))
	test.That(t, !strings.Contains(string(minified), "\n  <"))

	broken := document.NewScene(document.Viewport{}, document.Shape{})
	for _, minify := range []bool{false, true} {
		_, err = s.ExportMarkup(ctx, "broken", broken, minify)
		test.That(t, errors.Is(err, markup.ErrUnsupportedVariant), err)
		_, err = os.Stat(filepath.Join(s.Dir(), "broken.svg"))
		test.That(t, os.IsNotExist(err), err)
	}
}
