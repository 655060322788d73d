package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inamate/vecscene/internal/document"
	"github.com/inamate/vecscene/internal/markup"
	"github.com/inamate/vecscene/internal/snapshot"
)

// FileStore keeps one snapshot file per scene in a directory.
type FileStore struct {
	dir   string
	codec snapshot.Codec
}

func NewFileStore(dir string, codec snapshot.Codec) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir, codec: codec}, nil
}

func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(id, ext string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(s.dir, id+ext), nil
}

func (s *FileStore) Save(ctx context.Context, id string, scene document.Scene) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(id, s.codec.Extension())
	if err != nil {
		return err
	}
	return WriteFile(path, func(w io.Writer) error {
		return s.codec.Encode(w, scene)
	})
}

func (s *FileStore) Load(ctx context.Context, id string) (document.Scene, error) {
	if err := ctx.Err(); err != nil {
		return document.Scene{}, err
	}
	path, err := s.path(id, s.codec.Extension())
	if err != nil {
		return document.Scene{}, err
	}
	return ReadFile(path, s.codec)
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(id, s.codec.Extension())
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("delete scene: %w", err)
	}
	// The exported markup belongs to the scene.
	if svgPath, err := s.path(id, ".svg"); err == nil {
		os.Remove(svgPath)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	ext := s.codec.Extension()
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ext {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ext))
	}
	sort.Strings(ids)
	return ids, nil
}

// ExportMarkup writes the scene's SVG next to its snapshot and returns the
// file path.
func (s *FileStore) ExportMarkup(ctx context.Context, id string, scene document.Scene, minify bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := s.path(id, ".svg")
	if err != nil {
		return "", err
	}
	if err := ExportMarkup(path, scene, minify); err != nil {
		return "", err
	}
	return path, nil
}

// ExportMarkup writes the scene's markup to path, optionally minified.
func ExportMarkup(path string, scene document.Scene, minify bool) error {
	return WriteFile(path, func(w io.Writer) error {
		if !minify {
			return markup.Write(w, scene)
		}
		out, err := markup.Bytes(scene)
		if err != nil {
			return err
		}
		if out, err = markup.Minify(out); err != nil {
			return err
		}
		if _, err := w.Write(out); err != nil {
			return &document.SinkError{Op: "write markup", Err: err}
		}
		return nil
	})
}

// ReadFile decodes the snapshot stored at path.
func ReadFile(path string, codec snapshot.Codec) (document.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return document.Scene{}, ErrNotFound
		}
		return document.Scene{}, &document.SinkError{Op: "open " + path, Err: err}
	}
	defer f.Close()
	return codec.Decode(f)
}

const filePerm = 0o644

// WriteFile writes to a temporary file in the target directory and renames it
// over path once write, sync and close all succeed. On any failure the
// temporary file is removed and an existing file at path is left untouched.
func WriteFile(path string, write func(w io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return &document.SinkError{Op: "create " + path, Err: err}
	}
	closed := false
	defer func() {
		if !closed {
			tmp.Close()
		}
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if err := write(tmp); err != nil {
		return err
	}
	// CreateTemp opens with 0600; saved files are readable like any other.
	if err := tmp.Chmod(filePerm); err != nil {
		return &document.SinkError{Op: "chmod " + path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &document.SinkError{Op: "sync " + path, Err: err}
	}
	closed = true
	if err := tmp.Close(); err != nil {
		return &document.SinkError{Op: "close " + path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &document.SinkError{Op: "rename " + path, Err: err}
	}
	return nil
}
