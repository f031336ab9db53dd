package output

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/geodetic-tools/pkg/geoerr"
)

var outputLocks = struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}{locks: make(map[string]*sync.Mutex)}

func lockForPath(path string) func() {
	outputLocks.mu.Lock()
	m, ok := outputLocks.locks[path]
	if !ok {
		m = &sync.Mutex{}
		outputLocks.locks[path] = m
	}
	outputLocks.mu.Unlock()
	m.Lock()
	return func() { m.Unlock() }
}

// WriteResult writes content verbatim to dir/name, replacing any existing
// file, and returns the written path.
func WriteResult(dir, name string, content []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, name)

	unlock := lockForPath(path)
	defer unlock()
	log.Debug().Str("path", path).Int("size", len(content)).Msg("output: write start")

	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", &geoerr.FileSystemError{Op: "write", Path: path, Err: err}
	}
	log.Debug().Str("path", path).Msg("output: written")
	return path, nil
}

// Move relocates the file at path into dir, creating dir if needed, and
// returns the new path. An existing file with the same name is replaced.
func Move(path, dir string) (string, error) {
	if dir == "" {
		return path, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &geoerr.FileSystemError{Op: "mkdir", Path: dir, Err: err}
	}
	dst := filepath.Join(dir, filepath.Base(path))
	if filepath.Clean(dst) == filepath.Clean(path) {
		return path, nil
	}

	unlock := lockForPath(dst)
	defer unlock()

	if err := os.Rename(path, dst); err != nil {
		// rename fails across devices, fall back to copy + remove
		if cerr := copyFile(path, dst); cerr != nil {
			return "", &geoerr.FileSystemError{Op: "move", Path: path, Err: cerr}
		}
		if rerr := os.Remove(path); rerr != nil {
			return "", &geoerr.FileSystemError{Op: "remove", Path: path, Err: rerr}
		}
	}
	log.Debug().Str("from", path).Str("to", dst).Msg("output: moved")
	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// IsZip reports whether name carries a .zip extension
func IsZip(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".zip")
}

// VerifyZip checks that content is a readable zip archive.
func VerifyZip(path string, content []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return &geoerr.FileSystemError{Op: "verify", Path: path, Err: fmt.Errorf("not a valid zip archive: %w", err)}
	}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return &geoerr.FileSystemError{Op: "verify", Path: path, Err: fmt.Errorf("failed to open %s: %w", f.Name, err)}
		}
		_, err = io.Copy(io.Discard, rc)
		_ = rc.Close()
		if err != nil {
			return &geoerr.FileSystemError{Op: "verify", Path: path, Err: fmt.Errorf("failed to read %s: %w", f.Name, err)}
		}
	}
	log.Debug().Str("path", path).Int("entries", len(zr.File)).Msg("output: zip verified")
	return nil
}
