// Package archive packs a package directory into a distributable archive.
// Archives are written atomically through a temp file and rename, and are
// reported with their SHA256 checksum.
package archive

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tbxmanager/tbx"
)

// OverwritePrompt is the question asked before replacing an existing archive.
const OverwritePrompt = "Overwrite? [y/n]"

// Result describes a finished Build.
type Result struct {
	Path     string
	Files    int
	Size     int64
	Checksum string
	// Skipped is true when the user declined to overwrite an existing archive.
	Skipped bool
}

// Builder creates archives, asking before it replaces an existing one.
type Builder struct {
	// Prompt asks whether to overwrite. Only a lowercase "y" answer overwrites.
	// A nil Prompt never overwrites.
	Prompt tbx.PromptFunc
}

// Build packs dir into target using format. Only "zip" is supported.
func (b *Builder) Build(ctx context.Context, dir, target, format string) (Result, error) {
	if format == "" {
		format = tbx.DefaultFormat
	}
	if format != "zip" {
		return Result{}, fmt.Errorf("archive format %q is not supported: %w", format, tbx.ErrUnknownInput)
	}

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{}, fmt.Errorf("directory %s: %w", dir, tbx.ErrFileNotFound)
		}
		return Result{}, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("%s is not a directory: %w", dir, tbx.ErrFileNotFound)
	}

	if _, err := os.Stat(target); err == nil {
		overwrite, promptErr := b.confirmOverwrite()
		if promptErr != nil {
			return Result{}, promptErr
		}
		if !overwrite {
			return Result{Path: target, Skipped: true}, nil
		}
	}

	return writeAtomic(ctx, dir, target)
}

func (b *Builder) confirmOverwrite() (bool, error) {
	if b.Prompt == nil {
		return false, nil
	}
	answer, err := b.Prompt(OverwritePrompt, false)
	if err != nil {
		return false, fmt.Errorf("prompt overwrite: %w", err)
	}
	return answer == "y", nil
}

func writeAtomic(ctx context.Context, dir, target string) (Result, error) {
	tmpPath := filepath.Join(filepath.Dir(target), tmpFileName())
	t, err := os.Create(tmpPath) //#nosec G304 -- path derived from target
	if err != nil {
		return Result{}, fmt.Errorf("could not open temp file: %w", err)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
			slog.Warn("failed to close tmp file", "err", closeErr)
		}
		if !success {
			if rmErr := os.Remove(tmpPath); rmErr != nil {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	h := sha256.New()
	cw := &countingWriter{w: io.MultiWriter(h, t)}

	skip := []string{target, tmpPath}
	files, err := Zip(ctx, dir, cw, skip...)
	if err != nil {
		return Result{}, err
	}

	if err := t.Sync(); err != nil {
		return Result{}, fmt.Errorf("could not sync archive: %w", err)
	}
	if err := t.Close(); err != nil {
		return Result{}, fmt.Errorf("could not close archive: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		return Result{}, fmt.Errorf("failed to rename archive: %w", err)
	}
	success = true

	return Result{
		Path:     target,
		Files:    files,
		Size:     cw.n,
		Checksum: hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// Zip writes every regular file below dir into w as a zip archive, using
// slash-separated paths relative to dir. Paths listed in skip are left out.
// It returns the number of files written.
func Zip(ctx context.Context, dir string, w io.Writer, skip ...string) (int, error) {
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		if abs, err := filepath.Abs(s); err == nil {
			skipped[abs] = true
		}
	}

	zw := zip.NewWriter(w)
	files := 0

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if abs, err := filepath.Abs(path); err == nil && skipped[abs] {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("calculate relative path: %w", err)
		}

		if err := addFile(zw, path, filepath.ToSlash(rel), d); err != nil {
			return err
		}
		files++
		return nil
	})
	if walkErr != nil {
		_ = zw.Close()
		return files, fmt.Errorf("walk directory: %w", walkErr)
	}

	if err := zw.Close(); err != nil {
		return files, fmt.Errorf("finish zip: %w", err)
	}
	return files, nil
}

func addFile(zw *zip.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("zip header %s: %w", path, err)
	}
	header.Name = name
	header.Method = zip.Deflate

	dst, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("zip entry %s: %w", name, err)
	}

	src, err := os.Open(path) //#nosec G304 -- walking a user-provided directory
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = src.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func tmpFileName() string {
	return fmt.Sprintf(".t%s", uuid.New().String())
}
