// Package formats writes built shell meshes to common interchange formats.
package formats

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/morphospace/pkg/mesh"
)

// Format is a mesh file format.
type Format string

// Supported formats.
const (
	FormatOBJ Format = "obj"
	FormatSTL Format = "stl"
	FormatGLB Format = "glb"
)

// ErrUnknownFormat is returned for unsupported format names or extensions.
var ErrUnknownFormat = errors.New("unknown mesh format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatOBJ, FormatSTL, FormatGLB:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Save writes res to path in the given format. The file appears only once
// it is complete; on error nothing is left at path.
func Save(path string, f Format, res *mesh.Result, name string) error {
	switch f {
	case FormatOBJ:
		return writeAtomic(path, func(tmp string) error {
			file, err := os.Create(tmp)
			if err != nil {
				return err
			}
			if err := WriteOBJ(file, res, name); err != nil {
				file.Close()
				return err
			}
			return file.Close()
		})
	case FormatSTL:
		return writeAtomic(path, func(tmp string) error {
			return SaveSTL(tmp, res)
		})
	case FormatGLB:
		return writeAtomic(path, func(tmp string) error {
			return SaveGLB(tmp, res, name)
		})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// filePerm is the mode of published mesh files. CreateTemp makes 0600.
const filePerm = 0644

// writeAtomic runs write against a temporary sibling of path and renames it
// into place on success.
func writeAtomic(path string, write func(tmp string) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmp := f.Name()
	f.Close()

	if err := write(tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmp, filePerm); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}

// errWriter keeps the first write error so callers check once at the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
